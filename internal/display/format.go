// Package display holds human-facing formatting helpers: the banner,
// section rules, byte sizes and reduction percentages.
package display

import (
	"fmt"
)

// binaryUnits are the FormatBytes units above plain bytes. TiB is the cap.
var binaryUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatBytes picks the largest binary unit that keeps the value at or above
// one ("512 B", "1.5 KiB", "3.0 MiB"). Used where sizes span several orders
// of magnitude, like the analyze total and the encoder self-test.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v, unit := float64(n), ""
	for _, u := range binaryUnits {
		v /= 1024
		unit = u
		if v < 1024 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}

// FormatKB renders bytes as kilobytes with one decimal (e.g. "12.5KB"), the
// unit used for per-file reports.
func FormatKB(bytes int64) string {
	return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
}

// FormatMB renders bytes as megabytes with two decimals (e.g. "3.21 MB"),
// the unit used for batch summaries.
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

// Reduction returns how much smaller after is than before, in percent.
// Negative when the output grew; 0 when before is 0.
func Reduction(before, after int64) float64 {
	if before <= 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100
}

// FormatReduction renders [Reduction] with one decimal (e.g. "42.0%").
func FormatReduction(before, after int64) string {
	return fmt.Sprintf("%.1f%%", Reduction(before, after))
}
