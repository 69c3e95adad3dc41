package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/naming"
	"github.com/backmassage/webpify/internal/probe"
	"github.com/backmassage/webpify/internal/term"
)

// fileRow holds the probed per-file data for the analysis table.
type fileRow struct {
	Name       string
	Format     string
	Resolution string
	Size       int64
	BPP        float64
	HasWebP    bool
}

// Analyze discovers images, probes each one, and prints a tabular
// format/size report with bytes-per-pixel outlier highlighting. Nothing is
// written.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := imageWalker(cfg, log).Discover()
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	stats.Total = len(files)
	if stats.Total == 0 {
		log.Warn("No images found in %s", cfg.RootDir)
		return stats
	}

	log.Info("Analyzing %d images in %s …", stats.Total, cfg.RootDir)
	blank()

	isTTY := stdout == os.Stdout && term.IsTerminal(os.Stdout)
	var rows []fileRow
	var bppVals []float64

	for i, path := range files {
		if ctx.Err() != nil {
			if isTTY {
				clearProgress()
			}
			log.Warn("Interrupted")
			return stats
		}
		stats.Current = i + 1
		name := relPath(cfg.RootDir, path)

		printProgress(isTTY, i+1, stats.Total, stats.Skipped, name)

		pr, err := probe.Probe(path)
		if err != nil {
			stats.Skipped++
			if isTTY {
				clearProgress()
			}
			log.Warn("Skip (probe failed): %s: %v", name, err)
			continue
		}

		row := fileRow{
			Name:       name,
			Format:     pr.Format,
			Resolution: pr.Resolution(),
			Size:       pr.Size,
			BPP:        pr.BytesPerPixel(),
		}
		if _, err := os.Stat(naming.WebPPath(path)); err == nil {
			row.HasWebP = true
		}
		rows = append(rows, row)
		stats.TotalInputBytes += row.Size
		if row.BPP > 0 {
			bppVals = append(bppVals, row.BPP)
		}
	}

	if isTTY {
		clearProgress()
	}

	if len(rows) == 0 {
		log.Warn("No images could be probed")
		return stats
	}

	bStats := computeStats(bppVals)
	printAnalysisTable(rows, bStats)
	printAnalysisSummary(log, rows, bStats)
	return stats
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || v <= 0 {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func printAnalysisTable(rows []fileRow, bStats iqrBounds) {
	nameW := len("File")
	fmtW := len("Format")
	resW := len("Dimensions")
	sizeW := len("Size")
	bppW := len("Bytes/px")

	for _, r := range rows {
		nameW = max(nameW, utf8.RuneCountInString(r.Name))
		fmtW = max(fmtW, len(r.Format))
		resW = max(resW, len(r.Resolution))
		sizeW = max(sizeW, len(display.FormatKB(r.Size)))
		bppW = max(bppW, len(fmtBPP(r.BPP)))
	}
	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %-*s  %s",
		nameW, "File",
		fmtW, "Format",
		resW, "Dimensions",
		sizeW, "Size",
		bppW, "Bytes/px",
		"WebP",
	)
	separator := "  " + strings.Repeat("─", len(header)-2)

	fmt.Fprintln(stdout, header)
	fmt.Fprintln(stdout, separator)

	for _, r := range rows {
		name := trimLeft(r.Name, nameW)
		class := bStats.classify(r.BPP)
		// Pad the plain text first, then wrap in ANSI color, so escape bytes
		// don't count toward the column width.
		bppCell := colorPad(fmtBPP(r.BPP), bppW, class)
		webp := "no"
		if r.HasWebP {
			webp = "yes"
		}
		fmt.Fprintf(stdout, "  %-*s  %-*s  %-*s  %*s  %s  %-4s %s\n",
			nameW, name,
			fmtW, r.Format,
			resW, r.Resolution,
			sizeW, display.FormatKB(r.Size),
			bppCell,
			webp,
			formatFlag(class),
		)
	}
	blank()
}

// trimLeft keeps the last width-1 runes of s behind an ellipsis when s is
// wider than width runes.
func trimLeft(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}

func printAnalysisSummary(log *logging.Logger, rows []fileRow, bStats iqrBounds) {
	var outliers, extremes, withWebP int
	var total int64
	for _, r := range rows {
		total += r.Size
		if r.HasWebP {
			withWebP++
		}
		switch bStats.classify(r.BPP) {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
	}

	log.Info("Analyzed %d images (%s)", len(rows), display.FormatBytes(total))
	log.Info("  Already converted: %d of %d have a .webp sibling", withWebP, len(rows))
	if bStats.valid {
		log.Info("  Bytes/px IQR: %.3f – %.3f (outlier < %.3f or > %.3f)",
			bStats.q1, bStats.q3, bStats.outlierLo, bStats.outlierHi)
	}
	if outliers > 0 {
		log.Outlier("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func fmtBPP(v float64) string {
	if v <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

func formatFlag(flag string) string {
	switch flag {
	case "extreme":
		return term.Red + "[!]" + term.NC
	case "outlier":
		return term.Orange + "[*]" + term.NC
	default:
		return ""
	}
}

// colorPad pads a plain string to width, then wraps in ANSI color. This
// ensures %-*s-style alignment works correctly regardless of escape sequences.
func colorPad(s string, width int, class string) string {
	padded := fmt.Sprintf("%-*s", width, s)
	switch class {
	case "extreme":
		return term.Red + padded + term.NC
	case "outlier":
		return term.Orange + padded + term.NC
	default:
		return padded
	}
}

// printProgress shows a live probe counter. On a TTY it writes an
// inline \r-overwritten line; otherwise it is a no-op (the skip warnings
// already provide enough breadcrumbs in piped/logged output).
func printProgress(isTTY bool, current, total, skipped int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Probing [%d/%d] %d%% ", current, total, pct)
	if skipped > 0 {
		status += fmt.Sprintf("(%d skipped) ", skipped)
	}

	maxName := 40
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	status += name

	if len(status) < 80 {
		status += strings.Repeat(" ", 80-len(status))
	}
	fmt.Fprintf(os.Stdout, "\r%s", status)
}

// clearProgress erases the inline progress line on a TTY.
func clearProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
