// Package term decides whether webpify's console output is colored and
// holds the escape sequences the logger, banner and analyze table print.
//
// The sequences are plain string variables so callers can write
// term.Red+"[!]"+term.NC. They stay empty until [Configure] turns color on,
// which keeps redirected output and log files free of escape codes.
package term

import (
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/backmassage/webpify/internal/config"
)

// Escape sequences, empty while color is off.
var (
	Red     = "" // errors, extreme outliers
	Green   = "" // successful writes
	Yellow  = "" // skips and warnings
	Orange  = "" // bytes/px outliers
	Blue    = "" // progress
	Cyan    = "" // debug
	Magenta = "" // banner
	NC      = "" // reset
)

// palette binds each variable to the SGR sequence it carries when color is on.
var palette = []struct {
	dst *string
	seq string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Orange, "\033[1;38;5;208m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure switches every sequence on or off for mode. logging.NewLogger
// calls it before the first line is written.
func Configure(mode config.ColorMode) {
	on := wantColor(mode, os.Stdout)
	for _, p := range palette {
		if on {
			*p.dst = p.seq
		} else {
			*p.dst = ""
		}
	}
}

// Enabled reports whether the last [Configure] turned color on.
func Enabled() bool { return NC != "" }

// wantColor applies the --color setting. In auto mode color needs a
// terminal on out, an unset NO_COLOR (https://no-color.org) and a TERM other
// than "dumb".
func wantColor(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether f is an interactive terminal. The analyze
// progress line uses it to decide whether carriage returns are safe.
func IsTerminal(f *os.File) bool {
	return f != nil && xterm.IsTerminal(int(f.Fd()))
}
