package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/backmassage/webpify/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                 _          _  __
__      _____| |__  _ __ (_)/ _|_   _
\ \ /\ / / _ \ '_ \| '_ \| | |_| | | |
 \ V  V /  __/ |_) | |_) | |  _| |_| |
  \_/\_/ \___|_.__/| .__/|_|_|  \__, |
                   |_|          |___/
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}

// Rule returns a horizontal rule of width '=' characters, used to frame
// summary sections.
func Rule(width int) string {
	if width < 1 {
		return ""
	}
	return strings.Repeat("=", width)
}
