package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes "question (y/n): " to w and reads one line from r. Only a
// trimmed "y" or "Y" confirms; anything else, EOF included, counts as no.
func Confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s (y/n): ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
