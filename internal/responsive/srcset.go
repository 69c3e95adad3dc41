package responsive

import (
	"fmt"
	"strings"

	"github.com/backmassage/webpify/internal/config"
)

// Snippet renders a <picture> element for stem. The <source> srcSet lists
// every width-bounded size that was produced (keyed by size name), in table
// order; the sizes attribute always covers every width-bounded size. It
// returns "" when no width-bounded variant was produced.
func Snippet(prefix, stem string, sizes []config.Size, produced map[string]bool) string {
	var entries, media []string
	var bounded []config.Size
	for _, s := range sizes {
		if s.Width > 0 {
			bounded = append(bounded, s)
		}
	}
	for _, s := range bounded {
		if produced[s.Name] {
			entries = append(entries, fmt.Sprintf("%s%s%s.webp %dw", prefix, stem, s.Suffix, s.Width))
		}
	}
	if len(entries) == 0 {
		return ""
	}
	for i, s := range bounded {
		if i == len(bounded)-1 {
			media = append(media, fmt.Sprintf("%dpx", s.Width))
		} else {
			media = append(media, fmt.Sprintf("(max-width: %dpx) %dpx", s.Width, s.Width))
		}
	}

	var b strings.Builder
	b.WriteString("<picture>\n")
	b.WriteString("  <source\n")
	b.WriteString("    srcSet=\"{\n            ")
	b.WriteString(strings.Join(entries, ",\n            "))
	b.WriteString("\n         }\"\n")
	b.WriteString("    sizes=\"")
	b.WriteString(strings.Join(media, ",\n           "))
	b.WriteString("\"\n")
	b.WriteString("    type=\"image/webp\"\n")
	b.WriteString("  />\n")
	fmt.Fprintf(&b, "  <img src=\"%s%s%s.webp\" alt=\"\" />\n", prefix, stem, fallbackSuffix(sizes))
	b.WriteString("</picture>\n")
	return b.String()
}

// fallbackSuffix picks the <img> fallback: the full-width size if the table
// has one, else the widest bounded size.
func fallbackSuffix(sizes []config.Size) string {
	widest := -1
	suffix := ""
	for _, s := range sizes {
		if s.Width == 0 {
			return s.Suffix
		}
		if s.Width > widest {
			widest, suffix = s.Width, s.Suffix
		}
	}
	return suffix
}
