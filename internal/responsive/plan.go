package responsive

import (
	"os"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/imaging"
	"github.com/backmassage/webpify/internal/naming"
)

// Suffixes returns the file suffixes of sizes in table order.
func Suffixes(sizes []config.Size) []string {
	out := make([]string, len(sizes))
	for i, s := range sizes {
		out[i] = s.Suffix
	}
	return out
}

// IsSource reports whether path should be treated as a source image rather
// than a variant produced by an earlier run.
func IsSource(sizes []config.Size, path string) bool {
	return !naming.IsVariantStem(naming.Stem(path), Suffixes(sizes))
}

// BuildPlan computes the variants of a w×h source at src. Existing outputs
// are marked ActionSkipExists.
func BuildPlan(sizes []config.Size, src string, w, h int) *Plan {
	p := &Plan{
		SourcePath:   src,
		Stem:         naming.Stem(src),
		SourceWidth:  w,
		SourceHeight: h,
		Variants:     make([]Variant, 0, len(sizes)),
	}
	for _, s := range sizes {
		tw, th := imaging.TargetSize(w, h, s.Width)
		v := Variant{
			Size:       s,
			OutputPath: naming.VariantPath(src, s.Suffix),
			Width:      tw,
			Height:     th,
			Action:     ActionWrite,
		}
		if _, err := os.Stat(v.OutputPath); err == nil {
			v.Action = ActionSkipExists
		}
		p.Variants = append(p.Variants, v)
	}
	return p
}
