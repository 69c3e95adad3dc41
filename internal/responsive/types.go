package responsive

import "github.com/backmassage/webpify/internal/config"

// Action is the per-variant decision.
type Action int

const (
	ActionWrite      Action = iota
	ActionSkipExists        // Output already on disk; never overwritten.
)

// Variant is one size of one source image.
type Variant struct {
	Size       config.Size
	OutputPath string
	Width      int // Target dimensions after fitting.
	Height     int
	Action     Action
}

// Resized reports whether the variant is smaller than the source.
func (v *Variant) Resized(srcWidth int) bool {
	return v.Width != srcWidth
}

// Plan holds every variant decision for a single source image.
type Plan struct {
	SourcePath   string
	Stem         string
	SourceWidth  int
	SourceHeight int
	Variants     []Variant
}

// Pending returns the variants that still need to be written.
func (p *Plan) Pending() []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if v.Action == ActionWrite {
			out = append(out, v)
		}
	}
	return out
}
