package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// White is the background used when flattening transparent sources.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Flatten composites img over an opaque bg and returns an RGBA image whose
// bounds start at the origin. Palette, gray+alpha and RGBA sources all end
// up fully opaque; opaque sources are copied unchanged.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// IsOpaque reports whether img has no transparent pixels. Images that do not
// implement Opaque are scanned.
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// Prepare returns the image that is handed to the encoder: img itself when
// keepAlpha is set or img is already opaque, otherwise img flattened onto
// white.
func Prepare(img image.Image, keepAlpha bool) image.Image {
	if keepAlpha || IsOpaque(img) {
		return img
	}
	return Flatten(img, White)
}
