package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// TargetSize returns the dimensions of a w×h image fitted to targetWidth.
// Images already at or below the target (and targetWidth <= 0, meaning
// "keep") are returned unchanged: we never upscale. The height keeps the
// aspect ratio, rounded down, with a floor of 1.
func TargetSize(w, h, targetWidth int) (int, int) {
	if targetWidth <= 0 || w <= targetWidth || w <= 0 {
		return w, h
	}
	nh := int(int64(h) * int64(targetWidth) / int64(w))
	if nh < 1 {
		nh = 1
	}
	return targetWidth, nh
}

// FitWidth downsizes img to targetWidth with Catmull-Rom resampling. It
// returns img unchanged when no resize is needed.
func FitWidth(img image.Image, targetWidth int) image.Image {
	b := img.Bounds()
	w, h := TargetSize(b.Dx(), b.Dy(), targetWidth)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
