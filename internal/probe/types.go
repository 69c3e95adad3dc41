package probe

import "strconv"

// Result is what one probe learns about a file.
type Result struct {
	Path   string
	Format string // Registered decoder name: "jpeg", "png", "gif", "bmp", "webp".
	Width  int
	Height int
	Size   int64 // Bytes on disk.
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (r *Result) Resolution() string {
	if r.Width <= 0 || r.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.Width) + "x" + strconv.Itoa(r.Height)
}

// Pixels returns Width*Height (0 when unknown).
func (r *Result) Pixels() int64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return int64(r.Width) * int64(r.Height)
}

// BytesPerPixel returns the on-disk cost per pixel, or 0 when unknown.
func (r *Result) BytesPerPixel() float64 {
	px := r.Pixels()
	if px == 0 {
		return 0
	}
	return float64(r.Size) / float64(px)
}
