// Package imaging wraps the codec libraries behind the operations the
// pipeline needs: decode a source image, flatten transparency, shrink to a
// target width, and encode WebP through a pluggable backend.
//
// Files:
//   - decode.go: decoder registry (JPEG, PNG, GIF, BMP, WebP) and Load.
//   - flatten.go: alpha compositing onto an opaque background.
//   - resize.go: width-bounded downscaling with aspect preservation.
//   - encoder.go: Encoder interface with the wasm and native backends.
//   - write.go: atomic output writes.
package imaging
