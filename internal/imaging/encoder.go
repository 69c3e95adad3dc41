package imaging

import (
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gen2brain/webp"

	"github.com/backmassage/webpify/internal/config"
)

// Options are the per-call encoding parameters.
type Options struct {
	Quality  int  // 0-100; ignored when Lossless.
	Method   int  // 0 (fast) to 6 (slowest, smallest).
	Lossless bool
}

// Encoder writes img to w as WebP.
type Encoder interface {
	Name() string
	// Lossy reports whether the backend honors Options.Quality.
	Lossy() bool
	Encode(w io.Writer, img image.Image, opts Options) error
}

// NewEncoder returns the encoder for backend.
func NewEncoder(backend config.Backend) (Encoder, error) {
	switch backend {
	case config.BackendWasm:
		return wasmEncoder{}, nil
	case config.BackendNative:
		return nativeEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown encoder backend %q", backend)
	}
}

// wasmEncoder runs libwebp compiled to WebAssembly (no cgo required).
type wasmEncoder struct{}

func (wasmEncoder) Name() string { return "wasm (libwebp)" }
func (wasmEncoder) Lossy() bool  { return true }

func (wasmEncoder) Encode(w io.Writer, img image.Image, opts Options) error {
	err := webp.Encode(w, img, webp.Options{
		Quality:  opts.Quality,
		Lossless: opts.Lossless,
		Method:   opts.Method,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// nativeEncoder is the pure-Go VP8L encoder. It is always lossless, so
// quality and method are ignored.
type nativeEncoder struct{}

func (nativeEncoder) Name() string { return "native (pure Go, lossless)" }
func (nativeEncoder) Lossy() bool  { return false }

func (nativeEncoder) Encode(w io.Writer, img image.Image, _ Options) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}
