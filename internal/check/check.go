// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the WebP encoder backends and the
// source image decoders.
package check

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"runtime"

	"golang.org/x/image/bmp"
	xwebp "golang.org/x/image/webp"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/imaging"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrRootNotFound       = errors.New("root directory not found")
	ErrEncoderUnavailable = errors.New("webp encoder unavailable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Smoke test image dimensions.
const (
	testWidth  = 32
	testHeight = 24
)

// RunCheck runs the interactive --check flow: encodes a test image with
// every backend, round-trips a fixture per source format through the
// decoders, and prints the responsive size table. It returns false when the
// configured backend or any decoder fails.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	log.Info("Go runtime: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	ok := checkEncoders(cfg, log)
	if !checkDecoders(log) {
		ok = false
	}
	printSizes(cfg, log)

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("Some checks failed")
	}
	return ok
}

// checkEncoders smoke-tests every backend. Only a failure of the configured
// backend fails the check; the others are informational.
func checkEncoders(cfg *config.Config, log Logger) bool {
	log.Info("WebP encoders:")
	ok := true
	for _, b := range []config.Backend{config.BackendWasm, config.BackendNative} {
		enc, err := imaging.NewEncoder(b)
		if err == nil {
			var n int
			n, err = smokeTest(enc, imaging.Options{Quality: cfg.Quality, Method: cfg.Method, Lossless: cfg.Lossless})
			if err == nil {
				marker := ""
				if b == cfg.Backend {
					marker = " [selected]"
				}
				log.Success("  %s: %dx%d test image → %s%s", enc.Name(), testWidth, testHeight, display.FormatBytes(int64(n)), marker)
				continue
			}
		}
		if b == cfg.Backend {
			log.Error("  %s: %v", b, err)
			ok = false
		} else {
			log.Warn("  %s: %v", b, err)
		}
	}
	return ok
}

// checkDecoders encodes a tiny fixture in each accepted source format and
// decodes it back through the imaging registry.
func checkDecoders(log Logger) bool {
	log.Info("Source decoders:")
	fixtures := []struct {
		format string
		encode func(io.Writer, image.Image) error
	}{
		{"jpeg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }},
		{"png", png.Encode},
		{"gif", func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }},
		{"bmp", bmp.Encode},
	}
	ok := true
	for _, f := range fixtures {
		if err := roundTrip(f.format, f.encode); err != nil {
			log.Error("  %s: %v", f.format, err)
			ok = false
			continue
		}
		log.Success("  %s: OK", f.format)
	}
	return ok
}

func printSizes(cfg *config.Config, log Logger) {
	log.Info("Responsive sizes:")
	for _, s := range cfg.Sizes {
		width := "original"
		if s.Width > 0 {
			width = fmt.Sprintf("%dpx", s.Width)
		}
		suffix := s.Suffix
		if suffix == "" {
			suffix = "(none)"
		}
		log.Info("  %-10s %-9s Q%-4d suffix %s", s.Name, width, s.Quality, suffix)
	}
}

// CheckDeps is the pre-pipeline validation: the root must be an existing
// directory and the configured encoder must produce a decodable WebP.
// Returns a wrapped sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	fi, err := os.Stat(cfg.RootDir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotFound, cfg.RootDir)
	}
	enc, err := imaging.NewEncoder(cfg.Backend)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	if _, err := smokeTest(enc, imaging.Options{Quality: cfg.Quality, Method: cfg.Method, Lossless: cfg.Lossless}); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncoderUnavailable, enc.Name(), err)
	}
	return nil
}

// --- internal helpers ---

// smokeTest encodes a gradient and verifies the result decodes to the same
// dimensions. It returns the encoded size.
func smokeTest(enc imaging.Encoder, opts imaging.Options) (int, error) {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, testImage(), opts); err != nil {
		return 0, err
	}
	c, err := xwebp.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return 0, fmt.Errorf("output does not decode: %w", err)
	}
	if c.Width != testWidth || c.Height != testHeight {
		return 0, fmt.Errorf("output is %dx%d, want %dx%d", c.Width, c.Height, testWidth, testHeight)
	}
	return buf.Len(), nil
}

func roundTrip(format string, encode func(io.Writer, image.Image) error) error {
	var buf bytes.Buffer
	if err := encode(&buf, testImage()); err != nil {
		return err
	}
	img, got, err := imaging.Decode(&buf)
	if err != nil {
		return err
	}
	if got != format {
		return fmt.Errorf("decoded as %q", got)
	}
	if b := img.Bounds(); b.Dx() != testWidth || b.Dy() != testHeight {
		return fmt.Errorf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), testWidth, testHeight)
	}
	return nil
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, testWidth, testHeight))
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}
