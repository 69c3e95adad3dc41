package imaging

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// WriteWebP encodes img into a temporary file next to dst and renames it into
// place, so an interrupted or failed encode never leaves a partial dst.
// It returns the number of bytes written.
func WriteWebP(dst string, img image.Image, enc Encoder, opts Options) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	bw := bufio.NewWriter(tmp)
	if err := enc.Encode(bw, img, opts); err != nil {
		cleanup()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	fi, err := tmp.Stat()
	if err != nil {
		cleanup()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	return fi.Size(), nil
}
