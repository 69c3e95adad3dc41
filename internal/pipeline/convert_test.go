package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	xwebp "golang.org/x/image/webp"

	"github.com/backmassage/webpify/internal/config"
)

func writeWith(t *testing.T, path string, w, h int, enc func(io.Writer, image.Image) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func webpSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	c, err := xwebp.DecodeConfig(f)
	if err != nil {
		t.Fatalf("%s is not a valid webp: %v", filepath.Base(path), err)
	}
	return c.Width, c.Height
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hero.png"), 40, 30, 0x80)
	writeWith(t, filepath.Join(dir, "img", "photo.jpg"), 24, 16, func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) })
	writeWith(t, filepath.Join(dir, "img", "anim.gif"), 10, 10, func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) })
	writeWith(t, filepath.Join(dir, "old.bmp"), 12, 8, bmp.Encode)
	writePNG(t, filepath.Join(dir, "node_modules", "dep.png"), 4, 4, 0xff)
	writePNG(t, filepath.Join(dir, "done.png"), 4, 4, 0xff)
	if err := os.WriteFile(filepath.Join(dir, "done.webp"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	log, _ := quietRun(t, &cfg)

	stats := RunConvert(context.Background(), &cfg, log)

	if stats.Total != 6 || stats.Converted != 4 || stats.Skipped != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want total 6, converted 4, skipped 1, failed 1", stats)
	}
	if stats.TotalInputBytes <= 0 || stats.TotalOutputBytes <= 0 {
		t.Errorf("byte totals not recorded: %+v", stats)
	}

	want := map[string][2]int{
		"hero.webp":      {40, 30},
		"img/photo.webp": {24, 16},
		"img/anim.webp":  {10, 10},
		"old.webp":       {12, 8},
	}
	for rel, wh := range want {
		w, h := webpSize(t, filepath.Join(dir, rel))
		if w != wh[0] || h != wh[1] {
			t.Errorf("%s = %dx%d, want %dx%d", rel, w, h, wh[0], wh[1])
		}
	}

	if data, _ := os.ReadFile(filepath.Join(dir, "done.webp")); string(data) != "keep" {
		t.Error("existing output must never be overwritten")
	}
	if exists(filepath.Join(dir, "node_modules", "dep.webp")) {
		t.Error("excluded directory must not be processed")
	}
	if exists(filepath.Join(dir, "broken.webp")) {
		t.Error("failed conversion must not leave output")
	}
	if !exists(filepath.Join(dir, "hero.png")) {
		t.Error("originals must be kept by default")
	}
}

func TestRunConvert_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	log, _ := quietRun(t, &cfg)

	if s := RunConvert(context.Background(), &cfg, log); s.Converted != 1 {
		t.Fatalf("first run converted %d, want 1", s.Converted)
	}
	s := RunConvert(context.Background(), &cfg, log)
	if s.Converted != 0 || s.Skipped != 1 {
		t.Errorf("second run = %+v, want everything skipped", s)
	}
}

func TestRunConvert_DryRun(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8, 0xff)
	writePNG(t, filepath.Join(dir, "b.png"), 8, 8, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.DryRun = true
	log, _ := quietRun(t, &cfg)

	stats := RunConvert(context.Background(), &cfg, log)
	if stats.Converted != 2 || stats.TotalOutputBytes != 0 {
		t.Errorf("dry run stats = %+v, want 2 would-convert and no bytes", stats)
	}
	if exists(filepath.Join(dir, "a.webp")) || exists(filepath.Join(dir, "b.webp")) {
		t.Error("dry run must not write")
	}
}

func TestRunConvert_DeleteOriginals(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writePNG(t, src, 8, 8, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	cfg.DeleteOriginals = true
	log, _ := quietRun(t, &cfg)

	RunConvert(context.Background(), &cfg, log)
	if exists(src) {
		t.Error("original should be deleted after conversion")
	}
	if !exists(filepath.Join(dir, "a.webp")) {
		t.Error("output missing")
	}
}

func TestRunConvert_Declined(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	log, _ := quietRun(t, &cfg)
	stdin = bytes.NewReader([]byte("n\n"))

	stats := RunConvert(context.Background(), &cfg, log)
	if !stats.Cancelled || stats.Converted != 0 {
		t.Errorf("stats = %+v, want cancelled", stats)
	}
	if exists(filepath.Join(dir, "a.webp")) {
		t.Error("declined run must not write")
	}
}

func TestRunConvert_NativeBackend(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 16, 9, 0x40)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	cfg.Backend = config.BackendNative
	log, _ := quietRun(t, &cfg)

	if s := RunConvert(context.Background(), &cfg, log); s.Converted != 1 {
		t.Fatalf("converted %d, want 1", s.Converted)
	}
	if w, h := webpSize(t, filepath.Join(dir, "a.webp")); w != 16 || h != 9 {
		t.Errorf("size = %dx%d, want 16x9", w, h)
	}
}

func TestRunConvert_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	log, _ := quietRun(t, &cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := RunConvert(ctx, &cfg, log)
	if stats.Current != 0 || exists(filepath.Join(dir, "a.webp")) {
		t.Errorf("cancelled context should stop before the first file, got %+v", stats)
	}
}
