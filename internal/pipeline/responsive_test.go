package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/webpify/internal/config"
)

func TestRunResponsive(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hero.png"), 800, 400, 0xff)
	// A variant left over from another tool run; it is not a source.
	writePNG(t, filepath.Join(dir, "hero-mobile.png"), 10, 10, 0xff)
	// A size suffix in the middle of the stem also marks a variant.
	writePNG(t, filepath.Join(dir, "banner-tablet-wide.png"), 10, 10, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	log, out := quietRun(t, &cfg)

	stats := RunResponsive(context.Background(), &cfg, log)
	if stats.Total != 1 || stats.Converted != 1 || stats.Variants != 4 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want 1 image with 4 variants", stats)
	}

	want := map[string][2]int{
		"hero-mobile.webp":  {640, 320},
		"hero-tablet.webp":  {800, 400},
		"hero-desktop.webp": {800, 400},
		"hero.webp":         {800, 400},
	}
	for name, wh := range want {
		w, h := webpSize(t, filepath.Join(dir, name))
		if w != wh[0] || h != wh[1] {
			t.Errorf("%s = %dx%d, want %dx%d", name, w, h, wh[0], wh[1])
		}
	}
	for _, name := range []string{"hero-mobile-mobile.webp", "banner-tablet-wide.webp", "banner-tablet-wide-mobile.webp"} {
		if exists(filepath.Join(dir, name)) {
			t.Errorf("%s written: variants must not be treated as sources", name)
		}
	}

	snippet := out.String()
	for _, s := range []string{
		"/images/hero-mobile.webp 640w",
		"/images/hero-desktop.webp 1920w",
		`<img src="/images/hero.webp" alt="" />`,
	} {
		if !strings.Contains(snippet, s) {
			t.Errorf("snippet output missing %q:\n%s", s, snippet)
		}
	}

	again := RunResponsive(context.Background(), &cfg, log)
	if again.Skipped != 1 || again.Variants != 0 {
		t.Errorf("second run = %+v, want image skipped", again)
	}
}

func TestRunResponsive_ExampleLimit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writePNG(t, filepath.Join(dir, name), 20, 10, 0xff)
	}

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.AssumeYes = true
	cfg.SrcsetExamples = 1
	log, out := quietRun(t, &cfg)

	RunResponsive(context.Background(), &cfg, log)
	if n := strings.Count(out.String(), "<picture>"); n != 1 {
		t.Errorf("printed %d snippets, want 1", n)
	}
	if !strings.Contains(out.String(), "... and 2 more images") {
		t.Errorf("missing remainder line:\n%s", out.String())
	}
}

func TestRunResponsive_DryRun(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hero.png"), 1200, 600, 0xff)

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.DryRun = true
	log, out := quietRun(t, &cfg)

	stats := RunResponsive(context.Background(), &cfg, log)
	if stats.Converted != 1 || stats.Variants != 4 {
		t.Errorf("stats = %+v, want 1 image with 4 planned variants", stats)
	}
	for _, name := range []string{"hero-mobile.webp", "hero-tablet.webp", "hero-desktop.webp", "hero.webp"} {
		if exists(filepath.Join(dir, name)) {
			t.Errorf("dry run wrote %s", name)
		}
	}
	if !strings.Contains(out.String(), "/images/hero-tablet.webp 1024w") {
		t.Errorf("dry run should still print snippets:\n%s", out.String())
	}
}

func TestDescribeSizes(t *testing.T) {
	got := describeSizes(config.DefaultSizes())
	want := "mobile (640px, Q80), tablet (1024px, Q82), desktop (1920px, Q85), original (original, Q85)"
	if got != want {
		t.Errorf("describeSizes = %q, want %q", got, want)
	}
}
