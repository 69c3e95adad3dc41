package responsive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/backmassage/webpify/internal/config"
)

func TestIsSource(t *testing.T) {
	sizes := config.DefaultSizes()
	tests := []struct {
		path string
		want bool
	}{
		{"/img/hero.jpg", true},
		{"/img/hero-mobile.jpg", false},
		{"/img/hero-tablet.png", false},
		{"/img/hero-desktop.gif", false},
		{"/img/mobile-first.png", true},
		{"/img/hero-mobile-bg.png", false},
		{"/img/app-tablet-shot.jpg", false},
	}
	for _, tt := range tests {
		if got := IsSource(sizes, filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("IsSource(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBuildPlan(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hero.jpg")
	// An existing tablet variant must be skipped, not overwritten.
	if err := os.WriteFile(filepath.Join(dir, "hero-tablet.webp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := BuildPlan(config.DefaultSizes(), src, 1600, 900)

	type row struct {
		Name   string
		File   string
		W, H   int
		Action Action
	}
	var got []row
	for _, v := range p.Variants {
		got = append(got, row{v.Size.Name, filepath.Base(v.OutputPath), v.Width, v.Height, v.Action})
	}
	want := []row{
		{"mobile", "hero-mobile.webp", 640, 360, ActionWrite},
		{"tablet", "hero-tablet.webp", 1024, 576, ActionSkipExists},
		{"desktop", "hero-desktop.webp", 1600, 900, ActionWrite},
		{"original", "hero.webp", 1600, 900, ActionWrite},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if n := len(p.Pending()); n != 3 {
		t.Errorf("Pending() = %d variants, want 3", n)
	}
	if p.Stem != "hero" || p.SourceWidth != 1600 {
		t.Errorf("plan header = %+v", p)
	}
	if !p.Variants[0].Resized(1600) || p.Variants[2].Resized(1600) {
		t.Error("Resized() should be true only for shrunk variants")
	}
}

func TestSnippet(t *testing.T) {
	produced := map[string]bool{"mobile": true, "tablet": true, "desktop": true, "original": true}
	got := Snippet("/images/", "hero", config.DefaultSizes(), produced)
	want := `<picture>
  <source
    srcSet="{
            /images/hero-mobile.webp 640w,
            /images/hero-tablet.webp 1024w,
            /images/hero-desktop.webp 1920w
         }"
    sizes="(max-width: 640px) 640px,
           (max-width: 1024px) 1024px,
           1920px"
    type="image/webp"
  />
  <img src="/images/hero.webp" alt="" />
</picture>
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snippet mismatch (-want +got):\n%s", diff)
	}
}

func TestSnippet_PartialAndEmpty(t *testing.T) {
	sizes := config.DefaultSizes()

	got := Snippet("/img/", "a", sizes, map[string]bool{"tablet": true})
	wantSrc := "srcSet=\"{\n            /img/a-tablet.webp 1024w\n         }\""
	if !strings.Contains(got, wantSrc) {
		t.Errorf("partial snippet missing tablet-only srcSet:\n%s", got)
	}

	if s := Snippet("/img/", "a", sizes, map[string]bool{"original": true}); s != "" {
		t.Errorf("only the full-width variant produced: want empty snippet, got %q", s)
	}
	if s := Snippet("/img/", "a", sizes, nil); s != "" {
		t.Errorf("nothing produced: want empty snippet, got %q", s)
	}
}

func TestFallbackSuffix(t *testing.T) {
	if got := fallbackSuffix(config.DefaultSizes()); got != "" {
		t.Errorf("fallbackSuffix(default) = %q, want empty", got)
	}
	sizes := []config.Size{{Name: "s", Width: 320, Suffix: "-s"}, {Name: "l", Width: 1280, Suffix: "-l"}}
	if got := fallbackSuffix(sizes); got != "-l" {
		t.Errorf("fallbackSuffix(no full size) = %q, want -l", got)
	}
}
