package refs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRules_Match(t *testing.T) {
	tests := []struct {
		kind  string
		input string
		want  string
	}{
		{"src attribute", `<img src="/images/hero.jpg" />`, "/images/hero.jpg"},
		{"src attribute", `<Image SRC = 'a/b.PNG'>`, "a/b.PNG"},
		{"href attribute", `<link href="/favicon.png">`, "/favicon.png"},
		{"CSS url()", `background: url(/bg.gif);`, "/bg.gif"},
		{"CSS url()", `background: url("/bg.jpeg");`, "/bg.jpeg"},
		{"image property", `{ image: "/og.bmp" }`, "/og.bmp"},
		{"backgroundImage", `backgroundImage: "url(/hero.jpg)"`, "/hero.jpg"},
	}
	byKind := map[string]Rule{}
	for _, r := range Rules {
		byKind[r.Kind] = r
	}
	for _, tt := range tests {
		rule, ok := byKind[tt.kind]
		if !ok {
			t.Fatalf("no rule %q", tt.kind)
		}
		m := rule.Pattern.FindStringSubmatch(tt.input)
		if m == nil {
			t.Errorf("%s: no match in %q", tt.kind, tt.input)
			continue
		}
		if m[1] != tt.want {
			t.Errorf("%s: captured %q, want %q", tt.kind, m[1], tt.want)
		}
	}
}

func TestRules_NoMatch(t *testing.T) {
	inputs := []string{
		`<img src="/images/hero.svg" />`,
		`<img src="/images/hero.webp" />`,
		`const x = "hero.jpg"`,
	}
	for _, in := range inputs {
		for _, r := range Rules {
			if r.Pattern.MatchString(in) {
				t.Errorf("rule %q unexpectedly matched %q", r.Kind, in)
			}
		}
	}
}

func TestIndex_Resolve(t *testing.T) {
	idx := NewIndex([]string{
		"public/images/hero.webp",
		"images/logo.webp",
		"src/app/local.webp",
	}, "public")

	tests := []struct {
		name    string
		fileDir string
		ref     string
		want    bool
	}{
		{"absolute into public dir", "src/app", "/images/hero.webp", true},
		{"leading slash stripped", "src", "/images/logo.webp", true},
		{"as written", "src", "images/logo.webp", true},
		{"relative to file", "src/app", "./local.webp", true},
		{"relative parent", "src/app/page", "../local.webp", true},
		{"escapes root", ".", "../images/logo.webp", false},
		{"missing", "src", "/images/nope.webp", false},
		{"remote url", "src", "https://cdn.example.com/images/hero.webp", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Resolve(tt.fileDir, tt.ref); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %v, want %v", tt.fileDir, tt.ref, got, tt.want)
			}
		})
	}
	if idx.Len() != 3 || !idx.Has("images/logo.webp") {
		t.Error("Len/Has inconsistent with input")
	}
}

func TestRewrite(t *testing.T) {
	idx := NewIndex([]string{
		"public/images/hero.webp",
		"public/images/bg.webp",
		"public/og.webp",
	}, "public")

	content := `export default function Page() {
  return (
    <div style={{ backgroundImage: "url(/images/bg.png)" }}>
      <img src="/images/hero.jpg" alt="" />
      <img src="/images/missing.jpg" alt="" />
      <img src="https://cdn.example.com/x.png" />
    </div>
  );
}
export const meta = { image: "/og.JPG" };
`
	want := `export default function Page() {
  return (
    <div style={{ backgroundImage: "url(/images/bg.webp)" }}>
      <img src="/images/hero.webp" alt="" />
      <img src="/images/missing.jpg" alt="" />
      <img src="https://cdn.example.com/x.png" />
    </div>
  );
}
export const meta = { image: "/og.webp" };
`
	got, changes := Rewrite(content, "src/app", idx)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rewrite content mismatch (-want +got):\n%s", diff)
	}

	wantChanges := []Change{
		{Line: 3, Old: "/images/bg.png", New: "/images/bg.webp", Kind: "CSS url()"},
		{Line: 4, Old: "/images/hero.jpg", New: "/images/hero.webp", Kind: "src attribute"},
		{Line: 10, Old: "/og.JPG", New: "/og.webp", Kind: "image property"},
	}
	if diff := cmp.Diff(wantChanges, changes); diff != "" {
		t.Errorf("Rewrite changes mismatch (-want +got):\n%s", diff)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	idx := NewIndex([]string{"a.webp"}, "public")
	content := `<img src="a.jpg"><img src='a.jpg'>`

	once, changes := Rewrite(content, ".", idx)
	if len(changes) != 2 {
		t.Fatalf("first pass: %d changes, want 2", len(changes))
	}
	twice, changes := Rewrite(once, ".", idx)
	if twice != once || len(changes) != 0 {
		t.Errorf("second pass should be a no-op, got %d changes", len(changes))
	}
}

func TestRewrite_NoIndexNoChange(t *testing.T) {
	content := `<img src="/a.jpg">`
	got, changes := Rewrite(content, ".", NewIndex(nil, "public"))
	if got != content || len(changes) != 0 {
		t.Errorf("empty index must not rewrite, got %q (%d changes)", got, len(changes))
	}
}
