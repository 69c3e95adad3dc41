package naming

import (
	"path/filepath"
	"strings"
)

// WebPExt is the extension every output carries.
const WebPExt = ".webp"

// referenceExtensions are the image extensions recognized inside code
// references, longest first so ".jpeg" is tried before ".jpg".
var referenceExtensions = []string{".jpeg", ".jpg", ".png", ".gif", ".bmp"}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WebPPath returns the .webp sibling of src: same directory, same stem.
//
//	/site/public/hero.PNG -> /site/public/hero.webp
func WebPPath(src string) string {
	return VariantPath(src, "")
}

// VariantPath returns the output path for one responsive size of src.
//
//	VariantPath("/img/hero.jpg", "-mobile") -> /img/hero-mobile.webp
func VariantPath(src, suffix string) string {
	return filepath.Join(filepath.Dir(src), Stem(src)+suffix+WebPExt)
}

// IsVariantStem reports whether stem contains one of the non-empty
// suffixes anywhere, i.e. the file is treated as a generated variant and not
// a source. "hero-mobile-bg" counts as a variant.
func IsVariantStem(stem string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.Contains(stem, s) {
			return true
		}
	}
	return false
}

// WebPEquivalent rewrites the image extension of a reference path (as
// written in code, with '/' separators) to .webp. The extension match is
// case-insensitive; the rest of the path is kept verbatim. ok is false when
// ref does not end in a known image extension.
func WebPEquivalent(ref string) (string, bool) {
	lower := strings.ToLower(ref)
	for _, ext := range referenceExtensions {
		if strings.HasSuffix(lower, ext) {
			return ref[:len(ref)-len(ext)] + WebPExt, true
		}
	}
	return "", false
}
