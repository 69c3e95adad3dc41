package refs

import (
	"path"
	"strings"
)

// Index is the set of .webp files under a root, keyed by root-relative
// slash-separated path.
type Index struct {
	files     map[string]bool
	publicDir string
}

// NewIndex builds an index from root-relative slash paths. publicDir is the
// static asset root that absolute references ("/img/a.webp") resolve into.
func NewIndex(paths []string, publicDir string) *Index {
	idx := &Index{files: make(map[string]bool, len(paths)), publicDir: strings.Trim(publicDir, "/")}
	for _, p := range paths {
		idx.files[p] = true
	}
	return idx
}

// Len returns the number of indexed files.
func (idx *Index) Len() int { return len(idx.files) }

// Has reports whether the index contains p exactly.
func (idx *Index) Has(p string) bool { return idx.files[p] }

// Resolve reports whether ref (a .webp reference as written in a file living
// in fileDir, both slash-separated and root-relative) names an indexed file.
// Candidates, in order: ref without leading slashes; ref as written;
// publicDir + ref for absolute refs; ref joined onto fileDir.
func (idx *Index) Resolve(fileDir, ref string) bool {
	for _, c := range idx.candidates(fileDir, ref) {
		if idx.Has(c) {
			return true
		}
	}
	return false
}

func (idx *Index) candidates(fileDir, ref string) []string {
	out := []string{strings.TrimLeft(ref, "/"), ref}
	if strings.HasPrefix(ref, "/") && idx.publicDir != "" {
		out = append(out, idx.publicDir+ref)
	}
	if !strings.HasPrefix(ref, "/") && !strings.Contains(ref, "://") {
		if joined := path.Join(fileDir, ref); !strings.HasPrefix(joined, "../") && joined != ".." {
			out = append(out, joined)
		}
	}
	return out
}
