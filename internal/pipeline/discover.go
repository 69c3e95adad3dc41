package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/naming"
)

// Walker enumerates files under Root whose lowercase extension is in
// Extensions, or that Match accepts when Match is set. Directories whose base
// name is in ExcludeDirs are pruned, except Root itself.
type Walker struct {
	Root        string
	ExcludeDirs []string
	Extensions  []string
	Match       func(path string) bool

	// OnError is called for entries that cannot be read; the entry is
	// skipped. Nil means skip silently.
	OnError func(path string, err error)
}

// Walk calls fn for every matching file in lexical order. An error from fn
// stops the walk and is returned.
func (w *Walker) Walk(fn func(path string) error) error {
	excluded := make(map[string]bool, len(w.ExcludeDirs))
	for _, d := range w.ExcludeDirs {
		excluded[d] = true
	}
	exts := make(map[string]bool, len(w.Extensions))
	for _, e := range w.Extensions {
		exts[strings.ToLower(e)] = true
	}
	root := filepath.Clean(w.Root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if w.OnError != nil {
				w.OnError(path, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		matched := exts[strings.ToLower(filepath.Ext(path))]
		if w.Match != nil {
			matched = w.Match(path)
		}
		if matched {
			return fn(path)
		}
		return nil
	})
}

// Discover returns every matching file, sorted lexicographically for
// deterministic processing order.
func (w *Walker) Discover() ([]string, error) {
	var files []string
	err := w.Walk(func(path string) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func newWalker(cfg *config.Config, log *logging.Logger, match func(string) bool) *Walker {
	return &Walker{
		Root:        cfg.RootDir,
		ExcludeDirs: cfg.ExcludeDirs,
		Match:       match,
		OnError: func(path string, err error) {
			log.Warn("Cannot read %s: %v", path, err)
		},
	}
}

func imageWalker(cfg *config.Config, log *logging.Logger) *Walker {
	return newWalker(cfg, log, cfg.IsImage)
}

func codeWalker(cfg *config.Config, log *logging.Logger) *Walker {
	return newWalker(cfg, log, cfg.IsCode)
}

func webpWalker(cfg *config.Config, log *logging.Logger) *Walker {
	return newWalker(cfg, log, func(p string) bool {
		return strings.EqualFold(filepath.Ext(p), naming.WebPExt)
	})
}
