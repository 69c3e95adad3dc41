package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/refs"
)

// fileChanges is the rewrite result for one code file.
type fileChanges struct {
	Rel     string
	Changes []refs.Change
}

// refsPass is the outcome of one scan over every code file.
type refsPass struct {
	Files  []fileChanges // Only files with at least one change.
	Errors int
}

func (p *refsPass) refCount() int {
	n := 0
	for _, f := range p.Files {
		n += len(f.Changes)
	}
	return n
}

// RunRefs rewrites image references in code files to existing .webp
// siblings. A preview pass always runs first; the write pass runs only
// after confirmation and never in dry-run mode.
func RunRefs(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	webps, err := webpWalker(cfg, log).Discover()
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	rels := make([]string, len(webps))
	for i, p := range webps {
		rels[i] = relPath(cfg.RootDir, p)
	}
	idx := refs.NewIndex(rels, cfg.PublicDir)

	files, err := codeWalker(cfg, log).Discover()
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	stats.Total = len(files)

	log.Info("Indexed %d WebP files", idx.Len())
	log.Info("Scanning %d code files (%s)", stats.Total, strings.Join(cfg.CodeExtensions, " "))
	logCommonSettings(cfg, log)
	blank()

	if idx.Len() == 0 {
		log.Warn("No WebP files found in %s; convert images first", cfg.RootDir)
		return stats
	}

	preview := scanRefs(ctx, cfg, log, files, idx, false)
	stats.Failed = preview.Errors
	printRefsPreview(cfg, log, &preview)

	if len(preview.Files) == 0 {
		log.Success("No changes needed")
		return stats
	}
	stats.FilesChanged = len(preview.Files)
	stats.RefsUpdated = preview.refCount()
	if cfg.DryRun || ctx.Err() != nil {
		if cfg.DryRun {
			log.Info("Dry run: no files were modified")
		}
		return stats
	}
	if !cfg.AssumeYes && !Confirm(stdin, stdout, "Proceed with actual update?") {
		log.Warn("Update cancelled")
		stats.Cancelled = true
		return stats
	}

	applied := scanRefs(ctx, cfg, log, files, idx, true)
	stats.Failed = applied.Errors
	stats.FilesChanged = len(applied.Files)
	stats.RefsUpdated = applied.refCount()

	log.Info("%s", display.Rule(30))
	log.Success("Updated %d references in %d files", stats.RefsUpdated, stats.FilesChanged)
	if stats.Failed > 0 {
		log.Error("%d files could not be processed", stats.Failed)
	}
	return stats
}

// scanRefs rewrites every file in memory and, when write is set, stores
// files that changed with their original permissions.
func scanRefs(ctx context.Context, cfg *config.Config, log *logging.Logger, files []string, idx *refs.Index, write bool) refsPass {
	var pass refsPass
	for _, p := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		rel := relPath(cfg.RootDir, p)
		data, err := os.ReadFile(p)
		if err != nil {
			log.Error("Cannot read %s: %v", rel, err)
			pass.Errors++
			continue
		}
		if !utf8.Valid(data) {
			log.Error("Cannot read %s: not valid UTF-8 text", rel)
			pass.Errors++
			continue
		}

		out, changes := refs.Rewrite(string(data), path.Dir(rel), idx)
		if len(changes) == 0 {
			continue
		}
		if write {
			if err := writeInPlace(p, []byte(out)); err != nil {
				log.Error("Cannot write %s: %v", rel, err)
				pass.Errors++
				continue
			}
			log.Success("Updated %s (%d references)", rel, len(changes))
		}
		pass.Files = append(pass.Files, fileChanges{Rel: rel, Changes: changes})
	}
	return pass
}

// writeInPlace overwrites an existing file, keeping its permission bits.
func writeInPlace(p string, data []byte) error {
	fi, err := os.Stat(p)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, fi.Mode().Perm())
}

func printRefsPreview(cfg *config.Config, log *logging.Logger, pass *refsPass) {
	log.Info("Preview:")
	log.Info("  Files to modify: %d", len(pass.Files))
	log.Info("  References to update: %d", pass.refCount())
	if pass.Errors > 0 {
		log.Error("  Unreadable files: %d", pass.Errors)
	}
	if len(pass.Files) == 0 {
		return
	}

	byExt := make(map[string]int)
	byKind := make(map[string]int)
	for _, f := range pass.Files {
		byExt[strings.ToLower(filepath.Ext(f.Rel))]++
		for _, c := range f.Changes {
			byKind[c.Kind]++
		}
	}
	log.Info("  By file type:")
	for _, k := range sortedKeys(byExt) {
		log.Info("    %s: %d", k, byExt[k])
	}
	log.Info("  By reference type:")
	for _, r := range refs.Rules {
		if n := byKind[r.Kind]; n > 0 {
			log.Info("    %s: %d", r.Kind, n)
		}
	}

	blank()
	log.Info("Detailed changes:")
	for _, f := range pass.Files {
		fmt.Fprintf(stdout, "\n  %s\n", f.Rel)
		for _, c := range f.Changes {
			fmt.Fprintf(stdout, "    Line %d: %s → %s (%s)\n", c.Line, c.Old, c.New, c.Kind)
		}
	}
	blank()
	log.Debug(cfg.Verbose, "Public dir for absolute references: %s", cfg.PublicDir)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
