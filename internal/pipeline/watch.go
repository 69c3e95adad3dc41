package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/imaging"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/responsive"
)

// Watch processes images created or rewritten under cfg.RootDir until ctx
// is cancelled. Events are collected per path and handled as one batch once
// no new event arrived for cfg.WatchDebounce. Only convert and responsive
// modes can watch. The returned stats cover every batch.
func Watch(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var total RunStats
	if cfg.Mode != config.ModeConvert && cfg.Mode != config.ModeResponsive {
		return total, fmt.Errorf("watch is not supported in %s mode", cfg.Mode)
	}
	enc, err := imaging.NewEncoder(cfg.Backend)
	if err != nil {
		return total, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return total, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if _, err := addTree(fw, cfg, cfg.RootDir); err != nil {
		return total, fmt.Errorf("failed to watch %s: %w", cfg.RootDir, err)
	}
	log.Info("Watching %s for new images (Ctrl+C to stop)", cfg.RootDir)

	pending := make(map[string]bool)
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Watch stopped")
			return total, nil

		case ev, ok := <-fw.Events:
			if !ok {
				return total, nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
				if !ev.Has(fsnotify.Create) || cfg.IsExcludedDir(filepath.Base(ev.Name)) {
					continue
				}
				// Files moved in with a directory produce no events of their own.
				images, err := addTree(fw, cfg, ev.Name)
				if err != nil {
					log.Warn("Cannot watch %s: %v", ev.Name, err)
				}
				for _, p := range images {
					pending[p] = true
				}
				log.Debug(cfg.Verbose, "Watching new directory: %s", relPath(cfg.RootDir, ev.Name))
			} else if watchable(cfg, ev.Name) {
				pending[ev.Name] = true
			} else {
				continue
			}
			debounce.Reset(cfg.WatchDebounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return total, nil
			}
			log.Warn("Watcher error: %v", err)

		case <-debounce.C:
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			sort.Strings(batch)
			total.Add(processBatch(ctx, cfg, log, enc, batch))
		}
	}
}

// processBatch runs the mode's per-file step over paths that still exist.
func processBatch(ctx context.Context, cfg *config.Config, log *logging.Logger, enc imaging.Encoder, paths []string) RunStats {
	var stats RunStats
	var live []string
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return stats
	}
	stats.Total = len(live)
	log.Info("Detected %d new or changed images", stats.Total)

	for i, p := range live {
		if ctx.Err() != nil {
			break
		}
		stats.Current = i + 1
		if cfg.Mode == config.ModeResponsive {
			if s := responsiveFile(cfg, log, enc, p, &stats); s != "" {
				fmt.Fprint(stdout, s)
				blank()
			}
		} else {
			convertFile(cfg, log, enc, p, &stats)
		}
	}
	log.Info("Batch done: %d processed, %d skipped, %d errors", stats.Converted, stats.Skipped, stats.Failed)
	return stats
}

// watchable reports whether an event on p should trigger processing.
// Dot files are ignored; they include our own temporary outputs.
func watchable(cfg *config.Config, p string) bool {
	if strings.HasPrefix(filepath.Base(p), ".") || !cfg.IsImage(p) {
		return false
	}
	if cfg.Mode == config.ModeResponsive {
		return responsive.IsSource(cfg.Sizes, p)
	}
	return true
}

// addTree adds dir and every non-excluded directory below it to fw. It
// returns the watchable images already present.
func addTree(fw *fsnotify.Watcher, cfg *config.Config, dir string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if p != dir && cfg.IsExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return fw.Add(p)
		}
		if watchable(cfg, p) {
			images = append(images, p)
		}
		return nil
	})
	return images, err
}
