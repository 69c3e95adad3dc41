// Command webpify is the CLI entrypoint for the WebP batch converter.
//
// It parses flags and the optional YAML config, validates configuration and
// the root directory, and either runs system diagnostics (--check) or one of
// the batch modes, optionally followed by watch mode.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/webpify/internal/check"
	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "webpify: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "webpify: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "webpify: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	rootAbs, err := absPath(cfg.RootDir)
	if err != nil {
		log.Error("Root not found: %s", cfg.RootDir)
		return 1
	}
	cfg.RootDir = rootAbs

	log.Info("=== webpify v%s (%s) ===", version, commit)
	log.Info("Mode: %s", cfg.Mode)
	if cfg.ConfigFile != "" {
		log.Info("Config: %s", cfg.ConfigFile)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	// Fail fast if the root is unusable or the encoder cannot produce WebP.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so
	// runners stop between files and watch mode returns.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run the selected mode, then keep watching if asked.
	stats := pipeline.Run(ctx, &cfg, log)

	if cfg.Watch && !stats.Cancelled && ctx.Err() == nil {
		watched, err := pipeline.Watch(ctx, &cfg, log)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		stats.Add(watched)
	}

	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path of a directory so
// relative paths in reports are computed against a stable root.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
