package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/imaging"
	"github.com/backmassage/webpify/internal/logging"
)

// Console streams for tables, snippets, blank separators and the
// confirmation prompt. Tests swap them.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// Run is the top-level batch entry point. It dispatches on cfg.Mode and
// returns aggregate stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	switch cfg.Mode {
	case config.ModeResponsive:
		return RunResponsive(ctx, cfg, log)
	case config.ModeRefs:
		return RunRefs(ctx, cfg, log)
	case config.ModeAnalyze:
		return Analyze(ctx, cfg, log)
	default:
		return RunConvert(ctx, cfg, log)
	}
}

// confirmStart asks question unless the run is unattended or a dry run.
func confirmStart(cfg *config.Config, question string) bool {
	if cfg.AssumeYes || cfg.DryRun {
		return true
	}
	return Confirm(stdin, stdout, question)
}

func encodeOptions(cfg *config.Config, quality int) imaging.Options {
	return imaging.Options{Quality: quality, Method: cfg.Method, Lossless: cfg.Lossless}
}

// relPath returns path relative to root with forward slashes, or path
// unchanged when it is not below root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return path
	}
	return rel
}

func blank() { fmt.Fprintln(stdout) }

// --- Logging helpers ---

func logEncoderSettings(cfg *config.Config, log *logging.Logger, enc imaging.Encoder) {
	switch {
	case !enc.Lossy():
		log.Info("Encoder: %s", enc.Name())
	case cfg.Lossless:
		log.Info("Encoder: %s, lossless, method %d", enc.Name(), cfg.Method)
	case cfg.Mode == config.ModeResponsive:
		log.Info("Encoder: %s, per-size quality, method %d", enc.Name(), cfg.Method)
	default:
		log.Info("Encoder: %s, quality %d, method %d", enc.Name(), cfg.Quality, cfg.Method)
	}
	if cfg.KeepAlpha {
		log.Info("Alpha: kept")
	} else {
		log.Info("Alpha: flattened onto white")
	}
}

func logCommonSettings(cfg *config.Config, log *logging.Logger) {
	log.Info("Root: %s", cfg.RootDir)
	log.Info("Excluding: %s", strings.Join(cfg.ExcludeDirs, ", "))
	if cfg.DeleteOriginals {
		log.Warn("Originals will be deleted after a successful write")
	}
	if cfg.DryRun {
		log.Info("Dry run: nothing will be written")
	}
}

func logSpaceSummary(log *logging.Logger, stats *RunStats, outputLabel string) {
	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s", display.FormatMB(saved))
	} else {
		log.Warn("  Total space saved: -%s (overall output is larger)", display.FormatMB(-saved))
	}
	log.Info("  Original size: %s", display.FormatMB(stats.TotalInputBytes))
	log.Info("  %s size: %s", outputLabel, display.FormatMB(stats.TotalOutputBytes))
	log.Info("  Reduction: %s", display.FormatReduction(stats.TotalInputBytes, stats.TotalOutputBytes))
}
