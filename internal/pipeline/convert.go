package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/imaging"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/naming"
	"github.com/backmassage/webpify/internal/probe"
)

// RunConvert converts every discovered image to a sibling .webp.
func RunConvert(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	enc, err := imaging.NewEncoder(cfg.Backend)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}

	files, err := imageWalker(cfg, log).Discover()
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	stats.Total = len(files)

	log.Info("Found %d images", stats.Total)
	logCommonSettings(cfg, log)
	logEncoderSettings(cfg, log, enc)
	blank()

	if stats.Total == 0 {
		log.Warn("No images found in %s", cfg.RootDir)
		return stats
	}
	if !confirmStart(cfg, "Start conversion?") {
		log.Warn("Conversion cancelled")
		stats.Cancelled = true
		return stats
	}

	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		convertFile(cfg, log, enc, path, &stats)
	}

	logConvertSummary(cfg, log, &stats)
	return stats
}

// convertFile handles one image: skip-existing check → decode → flatten →
// encode → optional delete of the original.
func convertFile(cfg *config.Config, log *logging.Logger, enc imaging.Encoder, path string, stats *RunStats) {
	name := relPath(cfg.RootDir, path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, name)
	defer blank()

	dst := naming.WebPPath(path)
	if _, err := os.Stat(dst); err == nil {
		log.Warn("Skip (already exists): %s", filepath.Base(dst))
		stats.Skipped++
		return
	}

	if cfg.DryRun {
		pr, err := probe.Probe(path)
		if err != nil {
			log.Error("Error converting %s: %v", filepath.Base(path), err)
			stats.Failed++
			return
		}
		log.Success("[DRY] Would convert: %s → %s (%s, %s %s)",
			filepath.Base(path), filepath.Base(dst), display.FormatKB(pr.Size), pr.Format, pr.Resolution())
		stats.Converted++
		return
	}

	fi, err := os.Stat(path)
	if err != nil {
		log.Error("Error converting %s: %v", filepath.Base(path), err)
		stats.Failed++
		return
	}
	img, format, err := imaging.Load(path)
	if err != nil {
		log.Error("Error converting %s: %v", filepath.Base(path), err)
		stats.Failed++
		return
	}
	log.Debug(cfg.Verbose, "  Decoded %s %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())

	n, err := imaging.WriteWebP(dst, imaging.Prepare(img, cfg.KeepAlpha), enc, encodeOptions(cfg, cfg.Quality))
	if err != nil {
		log.Error("Error converting %s: %v", filepath.Base(path), err)
		stats.Failed++
		return
	}

	stats.Converted++
	stats.TotalInputBytes += fi.Size()
	stats.TotalOutputBytes += n

	log.Success("Converted: %s → %s", filepath.Base(path), filepath.Base(dst))
	log.Info("  Size: %s → %s (reduced by %s)",
		display.FormatKB(fi.Size()), display.FormatKB(n), display.FormatReduction(fi.Size(), n))

	if cfg.DeleteOriginals {
		deleteOriginal(log, path)
	}
}

func deleteOriginal(log *logging.Logger, path string) {
	if err := os.Remove(path); err != nil {
		log.Warn("  Could not delete original %s: %v", filepath.Base(path), err)
		return
	}
	log.Info("  Deleted original: %s", filepath.Base(path))
}

func logConvertSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("%s", display.Rule(30))
	log.Info("Done: %d converted, %d skipped, %d errors", stats.Converted, stats.Skipped, stats.Failed)
	if cfg.DryRun {
		log.Info("  Total space saved: n/a (dry run)")
		return
	}
	if stats.Converted > 0 {
		logSpaceSummary(log, stats, "WebP")
	}
}
