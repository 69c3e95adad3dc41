package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/webpify/internal/config"
	"github.com/backmassage/webpify/internal/display"
	"github.com/backmassage/webpify/internal/imaging"
	"github.com/backmassage/webpify/internal/logging"
	"github.com/backmassage/webpify/internal/probe"
	"github.com/backmassage/webpify/internal/responsive"
)

// RunResponsive writes one .webp per configured size for every source image
// and prints the first few <picture> snippets.
func RunResponsive(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	enc, err := imaging.NewEncoder(cfg.Backend)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}

	all, err := imageWalker(cfg, log).Discover()
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	var files []string
	for _, path := range all {
		if responsive.IsSource(cfg.Sizes, path) {
			files = append(files, path)
		} else {
			log.Debug(cfg.Verbose, "Ignoring variant: %s", relPath(cfg.RootDir, path))
		}
	}
	stats.Total = len(files)

	log.Info("Found %d source images", stats.Total)
	logCommonSettings(cfg, log)
	logEncoderSettings(cfg, log, enc)
	log.Info("Sizes: %s", describeSizes(cfg.Sizes))
	blank()

	if stats.Total == 0 {
		log.Warn("No images found in %s", cfg.RootDir)
		return stats
	}
	if !confirmStart(cfg, "Start generation?") {
		log.Warn("Generation cancelled")
		stats.Cancelled = true
		return stats
	}

	var snippets []snippet
	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		if s := responsiveFile(cfg, log, enc, path, &stats); s != "" {
			snippets = append(snippets, snippet{Name: filepath.Base(path), HTML: s})
		}
	}

	logResponsiveSummary(cfg, log, &stats)
	printSnippets(cfg, log, snippets)
	return stats
}

// responsiveFile writes every pending variant of one source image and
// returns its srcSet snippet ("" when nothing width-bounded was produced).
func responsiveFile(cfg *config.Config, log *logging.Logger, enc imaging.Encoder, path string, stats *RunStats) string {
	log.Info("[%d/%d] %s", stats.Current, stats.Total, relPath(cfg.RootDir, path))
	defer blank()

	if cfg.DryRun {
		return responsiveDryRun(cfg, log, path, stats)
	}

	fi, err := os.Stat(path)
	if err != nil {
		log.Error("Error processing %s: %v", filepath.Base(path), err)
		stats.Failed++
		return ""
	}
	img, _, err := imaging.Load(path)
	if err != nil {
		log.Error("Error processing %s: %v", filepath.Base(path), err)
		stats.Failed++
		return ""
	}
	b := img.Bounds()
	plan := responsive.BuildPlan(cfg.Sizes, path, b.Dx(), b.Dy())
	log.Debug(cfg.Verbose, "  Source: %dx%d, %s", plan.SourceWidth, plan.SourceHeight, display.FormatKB(fi.Size()))

	if len(plan.Pending()) == 0 {
		log.Warn("Skip (all variants already exist)")
		stats.Skipped++
		return ""
	}

	img = imaging.Prepare(img, cfg.KeepAlpha)
	produced := make(map[string]bool)
	var total int64
	for _, v := range plan.Variants {
		if v.Action == responsive.ActionSkipExists {
			log.Warn("  %s: %s already exists, skipping", v.Size.Name, filepath.Base(v.OutputPath))
			continue
		}
		out := img
		if v.Resized(plan.SourceWidth) {
			out = imaging.FitWidth(img, v.Size.Width)
		}
		n, err := imaging.WriteWebP(v.OutputPath, out, enc, encodeOptions(cfg, v.Size.Quality))
		if err != nil {
			log.Error("  %s: %v", v.Size.Name, err)
			continue
		}
		produced[v.Size.Name] = true
		total += n
		stats.Variants++
		log.Success("  %s: %dx%d (%s, Q%d)", v.Size.Name, v.Width, v.Height, display.FormatKB(n), v.Size.Quality)
	}

	if len(produced) == 0 {
		log.Error("Error processing %s: no variant could be written", filepath.Base(path))
		stats.Failed++
		return ""
	}

	stats.Converted++
	stats.TotalInputBytes += fi.Size()
	stats.TotalOutputBytes += total
	log.Info("  Total: %s for %d variants (original %s, saved %s)",
		display.FormatKB(total), len(produced), display.FormatKB(fi.Size()), display.FormatReduction(fi.Size(), total))

	if cfg.DeleteOriginals {
		deleteOriginal(log, path)
	}
	return responsive.Snippet(cfg.SrcsetPrefix, plan.Stem, cfg.Sizes, produced)
}

// responsiveDryRun plans from the image header alone.
func responsiveDryRun(cfg *config.Config, log *logging.Logger, path string, stats *RunStats) string {
	pr, err := probe.Probe(path)
	if err != nil {
		log.Error("Error processing %s: %v", filepath.Base(path), err)
		stats.Failed++
		return ""
	}
	plan := responsive.BuildPlan(cfg.Sizes, path, pr.Width, pr.Height)
	produced := make(map[string]bool)
	for _, v := range plan.Variants {
		if v.Action == responsive.ActionSkipExists {
			log.Warn("  %s: %s already exists, skipping", v.Size.Name, filepath.Base(v.OutputPath))
			continue
		}
		produced[v.Size.Name] = true
		stats.Variants++
		log.Success("  [DRY] %s: %dx%d → %s (Q%d)", v.Size.Name, v.Width, v.Height, filepath.Base(v.OutputPath), v.Size.Quality)
	}
	if len(produced) == 0 {
		log.Warn("Skip (all variants already exist)")
		stats.Skipped++
		return ""
	}
	stats.Converted++
	return responsive.Snippet(cfg.SrcsetPrefix, plan.Stem, cfg.Sizes, produced)
}

func describeSizes(sizes []config.Size) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		width := "original"
		if s.Width > 0 {
			width = fmt.Sprintf("%dpx", s.Width)
		}
		parts[i] = fmt.Sprintf("%s (%s, Q%d)", s.Name, width, s.Quality)
	}
	return strings.Join(parts, ", ")
}

func logResponsiveSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("%s", display.Rule(30))
	log.Info("Done: %d images processed, %d skipped, %d errors", stats.Converted, stats.Skipped, stats.Failed)
	log.Info("  Total variants: %d", stats.Variants)
	log.Info("  Sizes per image: %d", len(cfg.Sizes))
	if !cfg.DryRun && stats.Converted > 0 {
		logSpaceSummary(log, stats, "Variants")
	}
}

// snippet is the <picture> markup generated for one source image.
type snippet struct {
	Name string
	HTML string
}

func printSnippets(cfg *config.Config, log *logging.Logger, snippets []snippet) {
	if len(snippets) == 0 {
		return
	}
	blank()
	log.Info("Usage examples (copy into your components):")
	n := min(cfg.SrcsetExamples, len(snippets))
	for i, s := range snippets[:n] {
		blank()
		log.Info("Example %d: %s", i+1, s.Name)
		fmt.Fprint(stdout, s.HTML)
	}
	if rest := len(snippets) - n; rest > 0 {
		blank()
		fmt.Fprintf(stdout, "... and %d more images\n", rest)
	}
	blank()
	log.Info("Browsers pick the best size from srcSet automatically")
}
