// Package config holds runtime configuration: defaults, CLI flag parsing, an
// optional YAML overlay, and validation. Defaults suit a typical web project
// with static assets under public/.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// Mode selects which batch job runs.
type Mode string

const (
	ModeConvert    Mode = "convert"    // One .webp sibling per image (default).
	ModeResponsive Mode = "responsive" // Multiple widths per image plus srcSet snippets.
	ModeRefs       Mode = "refs"       // Rewrite image references in code to .webp.
	ModeAnalyze    Mode = "analyze"    // Read-only image report.
)

// Backend selects the WebP encoder implementation.
type Backend string

const (
	BackendWasm   Backend = "wasm"   // libwebp compiled to WASM (gen2brain/webp). Lossy or lossless.
	BackendNative Backend = "native" // Pure-Go lossless encoder (nativewebp).
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Size is one row of the responsive size table. Width 0 keeps the source
// width; Suffix is appended to the source stem before ".webp".
type Size struct {
	Name    string `yaml:"name"`
	Width   int    `yaml:"width"`
	Quality int    `yaml:"quality"`
	Suffix  string `yaml:"suffix"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], then mutated by [ParseArgs] before being
// passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	RootDir    string // Positional arg; default ".".
	ConfigFile string // Optional YAML overlay.

	Mode Mode

	// Encoding.
	Quality   int     // Default: 85.
	Method    int     // Default: 6 (slowest, smallest).
	Backend   Backend // Default: "wasm".
	Lossless  bool
	KeepAlpha bool // Default: false (composite onto white).

	// Responsive generation.
	Sizes          []Size
	SrcsetPrefix   string // Default: "/images/".
	SrcsetExamples int    // Default: 3.

	// Discovery.
	ExcludeDirs     []string
	ImageExtensions []string
	CodeExtensions  []string
	PublicDir       string // Default: "public".

	// Behavior flags.
	DeleteOriginals bool
	DryRun          bool
	AssumeYes       bool
	Watch           bool
	WatchDebounce   time.Duration // Default: 500ms.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultSizes returns the responsive size table: mobile, tablet, desktop and
// a full-width copy.
func DefaultSizes() []Size {
	return []Size{
		{Name: "mobile", Width: 640, Quality: 80, Suffix: "-mobile"},
		{Name: "tablet", Width: 1024, Quality: 82, Suffix: "-tablet"},
		{Name: "desktop", Width: 1920, Quality: 85, Suffix: "-desktop"},
		{Name: "original", Width: 0, Quality: 85, Suffix: ""},
	}
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [LoadFile] and [ParseArgs] apply overrides.
func DefaultConfig() Config {
	return Config{
		RootDir:         ".",
		Mode:            ModeConvert,
		Quality:         85,
		Method:          6,
		Backend:         BackendWasm,
		Sizes:           DefaultSizes(),
		SrcsetPrefix:    "/images/",
		SrcsetExamples:  3,
		ExcludeDirs:     []string{"node_modules", ".git", ".next", "out", "__pycache__", "venv"},
		ImageExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"},
		CodeExtensions:  []string{".tsx", ".ts", ".jsx", ".js", ".css", ".scss", ".json", ".md"},
		PublicDir:       "public",
		WatchDebounce:   500 * time.Millisecond,
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// NormalizeExtensions lowercases each extension, adds a missing leading dot,
// and drops empties and duplicates while keeping order.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Validate checks enum fields and numeric ranges, normalizes extension
// lists, and requires a root directory unless in CheckOnly mode.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeConvert, ModeResponsive, ModeRefs, ModeAnalyze:
		// valid
	default:
		return errors.New("invalid mode (use 'convert', 'responsive', 'refs' or 'analyze')")
	}

	switch c.Backend {
	case BackendWasm, BackendNative:
		// valid
	default:
		return errors.New("invalid encoder (use 'wasm' or 'native')")
	}

	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100 (got %d)", c.Quality)
	}
	if c.Method < 0 || c.Method > 6 {
		return fmt.Errorf("method must be between 0 and 6 (got %d)", c.Method)
	}
	if c.SrcsetExamples < 0 {
		return fmt.Errorf("examples must not be negative (got %d)", c.SrcsetExamples)
	}
	if err := validateSizes(c.Sizes); err != nil {
		return err
	}

	c.ImageExtensions = NormalizeExtensions(c.ImageExtensions)
	c.CodeExtensions = NormalizeExtensions(c.CodeExtensions)
	if len(c.ImageExtensions) == 0 {
		return errors.New("at least one image extension is required")
	}
	for _, e := range c.ImageExtensions {
		if e == ".webp" {
			return errors.New("image extensions must not include .webp")
		}
	}

	if c.Watch && c.Mode != ModeConvert && c.Mode != ModeResponsive {
		return fmt.Errorf("--watch is only supported in convert and responsive modes (got %s)", c.Mode)
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = 500 * time.Millisecond
	}

	if c.CheckOnly {
		return nil
	}
	if c.RootDir == "" {
		return errors.New("root directory must not be empty")
	}
	return nil
}

func validateSizes(sizes []Size) error {
	if len(sizes) == 0 {
		return errors.New("at least one responsive size is required")
	}
	names := make(map[string]bool, len(sizes))
	suffixes := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		if s.Name == "" {
			return errors.New("responsive size is missing a name")
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate responsive size %q", s.Name)
		}
		names[s.Name] = true
		if suffixes[s.Suffix] {
			return fmt.Errorf("responsive size %q reuses suffix %q", s.Name, s.Suffix)
		}
		suffixes[s.Suffix] = true
		if s.Width < 0 {
			return fmt.Errorf("responsive size %q has negative width", s.Name)
		}
		if s.Quality < 0 || s.Quality > 100 {
			return fmt.Errorf("responsive size %q quality must be between 0 and 100", s.Name)
		}
		if strings.ContainsAny(s.Suffix, `/\`) {
			return fmt.Errorf("responsive size %q suffix must not contain a path separator", s.Name)
		}
	}
	return nil
}

// IsExcludedDir reports whether a directory base name is in the exclude set.
func (c *Config) IsExcludedDir(name string) bool {
	for _, d := range c.ExcludeDirs {
		if d == name {
			return true
		}
	}
	return false
}

// IsImage reports whether path has one of the configured image extensions.
func (c *Config) IsImage(path string) bool {
	return hasExt(c.ImageExtensions, path)
}

// IsCode reports whether path has one of the configured code extensions.
func (c *Config) IsCode(path string) bool {
	return hasExt(c.CodeExtensions, path)
}

func hasExt(exts []string, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
