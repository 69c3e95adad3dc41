package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into mode/encoding, responsive, discovery, behavior, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrVersion is returned by [ParseArgs] when --version was requested.
var ErrVersion = errors.New("version requested")

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, too many positional args).
func ParseFlags(cfg *Config, version string) error {
	err := ParseArgs(cfg, os.Args[1:])
	switch {
	case errors.Is(err, flag.ErrHelp):
		printUsage(os.Stderr, version)
		os.Exit(0)
	case errors.Is(err, ErrVersion):
		fmt.Fprintln(os.Stdout, "webpify v"+version)
		os.Exit(0)
	}
	return err
}

// ParseArgs applies the YAML file named by --config (if any) and then the
// command-line flags to cfg, so flags always win over the file.
// It returns flag.ErrHelp or ErrVersion for the exit-only flags.
func ParseArgs(cfg *Config, args []string) error {
	if path := findConfigArg(args); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("webpify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults hold unless the user passes the flag.
	var negated negatedFlags

	defineModeFlags(fs, cfg)
	defineResponsiveFlags(fs, cfg)
	defineDiscoveryFlags(fs, cfg, &negated)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		return flag.ErrHelp
	}
	if negated.showVersion {
		return ErrVersion
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds flags that are applied after Parse.
type negatedFlags struct {
	exclude     string
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineModeFlags registers -m/--mode, -q/--quality, --method, --encoder, --lossless, --keep-alpha.
func defineModeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&modeValue{&cfg.Mode}, "mode", "Mode: convert | responsive | refs | analyze")
	fs.Var(&modeValue{&cfg.Mode}, "m", "Same as --mode")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "WebP quality 0-100 (convert mode)")
	fs.IntVar(&cfg.Quality, "q", cfg.Quality, "Same as --quality")
	fs.IntVar(&cfg.Method, "method", cfg.Method, "Encoder effort 0-6")
	fs.Var(&backendValue{&cfg.Backend}, "encoder", "Encoder backend: wasm | native")
	fs.BoolVar(&cfg.Lossless, "lossless", cfg.Lossless, "Lossless encoding (quality is ignored)")
	fs.BoolVar(&cfg.KeepAlpha, "keep-alpha", cfg.KeepAlpha, "Keep transparency instead of flattening onto white")
}

// defineResponsiveFlags registers --srcset-prefix and --examples.
func defineResponsiveFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SrcsetPrefix, "srcset-prefix", cfg.SrcsetPrefix, "URL prefix used in srcSet snippets")
	fs.IntVar(&cfg.SrcsetExamples, "examples", cfg.SrcsetExamples, "Number of srcSet snippets to print")
}

// defineDiscoveryFlags registers --exclude and --public-dir.
func defineDiscoveryFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&n.exclude, "exclude", "", "Extra folder names to skip (comma-separated)")
	fs.StringVar(&cfg.PublicDir, "public-dir", cfg.PublicDir, "Static asset root for absolute references (refs mode)")
}

// defineBehaviorFlags registers dry-run, yes, watch, delete-originals.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Preview only; write nothing")
	fs.BoolVar(&cfg.DryRun, "d", cfg.DryRun, "Same as --dry-run")
	fs.BoolVar(&cfg.AssumeYes, "yes", cfg.AssumeYes, "Do not ask for confirmation")
	fs.BoolVar(&cfg.AssumeYes, "y", cfg.AssumeYes, "Same as --yes")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Keep running and process new images")
	fs.BoolVar(&cfg.Watch, "w", cfg.Watch, "Same as --watch")
	fs.BoolVar(&cfg.DeleteOriginals, "delete-originals", cfg.DeleteOriginals, "Delete source images after conversion")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log, --config.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "Run encoder diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", cfg.CheckOnly, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	// Already applied by findConfigArg; registered so Parse accepts it.
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML settings file")
}

// defineUtilityFlags registers --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.exclude != "" {
		for _, d := range strings.Split(n.exclude, ",") {
			d = strings.TrimSpace(d)
			if d != "" && !cfg.IsExcludedDir(d) {
				cfg.ExcludeDirs = append(cfg.ExcludeDirs, d)
			}
		}
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets RootDir from the optional positional arg.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.RootDir = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("expected at most one root_dir, got %d arguments", len(args))
	}
}

// findConfigArg returns the value of -config/--config without running the
// full parser, so the file can be applied before flags.
func findConfigArg(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return ""
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// printUsage writes the help text to w. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "webpify v" + version + " - batch WebP conversion for web projects"},
		{"", ""},
		{"  webpify [OPTIONS] [root_dir]", ""},
		{"", ""},
		{"Mode & encoding", ""},
		{"  -m, --mode <name>", "convert | responsive | refs | analyze (default: convert)"},
		{"  -q, --quality <0-100>", "WebP quality for convert mode (default: 85)"},
		{"  --method <0-6>", "Encoder effort (default: 6)"},
		{"  --encoder <wasm|native>", "Encoder backend (default: wasm)"},
		{"  --lossless", "Lossless encoding"},
		{"  --keep-alpha", "Keep transparency (default: flatten onto white)"},
		{"", ""},
		{"Responsive", ""},
		{"  --srcset-prefix <url>", "URL prefix for snippets (default: /images/)"},
		{"  --examples <n>", "Snippets to print (default: 3)"},
		{"", ""},
		{"Discovery", ""},
		{"  --exclude <a,b>", "Extra folder names to skip"},
		{"  --public-dir <dir>", "Static root for absolute refs (default: public)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -d, --dry-run", "Preview only; write nothing"},
		{"  -y, --yes", "Do not ask for confirmation"},
		{"  -w, --watch", "Keep running and process new images"},
		{"  --delete-originals", "Delete source images after conversion"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "YAML settings file (flags override it)"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Encoder and decoder diagnostics"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types (Mode, Backend) with flag.Var.

type modeValue struct{ p *Mode }

func (m *modeValue) String() string {
	if m.p == nil {
		return ""
	}
	return string(*m.p)
}

func (m *modeValue) Set(s string) error {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeConvert:
		*m.p = ModeConvert
	case ModeResponsive:
		*m.p = ModeResponsive
	case ModeRefs:
		*m.p = ModeRefs
	case ModeAnalyze:
		*m.p = ModeAnalyze
	default:
		return fmt.Errorf("invalid mode %q (use 'convert', 'responsive', 'refs' or 'analyze')", s)
	}
	return nil
}

type backendValue struct{ p *Backend }

func (b *backendValue) String() string {
	if b.p == nil {
		return ""
	}
	return string(*b.p)
}

func (b *backendValue) Set(s string) error {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case BackendWasm:
		*b.p = BackendWasm
	case BackendNative:
		*b.p = BackendNative
	default:
		return fmt.Errorf("invalid encoder %q (use 'wasm' or 'native')", s)
	}
	return nil
}
