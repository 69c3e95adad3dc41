package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/webpify/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() || Red == "" || NC != "\033[0m" {
		t.Fatalf("ColorAlways: Enabled=%v Red=%q NC=%q", Enabled(), Red, NC)
	}

	Configure(config.ColorNever)
	for _, p := range palette {
		if *p.dst != "" {
			t.Errorf("ColorNever left %q set", p.seq)
		}
	}
	if Enabled() {
		t.Error("Enabled() after ColorNever")
	}
}

func TestWantColor_Auto(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	if wantColor(config.ColorAuto, f) {
		t.Error("auto mode must not color a regular file")
	}

	t.Setenv("NO_COLOR", "1")
	if !wantColor(config.ColorAlways, f) {
		t.Error("ColorAlways must win over NO_COLOR")
	}
	if wantColor(config.ColorAuto, os.Stdout) {
		t.Error("NO_COLOR must disable auto color")
	}

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	if wantColor(config.ColorAuto, os.Stdout) {
		t.Error("TERM=dumb must disable auto color")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) = true")
	}
	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file reported as terminal")
	}
}
