package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/webpify/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.SetOutput(&bytes.Buffer{})
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorAlways
	cfg.LogFile = filepath.Join(dir, "logs", "webpify.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.SetOutput(&bytes.Buffer{})
	l.Info("to file")
	l.Error("broken %s", "image.png")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[INFO] to file")) || !bytes.Contains(b, []byte("[ERROR] broken image.png")) {
		t.Errorf("log file content: %s", string(b))
	}
	if bytes.Contains(b, []byte("\033[")) {
		t.Error("log file must not contain ANSI escapes")
	}
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.Debug(false, "hidden")
	l.Debug(true, "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Debug(false) should not print")
	}
	if !strings.Contains(out, "[DEBUG] shown") {
		t.Errorf("Debug(true) output missing: %q", out)
	}
}
