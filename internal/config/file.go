package config

// This file implements the optional YAML overlay (--config). Only keys
// present in the file override the defaults; unknown keys are rejected.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML document. Pointer fields distinguish "absent"
// from the zero value.
type fileConfig struct {
	Mode            *string         `yaml:"mode"`
	Quality         *int            `yaml:"quality"`
	Method          *int            `yaml:"method"`
	Encoder         *string         `yaml:"encoder"`
	Lossless        *bool           `yaml:"lossless"`
	KeepAlpha       *bool           `yaml:"keep_alpha"`
	DeleteOriginals *bool           `yaml:"delete_originals"`
	ExcludeDirs     []string        `yaml:"exclude_dirs"`
	ImageExtensions []string        `yaml:"image_extensions"`
	CodeExtensions  []string        `yaml:"code_extensions"`
	PublicDir       *string         `yaml:"public_dir"`
	WatchDebounce   *string         `yaml:"watch_debounce"`
	Responsive      *responsiveFile `yaml:"responsive"`
}

type responsiveFile struct {
	SrcsetPrefix *string `yaml:"srcset_prefix"`
	Examples     *int    `yaml:"examples"`
	Sizes        []Size  `yaml:"sizes"`
}

// LoadFile reads the YAML file at path and overlays its values onto cfg.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := applyYAML(cfg, data); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

func applyYAML(cfg *Config, data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if fc.Mode != nil {
		if err := (&modeValue{&cfg.Mode}).Set(*fc.Mode); err != nil {
			return err
		}
	}
	if fc.Encoder != nil {
		if err := (&backendValue{&cfg.Backend}).Set(*fc.Encoder); err != nil {
			return err
		}
	}
	setInt(&cfg.Quality, fc.Quality)
	setInt(&cfg.Method, fc.Method)
	setBool(&cfg.Lossless, fc.Lossless)
	setBool(&cfg.KeepAlpha, fc.KeepAlpha)
	setBool(&cfg.DeleteOriginals, fc.DeleteOriginals)
	if fc.PublicDir != nil {
		cfg.PublicDir = *fc.PublicDir
	}
	if fc.ExcludeDirs != nil {
		cfg.ExcludeDirs = fc.ExcludeDirs
	}
	if fc.ImageExtensions != nil {
		cfg.ImageExtensions = fc.ImageExtensions
	}
	if fc.CodeExtensions != nil {
		cfg.CodeExtensions = fc.CodeExtensions
	}
	if fc.WatchDebounce != nil {
		d, err := time.ParseDuration(*fc.WatchDebounce)
		if err != nil {
			return fmt.Errorf("watch_debounce: %w", err)
		}
		cfg.WatchDebounce = d
	}
	if r := fc.Responsive; r != nil {
		if r.SrcsetPrefix != nil {
			cfg.SrcsetPrefix = *r.SrcsetPrefix
		}
		setInt(&cfg.SrcsetExamples, r.Examples)
		if r.Sizes != nil {
			cfg.Sizes = r.Sizes
		}
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
