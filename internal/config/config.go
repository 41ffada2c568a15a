// Package config holds the runtime configuration. Values resolve in
// order: built-in defaults, then an optional YAML file, then
// PDFOUTLINE_* environment variables, then command line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Heading detection
	Classifier string `yaml:"classifier"`  // sizerank | pattern
	FoldJitter string `yaml:"fold_jitter"` // h3 | bold-only | off

	// Output caps
	MaxEntries    int `yaml:"max_entries"` // 0 disables the cap
	TitleMaxRunes int `yaml:"title_max_runes"`

	// Extras
	EmitMarkdown bool `yaml:"emit_markdown"`
	Verbose      bool `yaml:"verbose"`
}

func Default() Config {
	return Config{
		InputDir:      "/app/input",
		OutputDir:     "/app/output",
		Classifier:    "sizerank",
		FoldJitter:    "h3",
		MaxEntries:    200,
		TitleMaxRunes: 100,
	}
}

// LoadFile overlays c with values from a YAML file. Fields absent from
// the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays c with PDFOUTLINE_* environment variables.
func (c *Config) LoadEnv() {
	c.InputDir = envOr("PDFOUTLINE_INPUT_DIR", c.InputDir)
	c.OutputDir = envOr("PDFOUTLINE_OUTPUT_DIR", c.OutputDir)
	c.Classifier = envOr("PDFOUTLINE_CLASSIFIER", c.Classifier)
	c.FoldJitter = envOr("PDFOUTLINE_FOLD_JITTER", c.FoldJitter)
	c.MaxEntries = envInt("PDFOUTLINE_MAX_ENTRIES", c.MaxEntries)
	c.TitleMaxRunes = envInt("PDFOUTLINE_TITLE_MAX_RUNES", c.TitleMaxRunes)
	c.EmitMarkdown = envBool("PDFOUTLINE_EMIT_MARKDOWN", c.EmitMarkdown)
	c.Verbose = envBool("PDFOUTLINE_VERBOSE", c.Verbose)
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	switch c.Classifier {
	case "sizerank", "pattern":
	default:
		return fmt.Errorf("unsupported classifier %q (use sizerank or pattern)", c.Classifier)
	}
	switch c.FoldJitter {
	case "h3", "bold-only", "off":
	default:
		return fmt.Errorf("unsupported fold_jitter %q (use h3, bold-only or off)", c.FoldJitter)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must be >= 0")
	}
	if c.TitleMaxRunes < 0 {
		return fmt.Errorf("title_max_runes must be >= 0")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
