// Package config loads doccompare settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file looked up in the base directory.
const FileName = "doccompare.toml"

// Logging contains log output settings.
type Logging struct {
	File string `toml:"file"`
	JSON bool   `toml:"json"`
}

// Config holds every tunable of a comparison run.
type Config struct {
	LatexDir        string            `toml:"latex_dir"`
	HTMLReport      string            `toml:"html_report"`
	Workers         int               `toml:"workers"`
	Granularity     string            `toml:"granularity"`
	LengthDeltaWarn float64           `toml:"length_delta_warn"`
	MaxDiffLines    int               `toml:"max_diff_lines"`
	Overrides       map[string]string `toml:"overrides"`
	Logging         Logging           `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LatexDir:        "latex",
		HTMLReport:      "comparison_report.html",
		Workers:         1,
		Granularity:     "word",
		LengthDeltaWarn: 0.30,
		MaxDiffLines:    50,
		Overrides:       map[string]string{},
	}
}

// Load resolves and parses the configuration. An explicit path must exist;
// without one, doccompare.toml in baseDir is used when present. It returns
// the config, the path consulted and whether a file was read.
func Load(path, baseDir string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path, baseDir)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path, baseDir string) (string, bool, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return path, true, nil
	}

	// An unusable base directory is reported by discovery, not here.
	candidate := filepath.Join(baseDir, FileName)
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return candidate, false, nil
	}
	return candidate, true, nil
}

func (c *Config) normalize() {
	c.LatexDir = strings.TrimSpace(c.LatexDir)
	if c.LatexDir == "" {
		c.LatexDir = "latex"
	}
	c.HTMLReport = strings.TrimSpace(c.HTMLReport)
	if c.HTMLReport == "" {
		c.HTMLReport = "comparison_report.html"
	}
	c.Granularity = strings.ToLower(strings.TrimSpace(c.Granularity))
	if c.Granularity == "" {
		c.Granularity = "word"
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Overrides == nil {
		c.Overrides = map[string]string{}
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Granularity != "word" && c.Granularity != "char" {
		return fmt.Errorf("granularity must be \"word\" or \"char\", got %q", c.Granularity)
	}
	if c.LengthDeltaWarn < 0 || c.LengthDeltaWarn > 1 {
		return errors.New("length_delta_warn must be between 0 and 1")
	}
	if c.MaxDiffLines < 0 {
		return errors.New("max_diff_lines must not be negative")
	}
	if filepath.IsAbs(c.LatexDir) || strings.Contains(c.LatexDir, "..") {
		return fmt.Errorf("latex_dir must be a subdirectory of the base directory, got %q", c.LatexDir)
	}
	for md, tex := range c.Overrides {
		if filepath.Ext(md) != ".md" {
			return fmt.Errorf("overrides: key %q must be a .md file name", md)
		}
		if filepath.Ext(tex) != ".tex" || strings.ContainsRune(tex, '/') {
			return fmt.Errorf("overrides: value %q for %q must be a .tex file name", tex, md)
		}
	}
	return nil
}
