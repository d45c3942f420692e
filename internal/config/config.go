package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/edgemap/internal/analyzer"
	"github.com/ivlev/edgemap/internal/canny"
)

type Config struct {
	InputPath    string  `yaml:"input"`
	OutputPath   string  `yaml:"output"`
	Page         int     `yaml:"page"`
	DPI          int     `yaml:"dpi"`
	Sigma        float64 `yaml:"sigma"`
	Low          int     `yaml:"low"`
	High         int     `yaml:"high"`
	Unnormalized bool    `yaml:"unnormalized"`
	Workers      int     `yaml:"workers"`
	MaxSide      int     `yaml:"max_side"`
	Regions      bool    `yaml:"regions"`
	MinRegion    int     `yaml:"min_region"`
	Detector     string  `yaml:"detector"`
	DebugDir     string  `yaml:"debug_dir"`
	ShowStats    bool    `yaml:"stats"`
	LogLevel     string  `yaml:"log_level"`
	LogFormat    string  `yaml:"log_format"`
	BuildVersion string  `yaml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	p := canny.DefaultParams()
	return &Config{
		DPI:       150,
		Sigma:     p.Sigma,
		Low:       int(p.Low),
		High:      int(p.High),
		MinRegion: 50,
		Detector:  "canny",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that ProcessImage would reject and the CLI
// specific ones. A threshold order violation is returned as is and may be
// treated as a warning by the caller.
func (c *Config) Validate() error {
	if c.Low < 0 || c.Low > 255 || c.High < 0 || c.High > 255 {
		return fmt.Errorf("thresholds must be in 0..255: low=%d high=%d", c.Low, c.High)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive: %d", c.DPI)
	}
	if c.Page < 0 {
		return fmt.Errorf("page must not be negative: %d", c.Page)
	}
	if c.MaxSide < 0 || c.Workers < 0 || c.MinRegion < 0 {
		return fmt.Errorf("max_side, workers and min_region must not be negative")
	}
	if _, err := analyzer.NewDetector(c.Detector); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return c.Params().Validate()
}

// Params maps the configuration onto detector parameters. Thresholds are
// clamped to the byte range; Validate reports values outside it.
func (c *Config) Params() canny.Params {
	return canny.Params{
		Sigma:              c.Sigma,
		Low:                clampByte(c.Low),
		High:               clampByte(c.High),
		UnnormalizedKernel: c.Unnormalized,
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
