// Package config loads spot-tools-mcp settings from a YAML file and the
// environment. A missing file is not an error: defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
	"github.com/ironsheep/spot-tools-mcp/internal/detection"
)

// Environment variables consulted by ApplyEnv and the command.
const (
	EnvConfigPath = "SPOT_MCP_CONFIG"
	EnvLogLevel   = "SPOT_MCP_LOG_LEVEL"
)

// Config is the application configuration.
type Config struct {
	// Detection holds the defaults used when a tool call leaves a
	// parameter unset.
	Detection struct {
		// Threshold is the grey level at or above which a pixel is
		// foreground. 0 selects Otsu's automatic level.
		Threshold int `yaml:"threshold"`

		// Invert treats dark spots on a light background as foreground.
		Invert bool `yaml:"invert"`

		// BlurSigma smooths the image before thresholding. 0 disables.
		BlurSigma float64 `yaml:"blurSigma"`

		// MinArea and MaxArea bound accepted spot sizes in pixels.
		// MaxArea 0 means unbounded.
		MinArea int `yaml:"minArea"`
		MaxArea int `yaml:"maxArea"`

		// Boundary is "row-simple" or "contour".
		Boundary string `yaml:"boundary"`

		// IncludeMask adds run-length masks to spot results.
		IncludeMask bool `yaml:"includeMask"`
	} `yaml:"detection"`

	Batch struct {
		// Workers caps concurrent frames in batch detection.
		Workers int `yaml:"workers"`
	} `yaml:"batch"`

	Log struct {
		// Level is "info" or "debug".
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Detection.Threshold = 0
	cfg.Detection.Invert = false
	cfg.Detection.BlurSigma = 0
	cfg.Detection.MinArea = 4
	cfg.Detection.MaxArea = 0
	cfg.Detection.Boundary = blob.RowSimple.String()
	cfg.Detection.IncludeMask = false
	cfg.Batch.Workers = runtime.NumCPU()
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads the YAML file at path over the defaults. An empty path or
// a file that does not exist yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating the parent directory if needed.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Log.Level = lvl
	}
}

// Validate rejects values that no tool call could use.
func (c *Config) Validate() error {
	d := c.Detection
	if d.Threshold < 0 || d.Threshold > 255 {
		return fmt.Errorf("config: detection.threshold %d outside 0-255", d.Threshold)
	}
	if d.BlurSigma < 0 {
		return fmt.Errorf("config: detection.blurSigma must not be negative")
	}
	if d.MinArea < 0 || d.MaxArea < 0 {
		return fmt.Errorf("config: detection area limits must not be negative")
	}
	if d.MaxArea > 0 && d.MaxArea < d.MinArea {
		return fmt.Errorf("config: detection.maxArea %d below minArea %d", d.MaxArea, d.MinArea)
	}
	if _, err := blob.ParseBoundaryMode(d.Boundary); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("config: batch.workers must not be negative")
	}
	return nil
}

// BoundaryMode returns the parsed detection.boundary setting.
func (c *Config) BoundaryMode() blob.BoundaryMode {
	m, err := blob.ParseBoundaryMode(c.Detection.Boundary)
	if err != nil {
		return blob.RowSimple
	}
	return m
}

// SpotOptions converts the detection section into pipeline options.
// Call Validate first; an out-of-range threshold is clamped.
func (c *Config) SpotOptions() detection.SpotOptions {
	d := c.Detection
	level := d.Threshold
	if level < 0 {
		level = 0
	} else if level > 255 {
		level = 255
	}
	opts := detection.SpotOptions{
		MinArea:     d.MinArea,
		MaxArea:     d.MaxArea,
		Boundary:    c.BoundaryMode(),
		IncludeMask: d.IncludeMask,
	}
	opts.Threshold.Level = uint8(level)
	opts.Threshold.Invert = d.Invert
	opts.Threshold.BlurSigma = d.BlurSigma
	return opts
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.Log.Level, "debug")
}
