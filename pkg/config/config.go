// Package config provides configuration loading and management for
// STEPanizerizer. It handles loading configuration from YAML files and
// provides default values matching the conventions of the original
// workflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/habi/STEPanizerizer/pkg/stepanizer"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Sampling parameters
	Sampling struct {
		// NumFiles is the number of slices to select for STEPanizer
		NumFiles int `yaml:"numFiles"`

		// Seed fixes the random sample for reproducibility; zero
		// draws a fresh seed from the clock on every run
		Seed int64 `yaml:"seed"`

		// Systematic switches from uniform random sampling to
		// systematic uniform random sampling (equal slice spacing,
		// random start)
		Systematic bool `yaml:"systematic"`
	} `yaml:"sampling"`

	// Scale bar parameters
	ScaleBar struct {
		// LengthUm is the physical scale bar length in micrometers
		LengthUm float64 `yaml:"lengthUm"`

		// MarginPx is the clearance between the bar and the image
		// edges
		MarginPx int `yaml:"marginPx"`

		// Label captions the bar with its physical length
		Label bool `yaml:"label"`
	} `yaml:"scaleBar"`

	// Output parameters
	Output struct {
		// JpegQuality is the JPEG encoder quality in [1, 100]
		JpegQuality int `yaml:"jpegQuality"`

		// Resize shrinks each slice so its longest side has this
		// many pixels; zero keeps the original size
		Resize int `yaml:"resize"`

		// Prefix overrides the filename prefix derived from the
		// stack
		Prefix string `yaml:"prefix"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default sampling parameters
	cfg.Sampling.NumFiles = 15
	cfg.Sampling.Seed = 0
	cfg.Sampling.Systematic = false

	// Set default scale bar parameters
	cfg.ScaleBar.LengthUm = 1000
	cfg.ScaleBar.MarginPx = 200
	cfg.ScaleBar.Label = true

	// Set default output parameters
	cfg.Output.JpegQuality = 90
	cfg.Output.Resize = 0
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for out-of-range values
func (cfg *Config) Validate() error {
	if cfg.Sampling.NumFiles <= 0 {
		return fmt.Errorf("numFiles %d must be positive: %w",
			cfg.Sampling.NumFiles, stepanizer.ErrInvalidArgument)
	}
	if cfg.ScaleBar.LengthUm < 0 {
		return fmt.Errorf("scale bar length %g must not be negative: %w",
			cfg.ScaleBar.LengthUm, stepanizer.ErrInvalidArgument)
	}
	if cfg.ScaleBar.MarginPx < 0 {
		return fmt.Errorf("scale bar margin %d must not be negative: %w",
			cfg.ScaleBar.MarginPx, stepanizer.ErrInvalidArgument)
	}
	if cfg.Output.JpegQuality < 1 || cfg.Output.JpegQuality > 100 {
		return fmt.Errorf("jpegQuality %d outside [1, 100]: %w",
			cfg.Output.JpegQuality, stepanizer.ErrInvalidArgument)
	}
	if cfg.Output.Resize < 0 {
		return fmt.Errorf("resize %d must not be negative: %w",
			cfg.Output.Resize, stepanizer.ErrInvalidArgument)
	}
	return nil
}
