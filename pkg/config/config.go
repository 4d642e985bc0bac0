// Package config provides configuration loading and management for sgmstereo.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"sgmstereo/internal/models"
	"sgmstereo/pkg/aggregation"
	"sgmstereo/pkg/cost"
	"sgmstereo/pkg/paths"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Matching parameters
	Matching struct {
		// MinDisparity and MaxDisparity bound the candidate disparities (inclusive)
		MinDisparity int `yaml:"minDisparity"`
		MaxDisparity int `yaml:"maxDisparity"`

		// Directions is the number of aggregation paths: 1, 2, 4, 8 or 16
		Directions int `yaml:"directions"`

		// P1 penalises a disparity change of one between neighbours
		P1 float64 `yaml:"p1"`

		// P2 penalises any larger disparity change
		P2 float64 `yaml:"p2"`

		// CostFunction names the matching cost: absdiff, clamped or bt
		CostFunction string `yaml:"costFunction"`

		// NeighborMode is clamp or wrap
		NeighborMode string `yaml:"neighborMode"`
	} `yaml:"matching"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many directions are aggregated at the same time
		NumCores int `yaml:"numCores"`

		// Sequential disables concurrent aggregation
		Sequential bool `yaml:"sequential"`

		// Scale resizes both input images before matching (1 keeps the original size)
		Scale float64 `yaml:"scale"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults determines whether to save cost slices and
		// per-direction disparity maps
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where intermediary results are written
		IntermediaryDir string `yaml:"intermediaryDir"`

		// Format is the image format of the disparity map: png or jpeg
		Format string `yaml:"format"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Matching.MinDisparity = 0
	cfg.Matching.MaxDisparity = 19
	cfg.Matching.Directions = 8
	cfg.Matching.P1 = 8
	cfg.Matching.P2 = 32
	cfg.Matching.CostFunction = cost.Default
	cfg.Matching.NeighborMode = aggregation.NeighborClamp.String()

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.Sequential = false
	cfg.Processing.Scale = 1.0

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.Format = "png"
	cfg.Output.Verbose = false

	return cfg
}

// DisparityRange returns the configured disparity range
func (cfg *Config) DisparityRange() models.DisparityRange {
	return models.DisparityRange{Min: cfg.Matching.MinDisparity, Max: cfg.Matching.MaxDisparity}
}

// Validate checks the configuration before any image is processed
func (cfg *Config) Validate() error {
	if err := cfg.DisparityRange().Validate(); err != nil {
		return err
	}
	if _, err := paths.Directions(cfg.Matching.Directions); err != nil {
		return err
	}
	if cfg.Matching.P1 < 0 || cfg.Matching.P2 < 0 {
		return fmt.Errorf("%w: p1=%g, p2=%g", models.ErrInvalidPenalty, cfg.Matching.P1, cfg.Matching.P2)
	}
	if _, err := cost.Lookup(cfg.Matching.CostFunction); err != nil {
		return err
	}
	if _, err := aggregation.ParseNeighborMode(cfg.Matching.NeighborMode); err != nil {
		return err
	}
	if cfg.Processing.Scale <= 0 || cfg.Processing.Scale > 1 {
		return fmt.Errorf("scale must be in (0, 1], got %g", cfg.Processing.Scale)
	}
	switch cfg.Output.Format {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("unsupported output format %q (must be png or jpeg)", cfg.Output.Format)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

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

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
