// Package config holds the settings of a compression run and loads them from
// YAML files.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/regionpng/internal/imaging"
	"github.com/ironsheep/regionpng/internal/partition"
)

// DefaultTolerance is the variance score below which regions stop splitting
// when no tolerance is configured.
const DefaultTolerance = 64.0

// Config is the full set of settings for a run. The zero value is not
// usable; start from Default or Load.
type Config struct {
	Tolerance      float64    `yaml:"tolerance"`
	Workers        int        `yaml:"workers"`
	Jobs           int        `yaml:"jobs"`
	Weights        [3]float64 `yaml:"weights"`
	PNGCompression string     `yaml:"png_compression"`
	Optimize       Optimize   `yaml:"optimize"`
	LogLevel       string     `yaml:"log_level"`
}

// Optimize configures the external lossless pass.
type Optimize struct {
	Enabled bool   `yaml:"enabled"`
	Level   int    `yaml:"level"`
	Binary  string `yaml:"binary"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Tolerance:      DefaultTolerance,
		Jobs:           1,
		Weights:        partition.DefaultWeights,
		PNGCompression: "best",
		Optimize: Optimize{
			Enabled: true,
			Level:   2,
			Binary:  "oxipng",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Write saves cfg as YAML.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if math.IsNaN(c.Tolerance) || c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0, got %v", c.Tolerance)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be >= 1, got %d", c.Jobs)
	}
	if err := partition.Weights(c.Weights).Validate(); err != nil {
		return err
	}
	if _, err := imaging.ParseCompression(c.PNGCompression); err != nil {
		return err
	}
	if c.Optimize.Level < 0 || c.Optimize.Level > 6 {
		return fmt.Errorf("optimize level must be 0-6, got %d", c.Optimize.Level)
	}
	if c.Optimize.Enabled && c.Optimize.Binary == "" {
		return fmt.Errorf("optimize binary must be set when optimize is enabled")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// PartitionOptions converts the settings into engine options.
func (c Config) PartitionOptions() partition.Options {
	return partition.Options{
		Tolerance: c.Tolerance,
		Workers:   c.Workers,
		Weights:   partition.Weights(c.Weights),
	}
}
