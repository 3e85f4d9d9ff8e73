// Package config holds program configuration: YAML-backed settings for
// logging and input limits. Validation whitelists and WCAG thresholds are
// deliberately NOT configurable - they define the security boundary and
// live as constants next to the code that enforces them.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfig []byte

type Config struct {
	Version       int           `yaml:"version"`
	MaxInputBytes int           `yaml:"max_input_bytes"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Prepare returns the default embedded configuration.
func Prepare() ([]byte, error) {
	return bytes.Clone(defaultConfig), nil
}

// LoadConfiguration builds active configuration from embedded defaults,
// overlaid with values from fname when provided.
func LoadConfiguration(fname string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse default configuration: %w", err)
	}

	if len(fname) > 0 {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, fmt.Errorf("unable to read configuration file '%s': %w", fname, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("unable to parse configuration file '%s': %w", fname, err)
		}
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported configuration version %d", cfg.Version)
	}
	if cfg.MaxInputBytes <= 0 {
		return nil, fmt.Errorf("max_input_bytes must be positive, got %d", cfg.MaxInputBytes)
	}
	return &cfg, nil
}

// Dump serializes the active configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize configuration: %w", err)
	}
	return data, nil
}
