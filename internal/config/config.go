package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds operator-editable defaults loaded from shredspace.yaml.
// Runtime state (last-used method, recent directories) lives in the
// settings package instead.
type Config struct {
	Shred struct {
		DefaultMethod string `yaml:"default_method"`
		DefaultPasses int    `yaml:"default_passes"`
		ChunkSizeMB   int    `yaml:"chunk_size_mb"`
	} `yaml:"shred"`

	Scan struct {
		MaxRecentDirs int `yaml:"max_recent_dirs"`
	} `yaml:"scan"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Shred.DefaultMethod = "zero"
	cfg.Shred.DefaultPasses = 3
	cfg.Shred.ChunkSizeMB = 4
	cfg.Scan.MaxRecentDirs = 10
	return cfg
}

// DefaultPath returns the config file location under the user home dir
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shredspace.yaml"
	}
	return filepath.Join(home, ".shredspace", "shredspace.yaml")
}

// Load reads the config file at path, applying defaults for anything
// unset. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Shred.DefaultPasses < 1 {
		cfg.Shred.DefaultPasses = Default().Shred.DefaultPasses
	}
	if cfg.Shred.ChunkSizeMB < 1 {
		cfg.Shred.ChunkSizeMB = Default().Shred.ChunkSizeMB
	}
	if cfg.Scan.MaxRecentDirs < 1 {
		cfg.Scan.MaxRecentDirs = Default().Scan.MaxRecentDirs
	}

	return cfg, nil
}

// Save writes the config back to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
