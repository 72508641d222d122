package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

const (
	DefaultBaseURL      = "http://localhost:8080"
	DefaultElevationURL = "https://api.opentopodata.org/v1"
	DefaultTimeout      = 10 * time.Second
	DefaultDBPath       = "rocket.db"
	DefaultLogDir       = "logs"

	PublicPrefix    = "/api/v1"
	ProtectedPrefix = "/api/v1/protected"
)

// Config holds application configuration
type Config struct {
	BaseURL      string        // Rocket backend, scheme + host
	ElevationURL string        // Elevation proxy root, e.g. ".../v1"
	Timeout      time.Duration // Applied to every HTTP request
	DBPath       string        // SQLite file for transcripts and cookies
	LogDir       string
	Debug        bool
}

// Default returns the built-in configuration, honouring ROCKET_BASE_URL.
func Default() Config {
	cfg := Config{
		BaseURL:      DefaultBaseURL,
		ElevationURL: DefaultElevationURL,
		Timeout:      DefaultTimeout,
		DBPath:       DefaultDBPath,
		LogDir:       DefaultLogDir,
	}
	if u := os.Getenv("ROCKET_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	return cfg
}

// LoadFile overlays the values found in a TOML or YAML file on top of cfg.
// The format is picked from the file extension.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	return fc.apply(cfg)
}

// fileConfig mirrors Config with string durations so both decoders accept "10s".
type fileConfig struct {
	BaseURL      string `toml:"base_url" yaml:"base_url"`
	ElevationURL string `toml:"elevation_url" yaml:"elevation_url"`
	Timeout      string `toml:"timeout" yaml:"timeout"`
	DBPath       string `toml:"db_path" yaml:"db_path"`
	LogDir       string `toml:"log_dir" yaml:"log_dir"`
	Debug        *bool  `toml:"debug" yaml:"debug"`
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.ElevationURL != "" {
		cfg.ElevationURL = fc.ElevationURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	return nil
}

// Validate checks the fields every component depends on.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base URL must start with http:// or https://: %s", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
