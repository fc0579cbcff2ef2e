// Package config loads and validates the server configuration. Settings come
// from a YAML file with environment variable overrides; every field has a
// working default so a config file is optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

// Environment overrides, checked after the file is read.
const (
	EnvDatabasePath = "MACCY_MCP_DB"
	EnvStrictness   = "MACCY_MCP_STRICTNESS"
	EnvLogDir       = "MACCY_MCP_LOG_DIR"
)

// Config holds every tunable of the server.
type Config struct {
	// DatabasePath is the Maccy SQLite store. Empty means the standard
	// container location, resolved at open time.
	DatabasePath string `yaml:"database_path"`

	// Sanitization selects the text sanitization strictness: "minimal"
	// (default) or "strict".
	Sanitization string `yaml:"sanitization"`

	// DefaultLimit applies when a tool call omits its limit argument.
	DefaultLimit int `yaml:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `yaml:"max_limit"`

	// ImageDisplayWidth is the display width hint attached to image blocks.
	// It is consumer metadata only; no resizing happens server-side.
	ImageDisplayWidth int `yaml:"image_display_width"`

	// BusyTimeoutMS is the SQLite busy timeout in milliseconds, the only
	// guard against Maccy writing concurrently.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`

	// LogDir overrides the log directory (default ~/.maccy-mcp/logs).
	LogDir string `yaml:"log_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sanitization:      "minimal",
		DefaultLimit:      15,
		MaxLimit:          100,
		ImageDisplayWidth: 400,
		BusyTimeoutMS:     5000,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".maccy-mcp", "config.yaml"), nil
}

// Load reads the config file at path, applies environment overrides and
// validates the result. A missing file is not an error: defaults plus
// overrides apply. An empty path means the standard location.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults apply
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvStrictness); v != "" {
		cfg.Sanitization = v
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		cfg.LogDir = v
	}
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if _, err := normalize.ParseStrictness(c.Sanitization); err != nil {
		return err
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.ImageDisplayWidth <= 0 {
		return fmt.Errorf("image_display_width must be positive, got %d", c.ImageDisplayWidth)
	}
	if c.BusyTimeoutMS <= 0 {
		return fmt.Errorf("busy_timeout_ms must be positive, got %d", c.BusyTimeoutMS)
	}
	return nil
}

// Strictness returns the parsed sanitization level. Validate must have
// accepted the config first.
func (c Config) Strictness() normalize.Strictness {
	level, _ := normalize.ParseStrictness(c.Sanitization)
	return level
}
