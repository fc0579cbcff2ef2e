package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "minimal", cfg.Sanitization)
	assert.Equal(t, normalize.StrictnessMinimal, cfg.Strictness())
	assert.Equal(t, 15, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLimit)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_path: /tmp/Storage.sqlite
sanitization: strict
default_limit: 25
max_limit: 200
image_display_width: 600
busy_timeout_ms: 2500
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/Storage.sqlite", cfg.DatabasePath)
	assert.Equal(t, normalize.StrictnessStrict, cfg.Strictness())
	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.Equal(t, 200, cfg.MaxLimit)
	assert.Equal(t, 600, cfg.ImageDisplayWidth)
	assert.Equal(t, 2500, cfg.BusyTimeoutMS)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDatabasePath, "/env/Storage.sqlite")
	t.Setenv(EnvStrictness, "strict")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/Storage.sqlite", cfg.DatabasePath)
	assert.Equal(t, normalize.StrictnessStrict, cfg.Strictness())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_limit: [not a number"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad strictness", func(c *Config) { c.Sanitization = "paranoid" }},
		{"zero default limit", func(c *Config) { c.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.MaxLimit = 1 }},
		{"zero display width", func(c *Config) { c.ImageDisplayWidth = 0 }},
		{"zero busy timeout", func(c *Config) { c.BusyTimeoutMS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
