package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultUsesEnvBaseURL(t *testing.T) {
	t.Setenv("ROCKET_BASE_URL", "https://rocket.example")
	cfg := Default()
	assert.Equal(t, "https://rocket.example", cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "rocket.toml", `
base_url = "https://rocket.example"
timeout = "3s"
debug = true
`)
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, "https://rocket.example", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultElevationURL, cfg.ElevationURL)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "rocket.yaml", "elevation_url: http://elev.local/v1\ndb_path: /tmp/r.db\n")
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, "http://elev.local/v1", cfg.ElevationURL)
	assert.Equal(t, "/tmp/r.db", cfg.DBPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "rocket.ini", "x=1")
	cfg := Default()
	assert.Error(t, LoadFile(path, &cfg))
}

func TestLoadFileBadDuration(t *testing.T) {
	path := writeFile(t, "rocket.toml", `timeout = "soon"`)
	cfg := Default()
	assert.Error(t, LoadFile(path, &cfg))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.BaseURL = "rocket.example"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}
