package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, 2, cfg.Pipeline.BriefingConcurrency)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server_port: "9100"
generation:
  endpoint: https://gen.example.com/v1/complete
  model: research-large
pipeline:
  briefing_concurrency: 4
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, "research-large", cfg.Generation.Model)
	assert.Equal(t, 4, cfg.Pipeline.BriefingConcurrency)
	// Untouched keys keep their defaults.
	assert.Equal(t, 120, cfg.Generation.TimeoutSeconds)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`server_port: "9100"`), 0o644))
	t.Setenv("SERVER_PORT", "9200")
	t.Setenv("BRIEFING_CONCURRENCY", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9200", cfg.ServerPort)
	assert.Equal(t, 5, cfg.Pipeline.BriefingConcurrency)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.ServerPort)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
