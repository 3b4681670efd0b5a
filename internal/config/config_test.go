package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 8, cfg.Agent.MaxToolCalls)
	assert.True(t, cfg.Database.Seed)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.Addr = ":9001"
	cfg.Model.Name = "gpt-4o-mini"
	cfg.Agent.MaxToolCalls = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9001", loaded.Server.Addr)
	assert.Equal(t, "gpt-4o-mini", loaded.Model.Name)
	assert.Equal(t, 3, loaded.Agent.MaxToolCalls)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Agent.MaxToolCalls = 0
	require.NoError(t, cfg.Save(path))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tool_calls")
}
