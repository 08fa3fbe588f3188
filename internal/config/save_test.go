package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Project.Context = "/srv/app"
	cfg.Components.Extensions = []string{"js", "json", "wxml", "wxss", "wxs"}
	cfg.Components.MaxReferences = -1
	cfg.Output.Format = "tree"
	cfg.Concurrency.Timeout = 90 * time.Second
	cfg.Cache.TTL = 24 * time.Hour
	cfg.Retry.InitialInterval = 10 * time.Millisecond

	require.NoError(t, Save(cfg, path))

	loaded, _, err := LoadWithViper(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/app", loaded.Project.Context)
	assert.Equal(t, []string{"js", "json", "wxml", "wxss", "wxs"}, loaded.Components.Extensions)
	assert.Equal(t, -1, loaded.Components.MaxReferences)
	assert.Equal(t, "tree", loaded.Output.Format)
	assert.Equal(t, 90*time.Second, loaded.Concurrency.Timeout)
	assert.Equal(t, 24*time.Hour, loaded.Cache.TTL)
	assert.Equal(t, 10*time.Millisecond, loaded.Retry.InitialInterval)
}

func TestSave_DefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, Save(Default(), ""))
	assert.FileExists(t, ConfigFilePath())
}

func TestSave_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Error(t, Save(cfg, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMarshal_DurationsAsStrings(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = 0

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 5m0s")
	assert.Contains(t, string(data), "ttl: 0s")
}
