package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Study.Shuffle)
	assert.Nil(t, cfg.Storage.DBPath)
}

func TestLoadConfigDecodesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[study]
shuffle = false
default-period = "month"
curve-window = 3

[storage]
db = "/tmp/deck.db"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Study.Shuffle)
	assert.False(t, *cfg.Study.Shuffle)
	require.NotNil(t, cfg.Study.DefaultPeriod)
	assert.Equal(t, "month", *cfg.Study.DefaultPeriod)
	require.NotNil(t, cfg.Study.CurveWindow)
	assert.Equal(t, 3, *cfg.Study.CurveWindow)
	require.NotNil(t, cfg.Storage.DBPath)
	assert.Equal(t, "/tmp/deck.db", *cfg.Storage.DBPath)
	assert.Nil(t, cfg.Storage.RoutePath)
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("XDG_CONFIG_HOME", "/conf")

	assert.Equal(t, filepath.Join("/data", "studydeck", "studydeck.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/state", "studydeck", "route"), DefaultRoutePath())
	assert.Equal(t, filepath.Join("/state", "studydeck", "studydeck.log"), DefaultLogPath())
	assert.Equal(t, filepath.Join("/conf", "studydeck", "config.toml"), DefaultConfigPath())
}
