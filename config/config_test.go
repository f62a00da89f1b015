package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	reset()
	require := require.New(t)

	cfg, err := Get()
	require.NoError(err)
	require.Equal(25, cfg.MaxTokenLen)
	require.Equal(1000, cfg.UpdateStatsEach)
}

func TestGetFromFile(t *testing.T) {
	reset()
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(os.WriteFile(path, []byte(`{
		"BASE_PATH": "/data",
		"MAX_TOKEN_LEN": "30",
		"NUM_PRODUCER": 8
	}`), 0o644))

	SetOverridePath(path)
	cfg, err := Get()
	require.NoError(err)
	require.Equal("/data", cfg.BasePath)
	require.Equal(30, cfg.MaxTokenLen)
	require.Equal(8, cfg.NumProducer)
}

func TestOneShotIgnoresLateOverride(t *testing.T) {
	reset()
	require := require.New(t)

	_, err := Get()
	require.NoError(err)

	SetOverridePath("/does/not/matter")
	cfg, err := Get()
	require.NoError(err)
	require.Equal("", cfg.BasePath)
}

func TestMalformedConfigIsFatal(t *testing.T) {
	reset()
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(os.WriteFile(path, []byte(`not json`), 0o644))

	SetOverridePath(path)
	_, err := Get()
	require.Error(err)
}
