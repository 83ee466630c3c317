package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHCL = `
workers            = 8
parallel_threshold = 3
format             = "csv"
log_level          = "debug"
progress           = true
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "expocli.hcl", sampleHCL)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Workers:           8,
		ParallelThreshold: 3,
		Format:            "csv",
		LogLevel:          "debug",
		Progress:          true,
	}, cfg)
}

func TestLoadPartial(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "expocli.hcl", `format = "json"`+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Zero(t, cfg.Workers)
	assert.False(t, cfg.Progress)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
		require.Error(t, err)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "expocli.hcl", `colour = "red"`+"\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expocli.hcl")
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "expocli.hcl", "workers = \n")
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestDiscoverWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, FileName, `format = "json"`+"\n")
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, FileName, path)
	assert.Equal(t, "json", cfg.Format)
}

func TestDiscoverHomeFallback(t *testing.T) {
	home := t.TempDir()
	expected := writeConfig(t, home, filepath.Join(".expocli", "config.hcl"), `workers = 4`+"\n")
	t.Chdir(t.TempDir())
	t.Setenv("HOME", home)

	cfg, path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, expected, path)
	assert.Equal(t, 4, cfg.Workers)
}

func TestDiscoverNothing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Discover()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Config{}, cfg)
}

func TestDiscoverBadFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, FileName, `what even`+"\n")
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	_, path, err := Discover()
	require.Error(t, err)
	assert.Equal(t, FileName, path)
}
