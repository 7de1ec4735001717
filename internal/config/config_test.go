package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_overridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alpha.toml")
	contents := `
[build]
dir = "out"
linker = "cc"
linker-args = ["-static", "-O2"]

[debug]
trace = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.Build.Dir)
	assert.Equal(t, "cc", cfg.Build.Linker)
	assert.Equal(t, []string{"-static", "-O2"}, cfg.Build.LinkerArgs)
	assert.True(t, cfg.Debug.Trace)
}

func Test_Load_missingKeysKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alpha.toml")
	require.NoError(t, os.WriteFile(path, []byte("[build]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Default().Build.Dir, cfg.Build.Dir)
	assert.Equal(t, Default().Build.Linker, cfg.Build.Linker)
}

func Test_LoadOrDefault_missingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
