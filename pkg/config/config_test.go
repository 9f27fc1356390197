package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"__pycache__", "dependency_graph"}, cfg.Exclude.Dirs)
	assert.False(t, cfg.Exclude.Gitignore)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 30, cfg.History.Days)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depmap.toml")
	content := `
[exclude]
dirs = ["__pycache__", "venv"]
gitignore = true

[history]
enabled = false
days = 90

[output]
format = "text"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"__pycache__", "venv"}, cfg.Exclude.Dirs)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 90, cfg.History.Days)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depmap.yaml")
	content := `
history:
  days: 7
output:
  format: markdown
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.History.Days)
	assert.Equal(t, "markdown", cfg.Output.Format)
	// Untouched sections keep defaults.
	assert.Equal(t, []string{"__pycache__", "dependency_graph"}, cfg.Exclude.Dirs)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depmap.json")
	content := `{"exclude": {"dirs": ["build"]}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"build"}, cfg.Exclude.Dirs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml\n==="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
