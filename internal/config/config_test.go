package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTest(t, t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", c.Timezone)
	assert.Equal(t, "utc", c.NaiveTimestamps)
	assert.False(t, c.NaiveLocal())
	assert.Equal(t, 50, c.PreviewRows)
	assert.Equal(t, "Views", c.DefaultViewColumn)
	assert.Equal(t, "markdown", c.OutputFormat)
	assert.Equal(t, ":8080", c.ServerAddr)
	assert.Equal(t, 32, c.MaxUploadMB)
}

func TestLoadFileAndEnv(t *testing.T) {
	chdirTest(t, t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("timezone: UTC\npreview_rows: 5\nnaive_timestamps: local\n"), 0o644))
	t.Setenv("REELSTATS_PREVIEW_ROWS", "7")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "UTC", c.Timezone)
	assert.True(t, c.NaiveLocal())
	assert.Equal(t, 7, c.PreviewRows, "env overrides file")
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdirTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REELSTATS_SERVER_ADDR=:9999\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("REELSTATS_SERVER_ADDR") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.ServerAddr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdirTest(t, t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("output_format: html\n"), 0o644))
	_, err := Load(p)
	assert.ErrorContains(t, err, "output_format")
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTest(t, t.TempDir())
	c, err := Load("")
	require.NoError(t, err)

	require.NoError(t, c.Set("timezone", "Europe/Lisbon"))
	require.NoError(t, c.Set("preview_rows", "10"))
	assert.Error(t, c.Set("preview_rows", "ten"))
	assert.Error(t, c.Set("naive_timestamps", "sometimes"))
	assert.Equal(t, "utc", c.NaiveTimestamps, "invalid value must not stick")
	assert.ErrorContains(t, c.Set("api_key", "x"), "unknown key")

	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(c, p))

	loaded, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", loaded.Timezone)
	assert.Equal(t, 10, loaded.PreviewRows)
}

func TestSaveDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := &Global{Timezone: "UTC", NaiveTimestamps: "utc", OutputFormat: "json", MaxUploadMB: 1}
	require.NoError(t, Save(c, ""))
	_, err := os.Stat(filepath.Join(home, ".reelstats", "config.yaml"))
	assert.NoError(t, err)
}

func TestDefaultsMatchLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTest(t, t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, c, Defaults())
	assert.NoError(t, Defaults().Validate())
}
