package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test. It stands in for
// t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// TestLoad_Defaults verifies the built-in configuration.
func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/policyNews.json", cfg.Output.Path)
	assert.Equal(t, 30, cfg.Output.MaxItems)
	assert.Equal(t, 30, cfg.Output.PageSize)
	assert.Equal(t, 1, cfg.Output.MaxPages)
	assert.Equal(t, 20*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 45, cfg.Fetch.WindowDays)
	assert.Equal(t, 1, cfg.Fetch.MaxFeedPages)
	assert.False(t, cfg.Fetch.ProbePages)
	assert.Empty(t, cfg.Sources.Feeds)
	assert.Empty(t, cfg.State.Path)
	assert.False(t, cfg.Log.Debug)
}

// TestLoad_EnvOverrides verifies POLICYFEED_* environment variables win
// over defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("POLICYFEED_OUTPUT_MAX_ITEMS", "12")
	t.Setenv("POLICYFEED_FETCH_WINDOW_DAYS", "7")
	t.Setenv("POLICYFEED_FETCH_MAX_FEED_PAGES", "4")
	t.Setenv("POLICYFEED_OUTPUT_PAGE_SIZE", "6")
	t.Setenv("POLICYFEED_LOG_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Output.MaxItems)
	assert.Equal(t, 7, cfg.Fetch.WindowDays)
	assert.Equal(t, 4, cfg.Fetch.MaxFeedPages)
	assert.Equal(t, 6, cfg.Output.PageSize)
	assert.True(t, cfg.Log.Debug)
}

// TestLoad_ConfigFile verifies values from an explicit YAML file.
func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policyfeed.yaml")
	body := `
output:
  path: out/news.json
  max_items: 10
fetch:
  timeout: 5s
sources:
  feeds:
    - https://example.com/feed.xml
state:
  path: state.db
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out/news.json", cfg.Output.Path)
	assert.Equal(t, 10, cfg.Output.MaxItems)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, cfg.Sources.Feeds)
	assert.Equal(t, "state.db", cfg.State.Path)
	// Untouched values keep their defaults.
	assert.Equal(t, 30, cfg.Output.PageSize)
}

// TestLoad_ExplicitFileMustExist verifies a named config file that is
// missing is an error.
func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestLoad_InvalidValuesRejected verifies validation.
func TestLoad_InvalidValuesRejected(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("POLICYFEED_OUTPUT_MAX_ITEMS", "0")

	_, err := Load("")
	assert.Error(t, err)
}
