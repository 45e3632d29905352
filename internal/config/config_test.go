package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the rest of the test and isolates HOME so a
// developer's own config is never picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "auto", cfg.Format)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultAPIBase, cfg.API.BaseURL)
	assert.Empty(t, cfg.API.Timeout)
	assert.False(t, cfg.Explorer.IncludeSamples)
	assert.Equal(t, 20, cfg.Explorer.PreviewCount)
	assert.False(t, cfg.Explorer.PurgeDetailsOnModeChange)
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, DefaultAPIBase, cfg.API.BaseURL)
	})

	t.Run("loads config from the working directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		content := `
format: text
api:
  base_url: https://records.example.com/v1
explorer:
  include_samples: true
`
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".pcx.yaml"), []byte(content), 0644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.Format)
		assert.Equal(t, "https://records.example.com/v1", cfg.API.BaseURL)
		assert.True(t, cfg.Explorer.IncludeSamples)
		assert.Equal(t, 20, cfg.Explorer.PreviewCount, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "pcx.yaml"), []byte("format: text\n"), 0644))
		t.Setenv("PCX_FORMAT", "ndjson")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "ndjson", cfg.Format)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parses all config fields", func(t *testing.T) {
		content := `
format: ndjson
quiet: true
verbose: true
api:
  base_url: http://127.0.0.1:9999
  timeout: 15s
explorer:
  include_samples: true
  preview_count: 5
  purge_details_on_mode_change: true
`
		configPath := filepath.Join(t.TempDir(), ".pcxrc")
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.True(t, cfg.Quiet)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "http://127.0.0.1:9999", cfg.API.BaseURL)
		assert.Equal(t, "15s", cfg.API.Timeout)
		assert.True(t, cfg.Explorer.IncludeSamples)
		assert.Equal(t, 5, cfg.Explorer.PreviewCount)
		assert.True(t, cfg.Explorer.PurgeDetailsOnModeChange)

		d, err := cfg.TimeoutDuration()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, d)
	})
}

func TestTimeoutDuration(t *testing.T) {
	cfg := Default()
	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	cfg.API.Timeout = "soon"
	_, err = cfg.TimeoutDuration()
	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	t.Run("finds .pcx.yaml in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		configPath := filepath.Join(tmpDir, ".pcx.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("format: text"), 0644))

		found := findConfigFile()
		// Resolve symlinks for comparison (macOS /var -> /private/var)
		expectedPath, _ := filepath.EvalSymlinks(configPath)
		foundPath, _ := filepath.EvalSymlinks(found)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("finds .pcx.yml in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		configPath := filepath.Join(tmpDir, ".pcx.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("format: text"), 0644))

		found := findConfigFile()
		expectedPath, _ := filepath.EvalSymlinks(configPath)
		foundPath, _ := filepath.EvalSymlinks(found)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("prefers .pcx.yaml over .pcx.yml", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		yamlPath := filepath.Join(tmpDir, ".pcx.yaml")
		ymlPath := filepath.Join(tmpDir, ".pcx.yml")
		require.NoError(t, os.WriteFile(yamlPath, []byte("format: yaml"), 0644))
		require.NoError(t, os.WriteFile(ymlPath, []byte("format: yml"), 0644))

		found := findConfigFile()
		expectedPath, _ := filepath.EvalSymlinks(yamlPath)
		foundPath, _ := filepath.EvalSymlinks(found)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("returns empty string when no config found", func(t *testing.T) {
		chdir(t, t.TempDir())
		assert.Empty(t, findConfigFile())
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Run("overrides format from env", func(t *testing.T) {
		cfg := Default()
		t.Setenv("PCX_FORMAT", "text")

		applyEnvOverrides(cfg)
		assert.Equal(t, "text", cfg.Format)
	})

	t.Run("overrides quiet from env with true", func(t *testing.T) {
		cfg := Default()
		t.Setenv("PCX_QUIET", "true")

		applyEnvOverrides(cfg)
		assert.True(t, cfg.Quiet)
	})

	t.Run("overrides quiet from env with 1", func(t *testing.T) {
		cfg := Default()
		t.Setenv("PCX_QUIET", "1")

		applyEnvOverrides(cfg)
		assert.True(t, cfg.Quiet)
	})

	t.Run("does not override quiet with other values", func(t *testing.T) {
		cfg := Default()
		t.Setenv("PCX_QUIET", "yes")

		applyEnvOverrides(cfg)
		assert.False(t, cfg.Quiet)
	})

	t.Run("overrides api base and trims trailing slash", func(t *testing.T) {
		cfg := Default()
		t.Setenv("PCX_API_BASE", "https://example.com/functions/v1/")

		applyEnvOverrides(cfg)
		assert.Equal(t, "https://example.com/functions/v1", cfg.API.BaseURL)
	})

	t.Run("overrides include samples", func(t *testing.T) {
		cfg := Default()
		t.Setenv("PCX_INCLUDE_SAMPLES", "1")

		applyEnvOverrides(cfg)
		assert.True(t, cfg.Explorer.IncludeSamples)
	})
}
