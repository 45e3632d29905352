package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIBase points at a locally served functions endpoint
const DefaultAPIBase = "http://localhost:54321/functions/v1"

// configNames are tried in each search directory, in order
var configNames = []string{"pcx.yaml", ".pcx.yaml", ".pcx.yml", ".pcxrc"}

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format" yaml:"format"`
	Quiet   bool   `mapstructure:"quiet" yaml:"quiet"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`

	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Explorer ExplorerConfig `mapstructure:"explorer" yaml:"explorer"`
}

// APIConfig configures the remote record store
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout is a Go duration; empty or "0" means no local timeout.
	Timeout string `mapstructure:"timeout" yaml:"timeout"`
}

// ExplorerConfig holds explorer and inspector defaults
type ExplorerConfig struct {
	IncludeSamples           bool `mapstructure:"include_samples" yaml:"include_samples"`
	PreviewCount             int  `mapstructure:"preview_count" yaml:"preview_count"`
	PurgeDetailsOnModeChange bool `mapstructure:"purge_details_on_mode_change" yaml:"purge_details_on_mode_change"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "auto",
		API: APIConfig{
			BaseURL: DefaultAPIBase,
		},
		Explorer: ExplorerConfig{
			PreviewCount: 20,
		},
	}
}

// TimeoutDuration parses API.Timeout
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
	}
	return d, nil
}

// Load reads the first config file found (see ConfigFile), then applies
// PCX_* environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// .pcxrc has no extension
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("explorer.preview_count", cfg.Explorer.PreviewCount)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFile returns the path of the config file Load would read, or "".
func ConfigFile() string {
	return findConfigFile()
}

// searchDirs lists config directories, highest precedence first
func searchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, "pcx"))
	}
	return append(dirs, "/etc/pcx")
}

func findConfigFile() string {
	for _, dir := range searchDirs() {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				if abs, err := filepath.Abs(path); err == nil {
					return abs
				}
				return path
			}
		}
	}
	return ""
}

// applyEnvOverrides applies PCX_* variables on top of file values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PCX_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("PCX_QUIET"); v != "" {
		cfg.Quiet = envBool(v)
	}
	if v := os.Getenv("PCX_VERBOSE"); v != "" {
		cfg.Verbose = envBool(v)
	}
	if v := os.Getenv("PCX_API_BASE"); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("PCX_API_TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}
	if v := os.Getenv("PCX_INCLUDE_SAMPLES"); v != "" {
		cfg.Explorer.IncludeSamples = envBool(v)
	}
}

func envBool(v string) bool {
	return v == "true" || v == "1"
}
