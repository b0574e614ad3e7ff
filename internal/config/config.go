package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hjortnaes/scorecard/internal/engine"
)

// Config holds the resolved application configuration. It is built once at
// startup and passed explicitly; the engine never reads it from ambient
// state.
type Config struct {
	OutputDir    string `json:"output_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	ListMode          string `json:"list_mode"`
	CustomTickers     string `json:"custom_tickers"`
	IncludeBenchmarks bool   `json:"include_benchmarks"`

	Workers         int  `json:"workers"`
	AssetTimeoutSec int  `json:"asset_timeout_sec"`
	CacheEnabled    bool `json:"cache_enabled"`
}

// DefaultConfig builds the configuration from defaults, a .env file when
// present, then process environment overrides.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		OutputDir:    filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		ListMode:          string(engine.ListModeDefault),
		CustomTickers:     "",
		IncludeBenchmarks: true,

		Workers:         4,
		AssetTimeoutSec: 60,
		CacheEnabled:    true,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()
	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("SCORECARD_OUTPUT_DIR"); val != "" {
		c.OutputDir = val
	}
	if val := os.Getenv("SCORECARD_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("SCORECARD_LIST_MODE"); val != "" {
		c.ListMode = val
	}
	if val := os.Getenv("SCORECARD_CUSTOM_TICKERS"); val != "" {
		c.CustomTickers = val
	}
	if val := os.Getenv("SCORECARD_INCLUDE_BENCHMARKS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.IncludeBenchmarks = b
		}
	}
	if val := os.Getenv("SCORECARD_WORKERS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.Workers = v
		}
	}
	if val := os.Getenv("SCORECARD_ASSET_TIMEOUT_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.AssetTimeoutSec = v
		}
	}
	if val := os.Getenv("SCORECARD_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = b
		}
	}
}

// EnsureDirectories creates the output and cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.OutputDir, c.DataCacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Settings converts the configured universe selection into engine settings.
func (c *Config) Settings() engine.Settings {
	return engine.Settings{
		ListMode:          engine.ListMode(c.ListMode),
		CustomTickers:     c.CustomTickers,
		IncludeBenchmarks: c.IncludeBenchmarks,
	}
}
