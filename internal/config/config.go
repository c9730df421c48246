// Package config loads server settings from the environment.
//
// Settings come from PHOTOCULL_* environment variables. An optional .env file
// in the working directory is read first; variables already present in the
// environment take precedence over it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCacheDir       = "PHOTOCULL_CACHE_DIR"
	EnvLogLevel       = "PHOTOCULL_LOG_LEVEL"
	EnvPreviewQuality = "PHOTOCULL_PREVIEW_QUALITY"
	EnvAnalysisSize   = "PHOTOCULL_ANALYSIS_SIZE"
	EnvThumbnailSize  = "PHOTOCULL_THUMBNAIL_SIZE"
)

// Log levels.
const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
)

// Config holds the server configuration
type Config struct {
	// CacheDir is the root for generated files such as thumbnails.
	CacheDir string `json:"cache_dir"`

	// LogLevel is "info" or "debug".
	LogLevel string `json:"log_level"`

	// PreviewQuality is the JPEG quality of preview images (1-100).
	PreviewQuality int `json:"preview_quality"`

	// AnalysisSize is the long-edge size rasters are reduced to before
	// statistics are computed.
	AnalysisSize int `json:"analysis_size"`

	// ThumbnailSize is the bounding box side of library thumbnails.
	ThumbnailSize int `json:"thumbnail_size"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		CacheDir:       defaultCacheDir(),
		LogLevel:       LogLevelInfo,
		PreviewQuality: 85,
		AnalysisSize:   1024,
		ThumbnailSize:  256,
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return ".photocull"
	}
	return filepath.Join(base, "photocull")
}

// Load reads the optional .env file and the environment on top of Default,
// then validates the result.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		cfg.CacheDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	var err error
	if cfg.PreviewQuality, err = intFromEnv(EnvPreviewQuality, cfg.PreviewQuality); err != nil {
		return nil, err
	}
	if cfg.AnalysisSize, err = intFromEnv(EnvAnalysisSize, cfg.AnalysisSize); err != nil {
		return nil, err
	}
	if cfg.ThumbnailSize, err = intFromEnv(EnvThumbnailSize, cfg.ThumbnailSize); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func intFromEnv(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return n, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir cannot be empty")
	}

	if c.LogLevel != LogLevelInfo && c.LogLevel != LogLevelDebug {
		return fmt.Errorf("log_level must be %q or %q", LogLevelInfo, LogLevelDebug)
	}

	if c.PreviewQuality < 1 || c.PreviewQuality > 100 {
		return fmt.Errorf("preview_quality must be between 1 and 100")
	}

	if c.AnalysisSize < 64 {
		return fmt.Errorf("analysis_size must be at least 64")
	}

	if c.ThumbnailSize < 16 {
		return fmt.Errorf("thumbnail_size must be at least 16")
	}

	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == LogLevelDebug
}

// ThumbnailDir returns the directory thumbnails are written to.
func (c *Config) ThumbnailDir() string {
	return filepath.Join(c.CacheDir, "thumbnails")
}
