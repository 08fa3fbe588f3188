package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Project defaults
	DefaultAppManifest   = "app.json"
	DefaultDetectGitRoot = true

	// Component defaults
	DefaultMaxReferences = 10000

	// Output defaults
	DefaultOutputDir    = "./dist"
	DefaultOutputFormat = "json"

	// Concurrency defaults
	DefaultWorkers = 8
	DefaultTimeout = 5 * time.Minute

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 0

	// Retry defaults
	DefaultRetryMaxRetries      = 3
	DefaultRetryInitialInterval = 50 * time.Millisecond
	DefaultRetryMaxInterval     = 2 * time.Second
	DefaultRetryMultiplier      = 2.0

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultExtensions make up a single-file component
var DefaultExtensions = []string{"json", "js", "wxml", "wxss"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wxcomp"
	}
	return filepath.Join(home, ".wxcomp")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			AppManifest:   DefaultAppManifest,
			DetectGitRoot: DefaultDetectGitRoot,
		},
		Components: ComponentsConfig{
			Extensions:    append([]string(nil), DefaultExtensions...),
			MaxReferences: DefaultMaxReferences,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			Format:    DefaultOutputFormat,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Retry: RetryConfig{
			MaxRetries:      DefaultRetryMaxRetries,
			InitialInterval: DefaultRetryInitialInterval,
			MaxInterval:     DefaultRetryMaxInterval,
			Multiplier:      DefaultRetryMultiplier,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
