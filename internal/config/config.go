package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Project     ProjectConfig     `mapstructure:"project" yaml:"project"`
	Components  ComponentsConfig  `mapstructure:"components" yaml:"components"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Retry       RetryConfig       `mapstructure:"retry" yaml:"retry"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// ProjectConfig locates the mini-program sources
type ProjectConfig struct {
	// Context anchors absolute component references; empty means auto-detect
	Context       string `mapstructure:"context" yaml:"context"`
	SourceDir     string `mapstructure:"source_dir" yaml:"source_dir"`
	AppManifest   string `mapstructure:"app_manifest" yaml:"app_manifest"`
	DetectGitRoot bool   `mapstructure:"detect_git_root" yaml:"detect_git_root"`
}

// ComponentsConfig contains component resolution settings
type ComponentsConfig struct {
	Extensions    []string `mapstructure:"extensions" yaml:"extensions"`
	MaxReferences int      `mapstructure:"max_references" yaml:"max_references"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Format    string `mapstructure:"format" yaml:"format"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
	Index     bool   `mapstructure:"index" yaml:"index"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// CacheConfig contains fingerprint cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// RetryConfig contains retry settings for file operations
type RetryConfig struct {
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval" yaml:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier" yaml:"multiplier"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Project.AppManifest == "" {
		c.Project.AppManifest = DefaultAppManifest
	}

	if len(c.Components.Extensions) == 0 {
		c.Components.Extensions = append([]string(nil), DefaultExtensions...)
	}
	exts := make([]string, 0, len(c.Components.Extensions))
	for _, ext := range c.Components.Extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			return fmt.Errorf("invalid components.extensions: empty extension")
		}
		exts = append(exts, ext)
	}
	c.Components.Extensions = exts
	if c.Components.MaxReferences == 0 {
		c.Components.MaxReferences = DefaultMaxReferences
	}

	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case "json", "yaml", "tree":
	default:
		return fmt.Errorf("invalid output.format %q: want json, yaml or tree", c.Output.Format)
	}

	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Concurrency.Timeout < time.Second {
		c.Concurrency.Timeout = DefaultTimeout
	}
	if c.Cache.TTL < 0 {
		c.Cache.TTL = 0
	}

	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = 0
	}
	if c.Retry.InitialInterval <= 0 {
		c.Retry.InitialInterval = DefaultRetryInitialInterval
	}
	if c.Retry.MaxInterval < c.Retry.InitialInterval {
		c.Retry.MaxInterval = DefaultRetryMaxInterval
	}
	if c.Retry.Multiplier < 1 {
		c.Retry.Multiplier = DefaultRetryMultiplier
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}
