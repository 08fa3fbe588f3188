package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lineCode/import-weapp-component/internal/config"
)

// ConfigValues holds form values that map to Config struct.
// Numeric and duration fields are stored as strings for form editing.
type ConfigValues struct {
	ProjectContext   string
	SourceDir        string
	AppManifest      string
	DetectGitRoot    bool
	Extensions       string
	MaxReferences    string
	OutputDirectory  string
	OutputFormat     string
	OutputOverwrite  bool
	OutputIndex      bool
	Workers          string
	Timeout          string
	CacheEnabled     bool
	CacheTTL         string
	CacheDirectory   string
	RetryMaxRetries  string
	RetryInitial     string
	RetryMaxInterval string
	RetryMultiplier  string
	LogLevel         string
	LogFormat        string
}

// FromConfig converts a Config to ConfigValues for form editing
func FromConfig(cfg *config.Config) *ConfigValues {
	return &ConfigValues{
		ProjectContext: cfg.Project.Context,
		SourceDir:      cfg.Project.SourceDir,
		AppManifest:    cfg.Project.AppManifest,
		DetectGitRoot:  cfg.Project.DetectGitRoot,

		Extensions:    strings.Join(cfg.Components.Extensions, ", "),
		MaxReferences: strconv.Itoa(cfg.Components.MaxReferences),

		OutputDirectory: cfg.Output.Directory,
		OutputFormat:    cfg.Output.Format,
		OutputOverwrite: cfg.Output.Overwrite,
		OutputIndex:     cfg.Output.Index,

		Workers: strconv.Itoa(cfg.Concurrency.Workers),
		Timeout: formatDuration(cfg.Concurrency.Timeout),

		CacheEnabled:   cfg.Cache.Enabled,
		CacheTTL:       formatDuration(cfg.Cache.TTL),
		CacheDirectory: cfg.Cache.Directory,

		RetryMaxRetries:  strconv.Itoa(cfg.Retry.MaxRetries),
		RetryInitial:     formatDuration(cfg.Retry.InitialInterval),
		RetryMaxInterval: formatDuration(cfg.Retry.MaxInterval),
		RetryMultiplier:  strconv.FormatFloat(cfg.Retry.Multiplier, 'f', 2, 64),

		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,
	}
}

// ToConfig converts ConfigValues back to a validated Config
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	maxRefs, err := parseIntOrDefault(v.MaxReferences, config.DefaultMaxReferences)
	if err != nil {
		return nil, fmt.Errorf("invalid max_references: %w", err)
	}

	workers, err := parseIntOrDefault(v.Workers, config.DefaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("invalid workers: %w", err)
	}

	timeout, err := parseDurationOrDefault(v.Timeout, config.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	cacheTTL, err := parseDurationOrDefault(v.CacheTTL, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache_ttl: %w", err)
	}

	maxRetries, err := parseIntOrDefault(v.RetryMaxRetries, config.DefaultRetryMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("invalid max_retries: %w", err)
	}

	initial, err := parseDurationOrDefault(v.RetryInitial, config.DefaultRetryInitialInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid initial_interval: %w", err)
	}

	maxInterval, err := parseDurationOrDefault(v.RetryMaxInterval, config.DefaultRetryMaxInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid max_interval: %w", err)
	}

	multiplier, err := parseFloatOrDefault(v.RetryMultiplier, config.DefaultRetryMultiplier)
	if err != nil {
		return nil, fmt.Errorf("invalid multiplier: %w", err)
	}

	cfg := &config.Config{
		Project: config.ProjectConfig{
			Context:       strings.TrimSpace(v.ProjectContext),
			SourceDir:     strings.TrimSpace(v.SourceDir),
			AppManifest:   strings.TrimSpace(v.AppManifest),
			DetectGitRoot: v.DetectGitRoot,
		},
		Components: config.ComponentsConfig{
			Extensions:    splitList(v.Extensions),
			MaxReferences: maxRefs,
		},
		Output: config.OutputConfig{
			Directory: v.OutputDirectory,
			Format:    v.OutputFormat,
			Overwrite: v.OutputOverwrite,
			Index:     v.OutputIndex,
		},
		Concurrency: config.ConcurrencyConfig{
			Workers: workers,
			Timeout: timeout,
		},
		Cache: config.CacheConfig{
			Enabled:   v.CacheEnabled,
			TTL:       cacheTTL,
			Directory: v.CacheDirectory,
		},
		Retry: config.RetryConfig{
			MaxRetries:      maxRetries,
			InitialInterval: initial,
			MaxInterval:     maxInterval,
			Multiplier:      multiplier,
		},
		Logging: config.LoggingConfig{
			Level:  v.LogLevel,
			Format: v.LogFormat,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList splits a comma or whitespace separated list
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDurationOrDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(s)
}

func parseIntOrDefault(s string, defaultVal int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func parseFloatOrDefault(s string, defaultVal float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(s, 64)
}
