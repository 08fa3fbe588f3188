package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileDoc mirrors Config with durations spelled as strings ("5m0s"),
// which viper decodes back into time.Duration.
type fileDoc struct {
	Project     ProjectConfig    `yaml:"project"`
	Components  ComponentsConfig `yaml:"components"`
	Output      OutputConfig     `yaml:"output"`
	Concurrency struct {
		Workers int    `yaml:"workers"`
		Timeout string `yaml:"timeout"`
	} `yaml:"concurrency"`
	Cache struct {
		Enabled   bool   `yaml:"enabled"`
		TTL       string `yaml:"ttl"`
		Directory string `yaml:"directory"`
	} `yaml:"cache"`
	Retry struct {
		MaxRetries      int     `yaml:"max_retries"`
		InitialInterval string  `yaml:"initial_interval"`
		MaxInterval     string  `yaml:"max_interval"`
		Multiplier      float64 `yaml:"multiplier"`
	} `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// Marshal renders cfg as the YAML accepted by Load
func Marshal(cfg *Config) ([]byte, error) {
	var doc fileDoc
	doc.Project = cfg.Project
	doc.Components = cfg.Components
	doc.Output = cfg.Output
	doc.Concurrency.Workers = cfg.Concurrency.Workers
	doc.Concurrency.Timeout = durationString(cfg.Concurrency.Timeout)
	doc.Cache.Enabled = cfg.Cache.Enabled
	doc.Cache.TTL = durationString(cfg.Cache.TTL)
	doc.Cache.Directory = cfg.Cache.Directory
	doc.Retry.MaxRetries = cfg.Retry.MaxRetries
	doc.Retry.InitialInterval = durationString(cfg.Retry.InitialInterval)
	doc.Retry.MaxInterval = durationString(cfg.Retry.MaxInterval)
	doc.Retry.Multiplier = cfg.Retry.Multiplier
	doc.Logging = cfg.Logging

	return yaml.Marshal(&doc)
}

// Save validates cfg and writes it to path, creating the parent directory.
// An empty path writes ConfigFilePath().
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if path == "" {
		path = ConfigFilePath()
	}

	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func durationString(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	return d.String()
}
