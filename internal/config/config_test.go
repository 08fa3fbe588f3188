package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) { *c = *Default() },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, Default(), c)
			},
		},
		{
			name:   "zero config gets defaults",
			modify: func(c *Config) {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultAppManifest, c.Project.AppManifest)
				assert.Equal(t, DefaultExtensions, c.Components.Extensions)
				assert.Equal(t, DefaultMaxReferences, c.Components.MaxReferences)
				assert.Equal(t, DefaultOutputDir, c.Output.Directory)
				assert.Equal(t, DefaultOutputFormat, c.Output.Format)
				assert.Equal(t, DefaultWorkers, c.Concurrency.Workers)
				assert.Equal(t, DefaultTimeout, c.Concurrency.Timeout)
				assert.Equal(t, DefaultRetryInitialInterval, c.Retry.InitialInterval)
				assert.Equal(t, DefaultRetryMaxInterval, c.Retry.MaxInterval)
				assert.Equal(t, DefaultRetryMultiplier, c.Retry.Multiplier)
				assert.Equal(t, DefaultLogFormat, c.Logging.Format)
			},
		},
		{
			name: "extensions lose leading dots",
			modify: func(c *Config) {
				c.Components.Extensions = []string{".js", " wxml ", "wxs"}
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, []string{"js", "wxml", "wxs"}, c.Components.Extensions)
			},
		},
		{
			name: "empty extension is an error",
			modify: func(c *Config) {
				c.Components.Extensions = []string{"js", "."}
			},
			wantErr: true,
		},
		{
			name: "negative max references disables the limit",
			modify: func(c *Config) {
				c.Components.MaxReferences = -1
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, -1, c.Components.MaxReferences)
			},
		},
		{
			name: "format is case insensitive",
			modify: func(c *Config) {
				c.Output.Format = "TREE"
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "tree", c.Output.Format)
			},
		},
		{
			name: "unknown format is an error",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "negative retries and ttl are clamped",
			modify: func(c *Config) {
				c.Retry.MaxRetries = -3
				c.Cache.TTL = -time.Hour
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.Retry.MaxRetries)
				assert.Equal(t, time.Duration(0), c.Cache.TTL)
			},
		},
		{
			name: "max interval below initial interval is reset",
			modify: func(c *Config) {
				c.Retry.InitialInterval = time.Second
				c.Retry.MaxInterval = time.Millisecond
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultRetryMaxInterval, c.Retry.MaxInterval)
			},
		},
		{
			name: "json log format is kept",
			modify: func(c *Config) {
				c.Logging.Format = "json"
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "json", c.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Project.DetectGitRoot)
	assert.Empty(t, cfg.Project.Context)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, CacheDir(), cfg.Cache.Directory)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)

	// Mutating one default must not leak into the next
	cfg.Components.Extensions[0] = "changed"
	assert.Equal(t, "json", Default().Components.Extensions[0])
}

func TestPaths(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, filepath.Join("/home/tester", ".wxcomp"), ConfigDir())
	assert.Equal(t, filepath.Join("/home/tester", ".wxcomp", "cache"), CacheDir())
	assert.Equal(t, filepath.Join("/home/tester", ".wxcomp", "config.yaml"), ConfigFilePath())
}

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())
	require.NoError(t, EnsureCacheDir())

	info, err := os.Stat(filepath.Join(home, ".wxcomp", "cache"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadWithViper_MissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, v, err := LoadWithViper("")
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultWorkers, cfg.Concurrency.Workers)
	assert.Equal(t, DefaultExtensions, cfg.Components.Extensions)
}

func TestLoadWithViper_ConfigFileInWorkingDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	content := `
project:
  context: /srv/app
  detect_git_root: false
components:
  extensions: [js, json, wxml, wxss, wxs]
  max_references: 50
output:
  directory: ./build
  format: yaml
concurrency:
  workers: 2
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, _, err := LoadWithViper("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/app", cfg.Project.Context)
	assert.False(t, cfg.Project.DetectGitRoot)
	assert.Equal(t, []string{"js", "json", "wxml", "wxss", "wxs"}, cfg.Components.Extensions)
	assert.Equal(t, 50, cfg.Components.MaxReferences)
	assert.Equal(t, "./build", cfg.Output.Directory)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Concurrency.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithViper_ExplicitConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "wxcomp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  directory: ./explicit\n"), 0644))

	cfg, _, err := LoadWithViper(path)
	require.NoError(t, err)
	assert.Equal(t, "./explicit", cfg.Output.Directory)
}

func TestLoadWithViper_MissingExplicitConfigFile(t *testing.T) {
	_, _, err := LoadWithViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithViper_InvalidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: [unclosed"), 0644))

	_, _, err := LoadWithViper("")
	assert.Error(t, err)
}

func TestLoadWithViper_InvalidFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  format: html\n"), 0644))

	_, _, err := LoadWithViper("")
	assert.Error(t, err)
}

func TestLoadWithViper_Environment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("WXCOMP_OUTPUT_DIRECTORY", "./env-output")
	t.Setenv("WXCOMP_CONCURRENCY_WORKERS", "3")
	t.Setenv("WXCOMP_PROJECT_CONTEXT", "/env/project")

	cfg, _, err := LoadWithViper("")
	require.NoError(t, err)

	assert.Equal(t, "./env-output", cfg.Output.Directory)
	assert.Equal(t, 3, cfg.Concurrency.Workers)
	assert.Equal(t, "/env/project", cfg.Project.Context)
}

func TestLoadFrom_FlagBinding(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", DefaultOutputDir, "")
	require.NoError(t, flags.Parse([]string{"-o", "./from-flag"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("output.directory", flags.Lookup("output")))

	cfg, err := LoadFrom(v, "")
	require.NoError(t, err)
	assert.Equal(t, "./from-flag", cfg.Output.Directory)
}

func TestLoad_GlobalViper(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputFormat, cfg.Output.Format)
}
