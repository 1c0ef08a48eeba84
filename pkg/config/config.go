// Package config loads the taskvis configuration file.
//
// The file is TOML. Every section is optional and unset keys keep their
// built-in defaults:
//
//	[chart]
//	lanes = 12
//	overflow = "overlap"
//
//	[render]
//	formats = ["svg", "png"]
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override the file.
package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/source"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// AppName names the config and cache directories.
const AppName = "taskvis"

// Defaults.
const (
	DefaultAddr     = ":8080"
	DefaultCacheTTL = 7 * 24 * time.Hour
	DefaultMaxBody  = 32 << 20
)

// Config is the whole configuration file.
type Config struct {
	Chart    timeline.Config       `toml:"chart"`
	Render   RenderConfig          `toml:"render"`
	Cache    CacheConfig           `toml:"cache"`
	Mongo    source.MongoConfig    `toml:"mongo"`
	Postgres source.PostgresConfig `toml:"postgres"`
	Server   ServerConfig          `toml:"server"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Scale   float64  `toml:"scale"`
	Details bool     `toml:"details"`
}

// CacheConfig selects the artifact cache. RedisURL wins over Dir.
type CacheConfig struct {
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
	Disabled bool          `toml:"disabled"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chart:  timeline.DefaultConfig(),
		Render: RenderConfig{Formats: []string{pipeline.FormatSVG}},
		Cache:  CacheConfig{TTL: DefaultCacheTTL},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBody,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
	}
}

// Load reads the file at path over the defaults. An empty path reads
// DefaultPath when that file exists and returns the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks the chart geometry and output formats.
func (c *Config) Validate() error {
	c.Chart = c.Chart.WithDefaults()
	if err := c.Chart.Validate(); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Scale < 0 || math.IsNaN(c.Render.Scale) || math.IsInf(c.Render.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "render scale must be positive, got %g", c.Render.Scale)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/taskvis/config.toml, falling back to
// ~/.config/taskvis/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the configured cache directory, or the XDG cache
// location when none is set.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
