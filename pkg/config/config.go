// Package config loads rankorder settings from a TOML file.
//
// A config file has four optional tables:
//
//	[ordering]
//	quality = "balanced"
//	max_sweeps = 24
//	timeout = "5s"
//	bias = "alternate"
//
//	[cache]
//	backend = "file"        # file, redis or none
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
//
// Missing values are filled by [Config.SetDefaults]; command-line flags
// override whatever the file sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/ordering"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Log formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultMaxBodyBytes   = 8 << 20
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultPrefix         = "rankorder:"
)

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root of the config file.
type Config struct {
	Ordering OrderingConfig `toml:"ordering"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// OrderingConfig holds the default ordering options. Zero numeric values
// defer to the quality preset.
type OrderingConfig struct {
	Quality   string   `toml:"quality"`
	MaxSweeps int      `toml:"max_sweeps"`
	MaxStale  int      `toml:"max_stale"`
	Timeout   Duration `toml:"timeout"`
	Parallel  bool     `toml:"parallel"`
	Bias      string   `toml:"bias"`
	Init      string   `toml:"init"`
	Normalize bool     `toml:"normalize"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset values. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Ordering.Quality == "" {
		c.Ordering.Quality = ordering.QualityBalanced.String()
	}
	if c.Ordering.Bias == "" {
		c.Ordering.Bias = ordering.BiasAlternate.String()
	}
	if c.Ordering.Init == "" {
		c.Ordering.Init = "rows"
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir()
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = DefaultPrefix
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(7 * 24 * time.Hour)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = Duration(DefaultRequestTimeout)
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = FormatText
	}
}

// Validate checks every value and returns the first problem as an
// INVALID_CONFIG (or INVALID_QUALITY) error.
func (c *Config) Validate() error {
	o := c.Ordering
	if _, err := ordering.ParseQuality(o.Quality); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidQuality, err, "ordering.quality")
	}
	if _, err := ordering.ParseBias(o.Bias); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "ordering.bias")
	}
	if _, err := ordering.ParseInitializer(o.Init); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "ordering.init")
	}
	if o.MaxSweeps < 0 || o.MaxStale < 0 || o.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "ordering: max_sweeps, max_stale and timeout must not be negative")
	}

	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
	case BackendRedis:
		if err := errs.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	case BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if c.Server.MaxBodyBytes < 0 || c.Server.RequestTimeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server: max_body_bytes and request_timeout must not be negative")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "log.level")
	}
	switch c.Log.Format {
	case FormatText, FormatJSON, FormatLogfmt:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "log.format %q (want text, json or logfmt)", c.Log.Format)
	}
	return nil
}

// Load reads path, applies defaults and validates the result. An empty path
// means [DefaultPath]; a missing default file yields the defaults, while a
// missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	c := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			keys := make([]string, len(undec))
			for i, k := range undec {
				keys[i] = k.String()
			}
			return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode returns c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/rankorder/config.toml, falling back to
// the platform config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "rankorder.toml"
	}
	return filepath.Join(dir, "rankorder", "config.toml")
}

// DefaultCacheDir returns the per-user cache directory for ordering results.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rankorder")
	}
	return filepath.Join(dir, "rankorder")
}
