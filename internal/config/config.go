// Package config loads the optional stowage configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/stowage/config.toml (or
// ~/.config/stowage/config.toml). Every setting is optional, and a missing
// file yields [Default]. Command-line flags override file values.
//
//	[cache]
//	backend = "redis"   # file (default), redis, none
//	ttl = "72h"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[annotate]
//	unit = "m"
//	offset = 0.3
//
//	[pack]
//	gap = 0.01
//	max_instances = 10000
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/pipeline"
)

const appName = "stowage"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the root of the configuration file.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
	Server   ServerConfig   `toml:"server"`
	Annotate AnnotateConfig `toml:"annotate"`
	Pack     PackConfig     `toml:"pack"`
}

// CacheConfig selects and tunes the layout cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"` // file backend only; empty means DefaultCacheDir
	TTL     string `toml:"ttl"` // Go duration; empty keeps the per-kind defaults
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures "stowage serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
	// MaxInstances limits max_instances per API request; 0 means
	// pipeline.DefaultMaxInstances.
	MaxInstances int `toml:"max_instances"`
}

// AnnotateConfig sets the dimension marker defaults.
type AnnotateConfig struct {
	Unit   string  `toml:"unit"`
	Offset float64 `toml:"offset"`
}

// PackConfig tunes the shelf packer.
type PackConfig struct {
	Gap          *float64 `toml:"gap"`
	MaxInstances int      `toml:"max_instances"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache:    CacheConfig{Backend: BackendFile},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: cache.DefaultRedisPrefix},
		Server:   ServerConfig{Addr: ":8080"},
		Annotate: AnnotateConfig{Unit: pipeline.DefaultUnit, Offset: pipeline.DefaultOffset},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path over the defaults. A missing file is not an
// error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat config %s", path)
	}

	cfg.applyEnvironmentOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the file at Path.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// applyEnvironmentOverrides lets deployments override the file without
// editing it.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv("STOWAGE_CACHE"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("STOWAGE_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("STOWAGE_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("STOWAGE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := os.Getenv("STOWAGE_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if _, err := c.TTL(); err != nil {
		return err
	}
	if c.Annotate.Offset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid annotate offset: %v (must be >= 0)", c.Annotate.Offset)
	}
	if c.Server.MaxInstances < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid server max_instances: %d (must be >= 0)", c.Server.MaxInstances)
	}
	if c.Pack.Gap != nil && *c.Pack.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid pack gap: %v (must be >= 0)", *c.Pack.Gap)
	}
	return nil
}

// TTL returns the configured cache lifetime, or zero when unset.
func (c *Config) TTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid cache ttl: %q", c.Cache.TTL)
	}
	return d, nil
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the config file location. STOWAGE_CONFIG wins over the XDG
// location.
func Path() (string, error) {
	if p := os.Getenv("STOWAGE_CONFIG"); p != "" {
		return p, nil
	}
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/stowage/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// CacheDir returns the file backend's directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// =============================================================================
// Factories
// =============================================================================

// NewCache builds the configured cache backend. The redis backend pings the
// server and fails when it is unreachable.
func (c *Config) NewCache(ctx context.Context) (cache.Cache, error) {
	var (
		backend cache.Cache
		err     error
	)
	switch c.Cache.Backend {
	case BackendNone:
		return cache.Disabled("backend none"), nil
	case BackendRedis:
		backend, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	default:
		dir, derr := c.CacheDir()
		if derr != nil {
			return cache.Disabled("cache dir unavailable: " + derr.Error()), nil
		}
		backend, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, err
	}

	ttl, err := c.TTL()
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		backend = cache.WithTTL(backend, ttl)
	}
	return backend, nil
}

// Options returns pipeline options seeded from the file. Unset values are
// left for the pipeline defaults.
func (c *Config) Options() pipeline.Options {
	opts := pipeline.Options{
		Unit:         c.Annotate.Unit,
		Offset:       c.Annotate.Offset,
		MaxInstances: c.Pack.MaxInstances,
	}
	if c.Pack.Gap != nil {
		g := *c.Pack.Gap
		opts.Gap = &g
	}
	return opts
}
