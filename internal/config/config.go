// Package config loads opdflow settings with koanf.
//
// Sources are merged in increasing priority: built-in defaults, the user file
// (~/.config/opdflow/config.yml), the project file (.opdflow.yml or an
// explicit path), then OPDFLOW_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by [Load].
const EnvPrefix = "OPDFLOW_"

// Config is the merged opdflow configuration.
type Config struct {
	LogLevel string       `koanf:"log_level"`
	Cache    CacheConfig  `koanf:"cache"`
	Render   RenderConfig `koanf:"render"`
	Server   ServerConfig `koanf:"server"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `koanf:"backend"`
	// Dir is the file cache root. Empty means the XDG cache directory.
	Dir       string        `koanf:"dir"`
	RedisAddr string        `koanf:"redis_addr"`
	Prefix    string        `koanf:"prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

type RenderConfig struct {
	Detailed bool `koanf:"detailed"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// Level returns the parsed log level. Call [Config.Validate] first; an
// unparseable level falls back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LoadOptions overrides the file locations consulted by [Load].
type LoadOptions struct {
	// UserConfigPath replaces the XDG user config file. Empty means default.
	UserConfigPath string
	// ProjectConfigPath replaces .opdflow.yml. An explicit path must exist.
	ProjectConfigPath string
}

// Load merges all configuration sources and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if err := loadOptionalFile(k, userPath, "user"); err != nil {
		return nil, err
	}

	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return nil, fmt.Errorf("config file %s not found", opts.ProjectConfigPath)
		}
		if err := loadFile(k, opts.ProjectConfigPath, "project"); err != nil {
			return nil, err
		}
	} else if err := loadOptionalFile(k, ProjectConfigPath(), "project"); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path, kind string) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	return loadFile(k, path, kind)
}

func loadFile(k *koanf.Koanf, path, kind string) error {
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading %s config %s: %w", kind, path, err)
	}
	return nil
}

// sections lists the nested keys whose env names need their first
// underscore turned into the koanf delimiter.
var sections = []string{"cache", "render", "server"}

// envKey maps OPDFLOW_CACHE_REDIS_ADDR to cache.redis_addr.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
