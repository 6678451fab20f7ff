package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// Defaults returns the built-in configuration as flat koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":        "info",
		"cache.backend":    BackendFile,
		"cache.dir":        "",
		"cache.redis_addr": "localhost:6379",
		"cache.prefix":     "opdflow:",
		"cache.ttl":        DefaultTTL.String(),
		"render.detailed":  false,
		"server.addr":      ":8080",
	}
}

// Default returns the built-in configuration without consulting any file or
// environment variable.
func Default() *Config {
	k := koanf.New(".")
	for key, value := range Defaults() {
		_ = k.Set(key, value)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic("config: invalid defaults: " + err.Error())
	}
	return &cfg
}
