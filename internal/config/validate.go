package config

import "github.com/opmtools/opdflow/pkg/errors"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate reports the first invalid setting as an INVALID_INPUT error.
func (c *Config) Validate() error {
	if err := errors.ValidateFormat(c.LogLevel, logLevels...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log_level")
	}
	if err := errors.ValidateFormat(c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "cache.backend")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr must not be empty")
	}
	return nil
}
