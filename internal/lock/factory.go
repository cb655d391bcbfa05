package lock

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/config"
)

// New constructs the configured order lock backend.
func New(cfg config.LockConfig, logger zerolog.Logger) (Locker, error) {
	backend := strings.TrimSpace(strings.ToLower(cfg.Backend))
	if backend == "" {
		backend = "memory"
	}

	switch backend {
	case "memory":
		logger.Info().Str("backend", "memory").Msg("order lock initialised")
		return NewMemoryLocker(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		opts := []RedisOption{}
		if cfg.TTLSeconds > 0 {
			opts = append(opts, WithLockTTL(time.Duration(cfg.TTLSeconds)*time.Second))
		}
		locker, err := NewRedisLocker(client, logger, opts...)
		if err != nil {
			return nil, fmt.Errorf("lock: redis locker init: %w", err)
		}
		logger.Info().Str("backend", "redis").Str("addr", cfg.RedisAddr).Msg("order lock initialised")
		return locker, nil
	default:
		return nil, fmt.Errorf("lock: unsupported backend %q", cfg.Backend)
	}
}
