// Package cache bootstraps the redis client shared by the simulation store
// and the idempotency middleware.
package cache

import (
	"context"
	"fmt"
	"time"

	"kavak-credito/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dialTimeout = 2 * time.Second
	ioTimeout   = time.Second
	pingTimeout = 5 * time.Second
)

// OpenRedis connects and pings; the caller owns Close.
func OpenRedis(cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	log.Info("redis: connected", zap.String("op", "cache.OpenRedis"), zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return r, nil
}
