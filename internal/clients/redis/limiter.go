package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sparklab/ideahub-backend/internal/platform/envutil"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
)

// RateLimiter bounds how often a key may pass within a fixed window. Used to
// cap per-student calls to the generation endpoint; Redis keeps the counters
// shared across replicas.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

type rateLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter fails when REDIS_ADDR is unset; main treats that as
// "run without limiting" and passes a nil limiter down.
func NewRateLimiter(log *logger.Logger, limit int, window time.Duration) (RateLimiter, error) {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &rateLimiter{
		log:    log.With("service", "RedisRateLimiter"),
		rdb:    rdb,
		limit:  limit,
		window: window,
	}, nil
}

func (rl *rateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if rl.limit <= 0 {
		return true, nil
	}
	bucket := fmt.Sprintf("ratelimit:%s:%d", strings.TrimSpace(key), time.Now().Unix()/int64(rl.window.Seconds()))
	count, err := rl.rdb.Incr(ctx, bucket).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, bucket, rl.window).Err(); err != nil {
			rl.log.Warn("Failed to set limiter window expiry", "key", bucket, "error", err)
		}
	}
	return count <= int64(rl.limit), nil
}

func (rl *rateLimiter) Close() error {
	return rl.rdb.Close()
}
