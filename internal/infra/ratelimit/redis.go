package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// DI
func NewRedisLimiter(rdb *redis.Client, prefix string, limit int64, window time.Duration) Limiter {
	return &redisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// INCRしてカウントが1ならEXPIREでウィンドウを張る。
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + ":" + key

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}

	return n <= l.limit, nil
}
