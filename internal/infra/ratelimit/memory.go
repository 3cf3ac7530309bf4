package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int64
	lastReset time.Time
}

type memoryLimiter struct {
	mu     sync.Mutex
	byKey  map[string]*window
	limit  int64
	window time.Duration
	now    func() time.Time
}

// 単一インスタンス・開発用のインメモリ実装。
func NewMemoryLimiter(limit int64, win time.Duration) Limiter {
	return &memoryLimiter{
		byKey:  make(map[string]*window),
		limit:  limit,
		window: win,
		now:    time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.byKey[key]
	if !ok || now.Sub(w.lastReset) > l.window {
		l.byKey[key] = &window{count: 1, lastReset: now}
		return true, nil
	}

	w.count++
	return w.count <= l.limit, nil
}
