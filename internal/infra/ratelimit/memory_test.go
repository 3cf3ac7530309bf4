package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_EnforcesLimit(t *testing.T) {
	l := NewMemoryLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(context.Background(), "1.2.3.4")
		assert.NoError(t, err)
		assert.True(t, ok)
	}

	// 6回目で弾く
	ok, err := l.Allow(context.Background(), "1.2.3.4")
	assert.NoError(t, err)
	assert.False(t, ok)

	// 別キーには影響しない
	ok, err = l.Allow(context.Background(), "5.6.7.8")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	base := time.Now()
	l := NewMemoryLimiter(2, 15*time.Minute).(*memoryLimiter)
	l.now = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		ok, _ := l.Allow(context.Background(), "1.2.3.4")
		assert.True(t, ok)
	}
	ok, _ := l.Allow(context.Background(), "1.2.3.4")
	assert.False(t, ok)

	// ウィンドウ経過後はカウントし直す
	l.now = func() time.Time { return base.Add(16 * time.Minute) }
	ok, _ = l.Allow(context.Background(), "1.2.3.4")
	assert.True(t, ok)
}
