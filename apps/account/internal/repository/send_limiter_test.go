package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newLocalLimiter(t *testing.T, limit int, window time.Duration, size int) (*sendLimiterImpl, *fakeClock) {
	t.Helper()
	initTestEnv()
	l, err := NewSendLimiter(nil, limit, window, size)
	require.NoError(t, err)
	impl := l.(*sendLimiterImpl)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	impl.now = clock.Now
	return impl, clock
}

func TestSendLimiter_LocalWindow(t *testing.T) {
	ctx := context.Background()
	l, clock := newLocalLimiter(t, 3, time.Minute, 100)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
		clock.Advance(time.Second)
	}

	ok, err := l.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "fourth attempt inside the window is throttled")

	// 其他用户互不影响
	ok, _ = l.Allow(ctx, 2)
	assert.True(t, ok)

	// 第一条记录滑出窗口后恢复一个名额
	clock.Advance(57 * time.Second)
	ok, _ = l.Allow(ctx, 1)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, 1)
	assert.False(t, ok)
}

func TestSendLimiter_RejectedAttemptsAreNotCounted(t *testing.T) {
	ctx := context.Background()
	l, clock := newLocalLimiter(t, 1, time.Minute, 100)

	ok, _ := l.Allow(ctx, 1)
	require.True(t, ok)

	// 窗口内反复被拒，不延长限流时间
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		ok, _ = l.Allow(ctx, 1)
		assert.False(t, ok)
	}

	clock.Advance(11 * time.Second)
	ok, _ = l.Allow(ctx, 1)
	assert.True(t, ok)
}

func TestSendLimiter_LRUEvictionResetsWindow(t *testing.T) {
	ctx := context.Background()
	l, _ := newLocalLimiter(t, 1, time.Minute, 1)

	ok, _ := l.Allow(ctx, 1)
	require.True(t, ok)
	ok, _ = l.Allow(ctx, 2) // 挤出用户 1
	require.True(t, ok)

	ok, _ = l.Allow(ctx, 1)
	assert.True(t, ok)
}
