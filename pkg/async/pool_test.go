package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"SocialServer/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSafeWithoutPoolRunsInline(t *testing.T) {
	require.NoError(t, Release())

	ran := false
	ctx := context.WithValue(context.Background(), "trace_id", "t-9")
	RunSafe(ctx, func(runCtx context.Context) {
		ran = true
		assert.Equal(t, "t-9", runCtx.Value("trace_id"))
	}, 0)
	assert.True(t, ran)
}

func TestRunSafeRecoversPanic(t *testing.T) {
	require.NoError(t, Release())

	assert.NotPanics(t, func() {
		RunSafe(context.Background(), func(context.Context) { panic("boom") }, time.Second)
	})
}

func TestRunSafeOnPool(t *testing.T) {
	cfg := config.DefaultAsyncConfig()
	cfg.PoolSize = 2
	require.NoError(t, Init(cfg))
	defer func() { require.NoError(t, Release()) }()

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		RunSafe(context.Background(), func(context.Context) { wg.Done() }, time.Second)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("tasks did not finish")
	}
}

func TestPropagatorDropsCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), "user_id", int64(7)))
	cancel()

	ctx := ContextPropagator(parent)
	assert.NoError(t, ctx.Err())
	assert.Equal(t, int64(7), ctx.Value("user_id"))
}
