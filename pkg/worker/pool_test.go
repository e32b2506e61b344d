package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryTask(t *testing.T) {
	pool, err := NewPool(Config{Slots: 4})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	var ran atomic.Int64
	for i := 0; i < 32; i++ {
		require.NoError(t, pool.Go(Task{
			ID: i,
			Execute: func(ctx context.Context) {
				ran.Add(1)
			},
		}))
	}
	pool.Wait()

	assert.Equal(t, int64(32), ran.Load())
	stats := pool.Stats()
	assert.Equal(t, int64(32), stats.Launched)
	assert.Equal(t, int64(32), stats.Completed)
	assert.Equal(t, int32(0), stats.Active)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const slots = 3

	pool, err := NewPool(Config{Slots: slots})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	var active, peak atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Go(Task{
			ID: i,
			Execute: func(ctx context.Context) {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
			},
		}))
	}
	pool.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(slots),
		"no more than %d tasks may hold a slot at once", slots)
	assert.LessOrEqual(t, pool.Stats().Peak, int32(slots))
}

func TestPoolCancelledTasksStillRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	pool, err := NewPool(Config{Slots: 1})
	require.NoError(t, err)
	require.NoError(t, pool.Start(ctx))

	var mu sync.Mutex
	var cancelled int
	release := make(chan struct{})

	// Occupy the only slot so the rest pile up on admission.
	require.NoError(t, pool.Go(Task{
		ID: 0,
		Execute: func(ctx context.Context) {
			<-release
		},
	}))
	for i := 1; i <= 5; i++ {
		require.NoError(t, pool.Go(Task{
			ID: i,
			Execute: func(ctx context.Context) {
				if ctx.Err() != nil {
					mu.Lock()
					cancelled++
					mu.Unlock()
				}
			},
		}))
	}

	cancel()
	close(release)
	pool.Wait()

	// Every launched task executed, and those that never got a slot saw
	// the cancelled context.
	stats := pool.Stats()
	assert.Equal(t, int64(6), stats.Completed)
	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, cancelled, 1)
}

func TestPoolLifecycleErrors(t *testing.T) {
	t.Run("go before start", func(t *testing.T) {
		pool, err := NewPool(Config{Slots: 1})
		require.NoError(t, err)
		assert.Error(t, pool.Go(Task{Execute: func(context.Context) {}}))
	})

	t.Run("double start", func(t *testing.T) {
		pool, err := NewPool(Config{Slots: 1})
		require.NoError(t, err)
		require.NoError(t, pool.Start(context.Background()))
		assert.Error(t, pool.Start(context.Background()))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewPool(Config{Slots: 0})
		assert.Error(t, err)

		_, err = NewPool(Config{Slots: 1, RateLimit: -1})
		assert.Error(t, err)
	})
}

func TestPoolRateLimit(t *testing.T) {
	pool, err := NewPool(Config{Slots: 4, RateLimit: 100})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Go(Task{ID: i, Execute: func(context.Context) {}}))
	}
	pool.Wait()

	// 10 starts at 100/sec burst 1 need at least ~90ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}
