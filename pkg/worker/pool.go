/*
Package worker provides a bounded-admission task pool with rate limiting and
context cancellation support.

Unlike a queue-fed pool, tasks are launched immediately and block on slot
acquisition internally: the pool bounds how many tasks run simultaneously,
not how many exist. A task launched after cancellation still runs, but with
the cancelled context, so the caller can observe and record its outcome. Wait
drains every launched task, including cancelled ones.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Slots:     4,
		RateLimit: 10, // 10 task starts/sec, 0 for unlimited
	})

	ctx := context.Background()
	pool.Start(ctx)

	for i, path := range paths {
		pool.Go(worker.Task{
			ID: i,
			Execute: func(ctx context.Context) {
				// Task implementation
			},
		})
	}

	pool.Wait()
*/
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Task represents a unit of work admitted by the pool
type Task struct {
	// ID uniquely identifies the task
	ID int

	// Execute is the function that performs the actual work. It receives
	// the pool's context; a cancelled context means the task should record
	// itself as cancelled rather than do its work.
	Execute func(context.Context)
}

// Config holds the configuration for the worker pool
type Config struct {
	// Slots is the number of tasks allowed to run simultaneously
	Slots int

	// RateLimit is the maximum number of task starts per second (0 for unlimited)
	RateLimit int
}

// Stats holds a snapshot of pool counters
type Stats struct {
	// Active is the number of tasks currently holding a slot
	Active int32

	// Peak is the highest number of slots held simultaneously
	Peak int32

	// Launched is the total number of tasks handed to Go
	Launched int64

	// Completed is the total number of tasks whose Execute returned
	Completed int64
}

// Pool defines the interface for the bounded-admission pool
type Pool interface {
	// Start binds the pool to a context. Must be called before Go.
	Start(context.Context) error

	// Go launches a task immediately; the task blocks on slot acquisition
	// internally
	Go(Task) error

	// Wait blocks until every launched task has finished
	Wait()

	// Stats returns current pool counters
	Stats() Stats
}

// pool implements the Pool interface
type pool struct {
	config  Config
	slots   chan struct{}
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context

	mu      sync.Mutex
	started bool

	active    atomic.Int32
	peak      atomic.Int32
	launched  atomic.Int64
	completed atomic.Int64
}

// NewPool creates a new pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		slots:   make(chan struct{}, config.Slots),
		limiter: limiter,
	}, nil
}

// validateConfig checks if the pool configuration is valid
func validateConfig(config Config) error {
	if config.Slots <= 0 {
		return fmt.Errorf("number of slots must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Start binds the pool to a context
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx = ctx
	p.started = true
	return nil
}

// Go launches a task. The task goroutine acquires a slot before executing;
// if the context is cancelled first, Execute still runs with the cancelled
// context (without holding a slot) so the caller can record the outcome.
func (p *pool) Go(task Task) error {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return fmt.Errorf("pool not started")
	}

	p.launched.Add(1)
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		defer p.completed.Add(1)

		select {
		case p.slots <- struct{}{}:
		case <-p.ctx.Done():
			task.Execute(p.ctx)
			return
		}
		defer func() {
			p.active.Add(-1)
			<-p.slots
		}()

		n := p.active.Add(1)
		for {
			peak := p.peak.Load()
			if n <= peak || p.peak.CompareAndSwap(peak, n) {
				break
			}
		}

		if p.limiter != nil {
			_ = p.limiter.Wait(p.ctx)
		}

		task.Execute(p.ctx)
	}()

	return nil
}

// Wait blocks until every launched task has finished, cancelled ones
// included
func (p *pool) Wait() {
	p.wg.Wait()
}

// Stats returns current pool counters
func (p *pool) Stats() Stats {
	return Stats{
		Active:    p.active.Load(),
		Peak:      p.peak.Load(),
		Launched:  p.launched.Load(),
		Completed: p.completed.Load(),
	}
}
