package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrShutdownTimeout is returned when tasks don't stop within timeout.
var ErrShutdownTimeout = errors.New("worker pool shutdown timed out")

// ErrPoolStopped is returned when submitting to a stopped pool.
var ErrPoolStopped = errors.New("worker pool is stopped")

// Task is a unit of detached background work. The context is the pool's,
// not the submitting request's, and is cancelled only on shutdown.
type Task func(ctx context.Context) error

// Pool runs fire-and-forget tasks. Each submission gets its own goroutine:
// there is no queue, no concurrency cap and no deduplication.
type Pool struct {
	logger *slog.Logger

	mu      sync.Mutex
	stopped bool
	running atomic.Int64

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool.
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go starts task in the background and returns immediately. The outcome is
// only ever written to the log.
func (p *Pool) Go(name string, task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}

	p.wg.Add(1)
	p.running.Add(1)
	go p.run(name, task)

	return nil
}

// Running returns the number of tasks currently executing.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Stop cancels in-flight tasks and waits for them to return.
func (p *Pool) Stop(timeout time.Duration) error {
	p.logger.Info("stopping worker pool", "running", p.Running())

	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped gracefully")
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (p *Pool) run(name string, task Task) {
	defer p.wg.Done()
	defer p.running.Add(-1)

	logger := p.logger.With("task", name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("background task panicked", "panic", fmt.Sprint(r))
		}
	}()

	start := time.Now()
	if err := task(p.ctx); err != nil {
		logger.Error("background task failed",
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	logger.Info("background task completed", "duration", time.Since(start))
}
