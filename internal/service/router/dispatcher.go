package router

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	"golang.org/x/sync/semaphore"
)

var ErrDispatcherClosed = errors.New("dispatcher closed")

// Handler processes a single message.
type Handler func(ctx context.Context, msg core.InboundMessage)

// Dispatcher runs each inbound message on its own goroutine, at most workers
// at a time. Messages outlive the delivery request that carried them, so they
// run on a context detached from the caller's cancellation.
type Dispatcher struct {
	handle  Handler
	sem     *semaphore.Weighted
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(workers int, timeout time.Duration, handle Handler) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		handle:  handle,
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: timeout,
	}
}

// Submit blocks until a worker slot frees up or ctx ends.
func (d *Dispatcher) Submit(ctx context.Context, msg core.InboundMessage) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.wg.Done()
		return err
	}

	workCtx := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				log.FromCtx(workCtx).Error().Interface("panic", r).Msg("message handler panicked")
			}
		}()

		if d.timeout > 0 {
			var cancel context.CancelFunc
			workCtx, cancel = context.WithTimeout(workCtx, d.timeout)
			defer cancel()
		}
		d.handle(workCtx, msg)
	}()
	return nil
}

func (d *Dispatcher) Start(ctx context.Context) error {
	return nil
}

// Shutdown stops accepting messages and waits for in-flight ones.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) Name() string {
	return "dispatcher"
}
