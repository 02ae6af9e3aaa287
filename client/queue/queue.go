package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrShutdown is returned by tasks submitted after [Queue.Shutdown].
var ErrShutdown = errors.New("queue shut down")

// WorkFunc is the signature for queued work.
type WorkFunc func(ctx context.Context) error

// Queue manages work running on at most maxConcurrent goroutines.
type Queue struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	sem      chan struct{}
	shutdown bool
}

// New creates a Queue with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func New(maxConcurrent int) *Queue {
	q := &Queue{}
	if maxConcurrent > 0 {
		q.sem = make(chan struct{}, maxConcurrent)
	}
	return q
}

// Go launches fn in a new goroutine managed by the queue and returns
// a Task for tracking it. Work submitted after Shutdown is not run and
// its Task fails with ErrShutdown.
func (q *Queue) Go(ctx context.Context, fn WorkFunc) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	q.mu.Lock()
	if q.shutdown {
		q.mu.Unlock()
		cancel()
		t.err = ErrShutdown
		close(t.done)
		return t
	}
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			close(t.done)
			q.wg.Done()
		}()

		if q.sem != nil {
			select {
			case q.sem <- struct{}{}:
				defer func() {
					<-q.sem
				}()
			case <-ctx.Done():
				t.err = ctx.Err()
				return
			}
		}

		t.err = fn(ctx)
	}()

	return t
}

// Shutdown stops the queue from accepting new work. Work already
// accepted still runs.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.shutdown = true
}

// Wait blocks until all accepted work completes or ctx ends.
func (q *Queue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
