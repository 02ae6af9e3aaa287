package queue

import "context"

// Task represents in-flight or completed queued work.
type Task struct {
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// Done returns a channel that is closed when the work completes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err blocks until the work completes and returns its error.
func (t *Task) Err() error {
	<-t.done
	return t.err
}

// Cancel cancels the work's context.
func (t *Task) Cancel() {
	t.cancel()
}
