package client

import (
	"context"

	"github.com/adamwoolhether/goluno/client/queue"
)

// Pending is a call running on the Client's worker queue.
type Pending struct {
	task *queue.Task
	done chan struct{} // only for calls rejected before queuing

	ran bool
	res *Result
	err error
}

// DispatchAsync runs [Client.Dispatch] on the Client's bounded worker
// queue. Calls queued before [Client.Close] still run; later ones fail
// with [ErrClosed].
func (c *Client) DispatchAsync(ctx context.Context, spec Spec) *Pending {
	if err := validateSpec(&spec); err != nil {
		return failed(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return failed(ErrClosed)
	}

	p := &Pending{}
	p.task = c.queue.Go(ctx, func(ctx context.Context) error {
		p.ran = true
		p.res, p.err = c.dispatch(ctx, spec)
		return p.err
	})

	return p
}

func failed(err error) *Pending {
	p := &Pending{
		done: make(chan struct{}),
		ran:  true,
		err:  err,
	}
	close(p.done)

	return p
}

// Done returns a channel closed once the call has finished.
func (p *Pending) Done() <-chan struct{} {
	if p.task == nil {
		return p.done
	}

	return p.task.Done()
}

// Result blocks until the call finishes and returns what
// [Client.Dispatch] would have.
func (p *Pending) Result() (*Result, error) {
	<-p.Done()

	if !p.ran {
		// Cancelled while waiting for a worker.
		return nil, transportErr(p.task.Err())
	}

	return p.res, p.err
}

// Cancel cancels the call's context.
func (p *Pending) Cancel() {
	if p.task != nil {
		p.task.Cancel()
	}
}
