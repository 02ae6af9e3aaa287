// Package queue runs work on a bounded set of goroutines and lets the
// owner drain everything it has accepted before shutting down.
//
//	q := queue.New(5)
//	t := q.Go(ctx, func(ctx context.Context) error { ... })
//	if err := t.Err(); err != nil { ... }
//
//	q.Shutdown()
//	err := q.Wait(ctx) // blocks until accepted work finishes
package queue
