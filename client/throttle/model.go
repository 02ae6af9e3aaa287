package throttle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrWaitingFailed = errors.New("gate waiting failed")
	ErrContextEnded  = errors.New("gate context ended")
	ErrWindowTooLong = errors.New("burst window does not fit a time.Duration")
)

// WindowLength returns how long a window of maxBurst calls at maxRate
// calls per second spans, zero when either disables the gate.
func WindowLength(maxRate float64, maxBurst int) (time.Duration, error) {
	if math.IsNaN(maxRate) {
		return 0, fmt.Errorf("%w: rate is not a number", ErrWindowTooLong)
	}
	if maxRate <= 0 || maxBurst <= 0 {
		return 0, nil
	}

	// float64(math.MaxInt64) rounds up to 2^63, so >= is exact.
	ns := float64(maxBurst) / maxRate * float64(time.Second)
	if ns >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d calls at %g per second", ErrWindowTooLong, maxBurst, maxRate)
	}

	return time.Duration(ns), nil
}

// Window is a point-in-time view of a Gate's burst window.
type Window struct {
	Count  int           // calls admitted in the current window
	Start  time.Time     // when the current window opened
	Waits  int           // consolidated waits paid so far
	Waited time.Duration // total time spent waiting
}

// Option configures a [Gate].
type Option func(*Gate)

// WithClock replaces the wall clock used to measure the burst window.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSleep replaces the function used to wait out a burst window.
// fn must return ctx.Err() if ctx ends before d has elapsed.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Gate) {
		if fn != nil {
			g.sleep = fn
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
