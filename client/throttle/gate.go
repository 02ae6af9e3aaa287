package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate is a burst-window limiter shared by every call made through one
// client. The zero value is not usable; construct one with [New].
type Gate struct {
	rate     float64
	burst    int
	interval time.Duration

	// window hands out one token per burst window. Its reservations
	// yield the time still owed on the previous window.
	window *rate.Limiter

	logFn func() *slog.Logger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// sem is the critical section around the read-decide-wait-write
	// sequence in Admit. Everything below it is owned by the holder.
	sem         chan struct{}
	count       int
	windowStart time.Time
	waits       int
	waited      time.Duration

	mu   sync.Mutex
	snap Window
}

// New returns a Gate admitting maxBurst calls per maxBurst/maxRate seconds.
// logFn lazily resolves the logger when a wait is incurred, a nil logFn or
// a nil-returning logFn disables the wait log. A non-positive maxRate or
// maxBurst returns a disabled Gate. A window too long for a time.Duration
// (see [WindowLength]) is capped at the longest one, so a full burst
// is never followed by another.
func New(maxRate float64, maxBurst int, logFn func() *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		rate:  maxRate,
		burst: maxBurst,
		logFn: logFn,
		now:   time.Now,
		sleep: sleep,
		sem:   make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.Enabled() {
		interval, err := WindowLength(maxRate, maxBurst)
		if err != nil {
			interval = time.Duration(math.MaxInt64)
		}
		g.interval = interval
		g.window = rate.NewLimiter(rate.Every(g.interval), 1)
	}

	return g
}

// Enabled reports whether the Gate ever delays a call.
func (g *Gate) Enabled() bool {
	return g != nil && g.rate > 0 && g.burst > 0
}

// Interval returns the minimum time a full burst window spans.
func (g *Gate) Interval() time.Duration {
	if !g.Enabled() {
		return 0
	}

	return g.interval
}

// Admit blocks until the caller may dispatch its call. It never rejects
// a call because of rate pressure. An error is returned only when ctx
// ends first, in which case the call was not admitted and the window
// is left as it was.
func (g *Gate) Admit(ctx context.Context) error {
	if !g.Enabled() {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrContextEnded, ctx.Err())
	}
	defer func() { <-g.sem }()

	if g.count == 0 || g.count >= g.burst {
		if err := g.open(ctx); err != nil {
			return err
		}
	}

	g.count++
	g.publish()

	return nil
}

// Stats returns a snapshot of the current window.
func (g *Gate) Stats() Window {
	if !g.Enabled() {
		return Window{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snap
}

// open starts a new burst window, first waiting out whatever is left of
// the previous one. Must be called with sem held.
func (g *Gate) open(ctx context.Context) error {
	now := g.now()

	r := g.window.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	if rem := wait % time.Microsecond; rem > 0 && wait < math.MaxInt64-time.Microsecond {
		wait += time.Microsecond - rem // never cut a window short
	}

	if wait > 0 {
		if logger := g.logger(); logger != nil {
			logger.Warn("rate limited", "wait", wait.String(), "rate", g.rate, "burst", g.burst, "admitted", g.count)
		}

		if err := g.sleep(ctx, wait); err != nil {
			r.CancelAt(g.now())
			return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
		}

		g.waits++
		g.waited += wait
	}

	g.count = 0
	g.windowStart = now.Add(wait)

	return nil
}

func (g *Gate) publish() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.snap = Window{
		Count:  g.count,
		Start:  g.windowStart,
		Waits:  g.waits,
		Waited: g.waited,
	}
}

func (g *Gate) logger() *slog.Logger {
	if g.logFn == nil {
		return nil
	}

	return g.logFn()
}
