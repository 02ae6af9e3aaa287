// Package throttle provides [Gate], the admission control every outbound
// exchange call passes through before it is dispatched.
//
// A Gate admits calls in bursts. Up to maxBurst calls go out back-to-back;
// the call that finds the burst used up waits until maxBurst/maxRate has
// elapsed since the burst opened, then opens the next one. Over time this
// keeps the average at maxRate calls per second while letting short bursts
// through without delay.
//
// # Usage
//
//	g := throttle.New(1, 5, func() *slog.Logger { return slog.Default() })
//	if err := g.Admit(ctx); err != nil {
//		return err // ctx ended before the call was admitted
//	}
//
// A Gate built with a non-positive rate or burst is disabled and
// [Gate.Admit] returns immediately. A nil *Gate behaves the same way.
package throttle
