// Package timer provides duration-expiry queries on top of a tick Source.
//
// All queries are pure reads of the clock plus the timer's own fields; none
// of them block. Elapsed time is computed as now-start on the tick width, so
// a timer armed shortly before the counter wraps still expires on time.
package timer

import (
	"coopdev-go/clock"

	"golang.org/x/exp/constraints"
)

// State of a Timeout or PeriodicTimer.
type State uint8

const (
	Stopped State = iota
	Armed
	Expired
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Armed:
		return "armed"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Timeout reports when a duration has elapsed since the last Restart.
// A Timeout with only Src set is Stopped.
type Timeout[T constraints.Unsigned] struct {
	Src clock.Source[T]

	start T
	dur   T
	armed bool
	fired bool
}

// NewTimeout returns a Timeout armed for d ticks from now.
func NewTimeout[T constraints.Unsigned](src clock.Source[T], d T) Timeout[T] {
	t := Timeout[T]{Src: src}
	t.Restart(d)
	return t
}

// Restart arms the timeout for d ticks starting now. d == 0 expires
// immediately.
func (t *Timeout[T]) Restart(d T) {
	t.start = t.Src.Now()
	t.dur = d
	t.armed = true
	t.fired = false
}

// Stop disarms the timeout.
func (t *Timeout[T]) Stop() {
	t.armed = false
	t.fired = false
}

func (t *Timeout[T]) elapsed() T { return clock.Elapsed(t.start, t.Src.Now()) }

// IsExpired reports whether at least the armed duration has elapsed.
// A stopped timeout is never expired.
func (t *Timeout[T]) IsExpired() bool {
	return t.armed && t.elapsed() >= t.dur
}

// IsArmed reports whether the timeout is running and not yet expired.
func (t *Timeout[T]) IsArmed() bool {
	return t.armed && t.elapsed() < t.dur
}

func (t *Timeout[T]) IsStopped() bool { return !t.armed }

func (t *Timeout[T]) State() State {
	switch {
	case !t.armed:
		return Stopped
	case t.elapsed() >= t.dur:
		return Expired
	default:
		return Armed
	}
}

// Execute returns true exactly once: on the first call that observes the
// timeout as expired.
func (t *Timeout[T]) Execute() bool {
	if t.fired || !t.IsExpired() {
		return false
	}
	t.fired = true
	return true
}

// Remaining returns the ticks left until expiry; negative when overdue and 0
// when stopped.
func (t *Timeout[T]) Remaining() int64 {
	if !t.armed {
		return 0
	}
	return int64(t.dur) - int64(t.elapsed())
}
