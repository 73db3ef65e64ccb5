package timer

import (
	"coopdev-go/clock"

	"golang.org/x/exp/constraints"
)

// PeriodicTimer fires once per period. Missed periods are skipped rather
// than replayed, and the firing phase is kept: after a late Execute the next
// deadline is the first period boundary strictly after now.
type PeriodicTimer[T constraints.Unsigned] struct {
	t Timeout[T]
}

// NewPeriodic returns a timer armed to first fire period ticks from now.
func NewPeriodic[T constraints.Unsigned](src clock.Source[T], period T) PeriodicTimer[T] {
	return PeriodicTimer[T]{t: NewTimeout(src, period)}
}

// Restart re-arms with a new period starting now.
func (p *PeriodicTimer[T]) Restart(period T) { p.t.Restart(period) }

func (p *PeriodicTimer[T]) Stop()            { p.t.Stop() }
func (p *PeriodicTimer[T]) IsStopped() bool  { return p.t.IsStopped() }
func (p *PeriodicTimer[T]) State() State     { return p.t.State() }
func (p *PeriodicTimer[T]) Remaining() int64 { return p.t.Remaining() }

// Execute reports whether the period has elapsed and, if so, re-arms.
func (p *PeriodicTimer[T]) Execute() bool {
	t := &p.t
	if !t.armed || t.dur == 0 {
		return t.armed
	}
	el := t.elapsed()
	if el < t.dur {
		return false
	}
	t.start += (el / t.dur) * t.dur
	return true
}
