// Package clock provides the process-wide monotonic tick counter.
//
// The counter is incremented exactly once per fixed interval from interrupt
// context (on a host, from the goroutine started by Drive) and may be read
// from anywhere. It wraps at 2^32; consumers compare ticks with unsigned
// subtraction on the same width:
//
//	elapsed := c.Now() - start // wrap-safe
//
// A stalled increment source is not detected.
package clock

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"
)

// Tick is the native counter width.
type Tick = uint32

// Source yields the current time in ticks of width T.
type Source[T constraints.Unsigned] interface {
	Now() T
}

// Clock is a single-writer, multi-reader tick counter. The zero value is
// ready to use and starts at tick 0.
type Clock struct {
	ticks atomic.Uint32
}

// Increment advances the counter by one tick. Interrupt-side entry point.
func (c *Clock) Increment() { c.ticks.Add(1) }

// Now returns the current tick.
func (c *Clock) Now() Tick { return c.ticks.Load() }

// Set forces the counter to t. Intended for tests and simulation only.
func (c *Clock) Set(t Tick) { c.ticks.Store(t) }

// Short is a 16-bit view of a Clock; it wraps at 2^16.
type Short struct {
	Src Source[Tick]
}

func (s Short) Now() uint16 { return uint16(s.Src.Now()) }

// Elapsed returns now-since on width T, correct across one wraparound.
func Elapsed[T constraints.Unsigned](since, now T) T { return now - since }

// Default is the process-wide clock. It lives for the whole process and is
// never reset.
var Default = &Clock{}

// Now reads the default clock.
func Now() Tick { return Default.Now() }

// Increment advances the default clock.
func Increment() { Default.Increment() }
