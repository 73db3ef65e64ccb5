package clock

import (
	"context"
	"time"

	"coopdev-go/x/timex"
)

// DefaultHz is the tick rate used when none is configured (1 ms ticks).
const DefaultHz = 1000

// Drive stands in for the periodic timer interrupt on a host: it increments c
// once per 1/hz seconds until ctx is done. It never touches any other state.
func Drive(ctx context.Context, c *Clock, hz uint32) error {
	t := time.NewTicker(TickPeriod(hz))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			c.Increment()
		}
	}
}

// TickPeriod is the length of one tick at hz.
func TickPeriod(hz uint32) time.Duration {
	if hz == 0 {
		hz = DefaultHz
	}
	return time.Duration(timex.PeriodFromHz(hz))
}

// Ticks converts a duration to whole ticks at hz, rounding up so a timeout
// never expires early. Zero stays zero.
func Ticks(d time.Duration, hz uint32) Tick {
	if hz == 0 {
		hz = DefaultHz
	}
	return Tick(timex.TicksIn(d, hz))
}
