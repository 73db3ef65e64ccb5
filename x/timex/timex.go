package timex

import (
	"time"

	"coopdev-go/x/mathx"
)

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// TicksIn returns how many periods of freqHz cover d, rounded up so a
// deadline built from it never fires early. d<=0 yields 0.
func TicksIn(d time.Duration, freqHz uint32) uint64 {
	if d <= 0 {
		return 0
	}
	return mathx.CeilDiv(uint64(d), PeriodFromHz(freqHz))
}
