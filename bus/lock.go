// Package bus serialises access to one shared bus controller among drivers
// that each run their own resumable sequence.
//
// Acquire is a suspension point: it reports Running while another driver
// owns the bus and Done once the caller owns it. Every path out of a
// transaction, error paths included, must Release; a missing Release is not
// detectable here and starves every other driver on the bus.
//
// A Lock belongs to the single cooperative execution context. It is not safe
// for concurrent use from several goroutines.
package bus

import (
	"coopdev-go/resumable"
)

// Owner identifies a driver. Use a pointer to the driver so identities are
// distinct and comparable.
type Owner any

// Lock is the ownership token of one bus controller. The zero value is free.
type Lock struct {
	owner Owner
	count uint8
}

// Acquire claims the bus for o, or reports Running while another owner
// holds it. The current owner may acquire again; each Acquire needs its
// own Release.
func (l *Lock) Acquire(o Owner) resumable.Result[resumable.Void] {
	if l.TryAcquire(o) {
		return resumable.Done(resumable.Void{})
	}
	return resumable.Running[resumable.Void]()
}

// TryAcquire is the non-resumable form of Acquire.
func (l *Lock) TryAcquire(o Owner) bool {
	if o == nil {
		panic("bus: nil owner")
	}
	switch {
	case l.owner == nil:
		l.owner = o
		l.count = 1
		return true
	case l.owner == o && l.count < ^uint8(0):
		l.count++
		return true
	default:
		return false
	}
}

// Release gives back one acquisition by o. It reports true when the bus
// became free. Releases by a non-owner, and extra releases, change nothing.
func (l *Lock) Release(o Owner) bool {
	if o == nil || l.owner != o {
		return false
	}
	l.count--
	if l.count > 0 {
		return false
	}
	l.owner = nil
	return true
}

// Owner returns the current owner or nil.
func (l *Lock) Owner() Owner { return l.owner }

func (l *Lock) Held() bool { return l.owner != nil }
