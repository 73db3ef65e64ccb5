// Package protothread is the depth-one form of the resumable runtime: one
// perpetual control loop per device, invoked over and over by a super loop.
//
// Run reads like an infinite loop with blocking waits but performs a bounded
// amount of work per call and returns:
//
//	func (b *Blinker) Run() bool {
//		switch b.Resume() {
//		case protothread.Start:
//			b.led.Toggle()
//			b.timeout.Restart(500)
//			b.Mark(1)
//			fallthrough
//		case 1:
//			if !b.timeout.IsExpired() {
//				return true
//			}
//			return b.Done()
//		}
//		return b.Exit()
//	}
package protothread

import (
	"coopdev-go/resumable"
)

// Start is the marker of a thread that has not started its body yet.
const Start = resumable.Start

// stopped is what Resume reports for a stopped thread; no body case uses it.
const stopped resumable.Marker = 0xFF

// Runner is anything the super loop can drive.
type Runner interface {
	Run() bool
}

// Thread keeps the single resume marker of a protothread. The zero value is
// a running thread at Start.
type Thread struct {
	marker  resumable.Marker
	stopped bool
	err     error
}

// Resume returns the marker to switch on. A stopped thread gets a marker no
// case matches, so its body falls through to Exit.
func (t *Thread) Resume() resumable.Marker {
	if t.stopped {
		return stopped
	}
	return t.marker
}

// Mark records the point the next Run resumes at.
func (t *Thread) Mark(m resumable.Marker) { t.marker = m }

// Done ends one pass of the body; the next Run starts again at the top.
// It reports true so a Run method can return it directly.
func (t *Thread) Done() bool {
	t.marker = Start
	return true
}

// Exit stops the thread and reports false.
func (t *Thread) Exit() bool {
	t.Stop()
	return false
}

// Restart clears any stop or fault and rewinds to Start.
func (t *Thread) Restart() {
	t.marker = Start
	t.stopped = false
	t.err = nil
}

// Stop parks the thread until Restart.
func (t *Thread) Stop() {
	t.marker = Start
	t.stopped = true
}

func (t *Thread) IsRunning() bool { return !t.stopped }

// Err returns the fault that stopped the thread, if any.
func (t *Thread) Err() error { return t.err }

// Await bridges into the nested engine. It reports the value and true once
// r is Done. A fault stops the thread and is kept in Err, so the super loop
// can surface it; callers then return t.IsRunning().
func Await[T any](t *Thread, r resumable.Result[T]) (T, bool) {
	if r.IsFault() {
		t.err = r.Err()
		t.Stop()
		var zero T
		return zero, false
	}
	if !r.IsDone() {
		var zero T
		return zero, false
	}
	return r.Value(), true
}

// Wait runs child once and reports true when it has exited, meaning its Run
// returned false. A child that exits with an error stops t and passes the
// error on through Err; callers then return t.IsRunning(), as with Await.
//
// Restart a child before the Mark that leads to Wait if it is to run again.
func Wait(t *Thread, child Runner) bool {
	if child.Run() {
		return false
	}
	if f, ok := child.(interface{ Err() error }); ok && f.Err() != nil {
		t.err = f.Err()
		t.Stop()
		return false
	}
	return true
}
