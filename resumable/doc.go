// Package resumable lets driver code be written as sequential procedures
// that suspend at explicit points and later continue exactly where they
// stopped, without a goroutine per operation and without allocating per
// call.
//
// A resumable function is a method that returns a Result. Its body is a
// switch over the Marker stored for its nesting depth; each suspension
// point records a fresh Marker with Frame.Mark and falls through into the
// case that re-checks it:
//
//	const (
//		fnRead resumable.Func = iota + 1
//	)
//
//	func (d *Dev) Read() resumable.Result[uint16] {
//		fr := d.rf.Begin(fnRead)
//		if fr.Faulted() {
//			return resumable.Fault[uint16]()
//		}
//		defer fr.End()
//
//		switch fr.Resume() {
//		case resumable.Start:
//			d.timeout.Restart(5)
//			fr.Mark(1)
//			fallthrough
//		case 1: // wait until the conversion time has passed
//			if !d.timeout.IsExpired() {
//				return resumable.Running[uint16]()
//			}
//			fr.Mark(2)
//			fallthrough
//		case 2: // nested call
//			r := d.bus.Transfer(d.w[:1], d.r[:2])
//			if !r.IsDone() {
//				return resumable.Forward[uint16](r)
//			}
//			return resumable.Return(fr, uint16(d.r[0])<<8|uint16(d.r[1]))
//		}
//		return resumable.Invalid[uint16](fr)
//	}
//
// Statements before a Mark never run again on later invocations. Reaching
// Return resets the slot so the next invocation restarts from the top.
//
// A nested call runs one depth deeper on the same Nested. While it reports
// Running the caller stays parked on the Marker set before the call and
// also reports Running; the call's Done value is seen by the caller in the
// same invocation that produced it.
//
// Entering a depth that is exhausted, or a slot that is suspended inside
// another function, yields a NestingError fault. Faults propagate through
// Forward and must reach the top-level caller; they are never retried as
// Running.
//
// Re-entry is recognised by Func only. Two callers invoking the same
// function on the same object share its slot: both drive one activation
// and either may receive its Done. Each object with resumable state must
// therefore have one logical caller, such as a single protothread.
//
// Functions is the flat form for objects whose resumable functions never
// call one another: every Func owns a slot, so several can be suspended at
// the same time.
package resumable
