package resumable

import "runtime"

// Marker names a suspension point inside one resumable function body.
// Start means the body has not started.
type Marker uint8

const Start Marker = 0

// Func identifies a resumable function among those sharing a Nested.
// Two functions of one object must use different values.
type Func uint8

type slot struct {
	marker  Marker
	fn      Func
	running bool
}

// Nested holds the per-object resumption state: one slot per nesting depth.
// The slot array is sized once at construction and never grows; the owning
// type decides how deep its call chains go.
type Nested struct {
	level int
	slots []slot
}

// NewNested returns state for call chains up to levels deep.
func NewNested(levels int) *Nested {
	if levels < 1 {
		panic("resumable: nesting levels must be at least 1")
	}
	return &Nested{slots: make([]slot, levels)}
}

// Levels returns the static capacity.
func (n *Nested) Levels() int { return len(n.slots) }

// Depth returns the depth of the function currently executing, or -1 when
// called outside any resumable function.
func (n *Nested) Depth() int { return n.level - 1 }

// IsRunning reports whether a function is suspended at the current depth.
func (n *Nested) IsRunning() bool {
	return n.level < len(n.slots) && n.slots[n.level].running
}

// Stop abandons every function suspended at or below the current depth.
// Only safe when none of them holds a resource such as an acquired bus.
func (n *Nested) Stop() {
	for i := n.level; i < len(n.slots); i++ {
		n.slots[i] = slot{}
	}
}

// Begin enters fn at the next depth. The returned Frame is faulted, and
// nothing is pushed, when the depth is exhausted or when the slot is
// suspended inside a different function.
//
//	fr := d.Begin(fnRead)
//	if fr.Faulted() {
//		return resumable.Fault[bool]()
//	}
//	defer fr.End()
//	switch fr.Resume() {
//	case resumable.Start:
//		...
//		fr.Mark(1)
//		fallthrough
//	case 1:
//		if !ready() {
//			return resumable.Running[bool]()
//		}
//		return resumable.Return(fr, true)
//	}
//	return resumable.Invalid[bool](fr)
func (n *Nested) Begin(fn Func) Frame {
	if n.level >= len(n.slots) {
		return Frame{}
	}
	s := &n.slots[n.level]
	if s.running && s.fn != fn {
		return Frame{}
	}
	if !s.running {
		*s = slot{fn: fn, running: true}
	}
	f := Frame{s: s, level: &n.level, depth: n.level}
	n.level++
	return f
}

// Frame is one activation of a resumable function. For a Nested it sits at
// a fixed depth; for Functions the depth is always 0.
type Frame struct {
	s     *slot
	level *int
	depth int
}

// Faulted reports that Begin refused the activation; nothing was pushed.
func (f Frame) Faulted() bool { return f.s == nil }

// Depth of this activation.
func (f Frame) Depth() int { return f.depth }

// Resume returns the marker to continue from.
func (f Frame) Resume() Marker { return f.s.marker }

// Mark records m as the point the next invocation resumes at. It must be
// set before any statement that may suspend, including nested calls.
func (f Frame) Mark(m Marker) {
	f.s.marker = m
	f.s.running = true
}

// End pops the activation. Call it exactly once per successful Begin.
func (f Frame) End() {
	if f.level != nil {
		*f.level--
	}
}

func (f Frame) stop() { *f.s = slot{} }

// Return finishes the body: the slot goes back to Idle so the next external
// invocation starts from the top, and v is delivered to the caller.
func Return[T any](f Frame, v T) Result[T] {
	f.stop()
	return Done(v)
}

// Exit is Return for functions without a payload.
func Exit(f Frame) Result[Void] { return Return(f, Void{}) }

// Invalid handles a marker the body does not know. The slot is reset and
// the call faults.
func Invalid[T any](f Frame) Result[T] {
	f.stop()
	return Fault[T]()
}

// Block invokes call until it stops reporting Running. Use outside any
// resumable body only (initialisation code, tests); it busy-waits.
func Block[T any](call func() Result[T]) (T, error) {
	for {
		r := call()
		if !r.IsRunning() {
			return r.Value(), r.Err()
		}
		runtime.Gosched()
	}
}
