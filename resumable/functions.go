package resumable

// Functions holds independent state for a fixed set of resumable functions
// that never call each other through this state. Each function owns the
// slot its Func indexes, so any number of them can be suspended at once.
//
// Use Nested instead when one resumable function of an object calls
// another: Functions does no depth tracking and cannot detect incompatible
// re-entry.
type Functions struct {
	slots []slot
}

// NewFunctions returns state for n functions, indexed 0 to n-1.
func NewFunctions(n int) *Functions {
	if n < 1 {
		panic("resumable: at least one function is required")
	}
	return &Functions{slots: make([]slot, n)}
}

// Len returns the number of functions.
func (fs *Functions) Len() int { return len(fs.slots) }

// Begin enters function id. The Frame is used exactly as with
// Nested.Begin; it is faulted only when id is out of range.
func (fs *Functions) Begin(id Func) Frame {
	if int(id) >= len(fs.slots) {
		return Frame{}
	}
	s := &fs.slots[id]
	if !s.running {
		*s = slot{fn: id, running: true}
	}
	return Frame{s: s}
}

// Stop abandons function id so its next invocation starts from the top.
// It reports false when id is out of range.
func (fs *Functions) Stop(id Func) bool {
	if int(id) >= len(fs.slots) {
		return false
	}
	fs.slots[id] = slot{}
	return true
}

// StopAll abandons every function.
func (fs *Functions) StopAll() {
	clear(fs.slots)
}

// IsRunning reports whether function id is suspended.
func (fs *Functions) IsRunning(id Func) bool {
	return int(id) < len(fs.slots) && fs.slots[id].running
}

// AnyRunning reports whether any of ids is suspended. With no ids it looks
// at every function.
func (fs *Functions) AnyRunning(ids ...Func) bool {
	if len(ids) == 0 {
		for _, s := range fs.slots {
			if s.running {
				return true
			}
		}
		return false
	}
	for _, id := range ids {
		if fs.IsRunning(id) {
			return true
		}
	}
	return false
}

// AllRunning reports whether every one of ids is suspended.
func (fs *Functions) AllRunning(ids ...Func) bool {
	for _, id := range ids {
		if !fs.IsRunning(id) {
			return false
		}
	}
	return true
}
