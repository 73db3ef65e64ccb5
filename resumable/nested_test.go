package resumable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	fnWaits Func = iota + 1
	fnYield
	fnOuter
	fnInner
	fnCountdown
)

type fixture struct {
	*Nested

	log        []string
	p1, p2     bool
	innerDepth int
	remaining  int
}

func newFixture(levels int) *fixture {
	return &fixture{Nested: NewNested(levels), innerDepth: -2}
}

// waits: a; wait p1; b; wait p2; c; return len(log)
func (p *fixture) waits() Result[int] {
	fr := p.Begin(fnWaits)
	if fr.Faulted() {
		return Fault[int]()
	}
	defer fr.End()

	switch fr.Resume() {
	case Start:
		p.log = append(p.log, "a")
		fr.Mark(1)
		fallthrough
	case 1:
		if !p.p1 {
			return Running[int]()
		}
		p.log = append(p.log, "b")
		fr.Mark(2)
		fallthrough
	case 2:
		if !p.p2 {
			return Running[int]()
		}
		p.log = append(p.log, "c")
		return Return(fr, len(p.log))
	}
	return Invalid[int](fr)
}

func (p *fixture) yields() Result[Void] {
	fr := p.Begin(fnYield)
	if fr.Faulted() {
		return Fault[Void]()
	}
	defer fr.End()

	switch fr.Resume() {
	case Start:
		p.log = append(p.log, "before")
		fr.Mark(1)
		return Running[Void]()
	case 1:
		p.log = append(p.log, "after")
		return Exit(fr)
	}
	return Invalid[Void](fr)
}

func (p *fixture) inner() Result[int] {
	fr := p.Begin(fnInner)
	if fr.Faulted() {
		return Fault[int]()
	}
	defer fr.End()

	switch fr.Resume() {
	case Start:
		p.innerDepth = p.Depth()
		p.log = append(p.log, "inner")
		fr.Mark(1)
		fallthrough
	case 1:
		if !p.p1 {
			return Running[int]()
		}
		return Return(fr, 41)
	}
	return Invalid[int](fr)
}

func (p *fixture) outer() Result[int] {
	fr := p.Begin(fnOuter)
	if fr.Faulted() {
		return Fault[int]()
	}
	defer fr.End()

	switch fr.Resume() {
	case Start:
		p.log = append(p.log, "outer")
		fr.Mark(1)
		fallthrough
	case 1:
		r := p.inner()
		if !r.IsDone() {
			return Forward[int](r)
		}
		return Return(fr, r.Value()+1)
	}
	return Invalid[int](fr)
}

func (p *fixture) countdown() Result[string] {
	fr := p.Begin(fnCountdown)
	if fr.Faulted() {
		return Fault[string]()
	}
	defer fr.End()

	switch fr.Resume() {
	case Start:
		fr.Mark(1)
		fallthrough
	case 1:
		if p.remaining > 0 {
			p.remaining--
			return Running[string]()
		}
		return Return(fr, "done")
	}
	return Invalid[string](fr)
}

func TestWaitPointsResumeInPlace(t *testing.T) {
	p := newFixture(1)

	for i := 0; i < 3; i++ {
		r := p.waits()
		require.True(t, r.IsRunning())
		require.Equal(t, []string{"a"}, p.log, "nothing after the wait may run")
	}

	p.p1 = true
	require.True(t, p.waits().IsRunning())
	require.Equal(t, []string{"a", "b"}, p.log, "statements before the wait must not rerun")

	p.p2 = true
	r := p.waits()
	require.True(t, r.IsDone())
	require.Equal(t, 3, r.Value())
	require.False(t, p.IsRunning())

	// idempotent restart
	r = p.waits()
	require.True(t, r.IsDone())
	require.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, p.log)
}

func TestYieldHandsBackOnce(t *testing.T) {
	p := newFixture(1)

	require.True(t, p.yields().IsRunning())
	require.Equal(t, []string{"before"}, p.log)
	require.True(t, p.yields().IsDone())
	require.Equal(t, []string{"before", "after"}, p.log)
	require.True(t, p.yields().IsRunning())
}

func TestNestedCallTracksCallee(t *testing.T) {
	p := newFixture(2)

	for i := 0; i < 4; i++ {
		r := p.outer()
		require.True(t, r.IsRunning(), "invocation %d", i)
		require.Equal(t, -1, p.Depth(), "depth must unwind after every call")
	}
	require.Equal(t, []string{"outer", "inner"}, p.log)
	require.Equal(t, 1, p.innerDepth)

	p.p1 = true
	r := p.outer()
	require.True(t, r.IsDone(), "callee Done must reach the caller in the same invocation")
	require.Equal(t, 42, r.Value())
	require.Equal(t, -1, p.Depth())
	require.False(t, p.IsRunning())
}

func TestDepthOverflowFaults(t *testing.T) {
	p := newFixture(1)

	r := p.outer()
	require.True(t, r.IsFault())
	require.ErrorIs(t, r.Err(), ErrNesting)
	require.Equal(t, -1, p.Depth())
	require.NotContains(t, p.log, "inner")
}

func TestIncompatibleReentryFaults(t *testing.T) {
	p := newFixture(2)

	require.True(t, p.waits().IsRunning())

	r := p.yields()
	require.True(t, r.IsFault(), "a running slot claimed by another function must fault")
	require.Equal(t, -1, p.Depth())
	require.Equal(t, []string{"a"}, p.log)

	// the suspended function is untouched
	p.p1, p.p2 = true, true
	w := p.waits()
	require.True(t, w.IsDone())
	require.Equal(t, []string{"a", "b", "c"}, p.log)
}

func TestStopAbandonsSuspendedFunction(t *testing.T) {
	p := newFixture(2)

	require.True(t, p.outer().IsRunning())
	require.True(t, p.IsRunning())

	p.Stop()
	require.False(t, p.IsRunning())

	require.True(t, p.yields().IsRunning(), "slot must be reusable after Stop")
}

func TestBlockDrivesToCompletion(t *testing.T) {
	p := newFixture(1)
	p.remaining = 5

	v, err := Block(p.countdown)
	require.NoError(t, err)
	require.Equal(t, "done", v)
	require.Equal(t, 0, p.remaining)

	q := newFixture(1)
	_, err = Block(q.outer)
	require.ErrorIs(t, err, ErrNesting)
}

func TestNewNestedRejectsZeroLevels(t *testing.T) {
	require.Panics(t, func() { NewNested(0) })
	require.Equal(t, 3, NewNested(3).Levels())
}
