package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coopdev-go/errcode"
	"coopdev-go/protothread"
	"coopdev-go/resumable"
)

func TestStepRunsTasksInOrder(t *testing.T) {
	var trace []string
	l := New().
		Add("a", TaskFunc(func() bool { trace = append(trace, "a"); return true })).
		Add("b", TaskFunc(func() bool { trace = append(trace, "b"); return true }))

	require.NoError(t, l.Step())
	require.NoError(t, l.Step())
	require.Equal(t, []string{"a", "b", "a", "b"}, trace)
	require.Equal(t, uint64(2), l.Passes())
	require.Equal(t, 2, l.Active())
}

func TestExitedTaskIsDropped(t *testing.T) {
	n := 0
	l := New().Add("three", TaskFunc(func() bool { n++; return n < 3 }))

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Step())
	}
	require.Equal(t, 3, n)
	require.Zero(t, l.Active())
}

func TestRunReturnsWhenAllExit(t *testing.T) {
	n := 0
	l := New().Add("five", TaskFunc(func() bool { n++; return n < 5 }))

	require.NoError(t, l.Run(context.Background()))
	require.Equal(t, 5, n)
}

func TestRunStopsOnCancel(t *testing.T) {
	l := New().Add("forever", TaskFunc(func() bool { return true }))
	l.Interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, l.Run(ctx), context.DeadlineExceeded)
	require.NotZero(t, l.Passes())
}

// faulty awaits a nested call that always overflows its depth.
type faulty struct {
	protothread.Thread
	calls int
}

func (f *faulty) Run() bool {
	switch f.Resume() {
	case protothread.Start:
		f.calls++
		if f.calls < 3 {
			return true
		}
		f.Mark(1)
		fallthrough
	case 1:
		if _, ok := protothread.Await(&f.Thread, resumable.Fault[int]()); !ok {
			return f.IsRunning()
		}
		return f.Done()
	}
	return f.Exit()
}

func TestFaultSurfacesFromRun(t *testing.T) {
	other := 0
	f := &faulty{}
	l := New().
		Add("faulty", f).
		Add("other", TaskFunc(func() bool { other++; return true }))

	err := l.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, errcode.Nesting)
	require.Equal(t, errcode.Nesting, errcode.Of(err))
	require.Contains(t, err.Error(), "faulty")
	require.Equal(t, 2, other, "the pass stops at the faulting task")
}
