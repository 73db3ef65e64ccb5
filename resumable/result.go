package resumable

import "coopdev-go/errcode"

// ErrNesting is reported when a depth slot overflows or is entered through
// an incompatible call path. It is the only fatal condition of the engine.
const ErrNesting = errcode.Nesting

type state uint8

const (
	stateDone state = iota
	stateNesting
	stateRunning
)

// Void is the payload of resumable functions that return nothing.
type Void = struct{}

// Result is returned by every resumable call. It is Running while the call
// has not finished, Done with a value once it has, or a NestingError fault.
// Value is only meaningful when IsDone.
type Result[T any] struct {
	st state
	v  T
}

// Running reports that the call suspended and must be invoked again.
func Running[T any]() Result[T] { return Result[T]{st: stateRunning} }

// Done reports that the call finished with v.
func Done[T any](v T) Result[T] { return Result[T]{st: stateDone, v: v} }

// Fault reports a NestingError; see ErrNesting.
func Fault[T any]() Result[T] { return Result[T]{st: stateNesting} }

// IsDone is the boolean view of a Result.
func (r Result[T]) IsDone() bool    { return r.st == stateDone }
func (r Result[T]) IsRunning() bool { return r.st == stateRunning }
func (r Result[T]) IsFault() bool   { return r.st == stateNesting }

// Value returns the payload of a Done result and the zero value otherwise.
func (r Result[T]) Value() T { return r.v }

// Err returns ErrNesting for a fault and nil otherwise.
func (r Result[T]) Err() error {
	if r.st == stateNesting {
		return ErrNesting
	}
	return nil
}

func (r Result[T]) String() string {
	switch r.st {
	case stateDone:
		return "done"
	case stateNesting:
		return "nesting_error"
	default:
		return "running"
	}
}

// Forward hands a nested call's unfinished result to the caller with the
// caller's result type: Running stays Running and a fault stays a fault.
// It must not be given a Done result.
func Forward[T, U any](r Result[U]) Result[T] {
	return Result[T]{st: r.st}
}
