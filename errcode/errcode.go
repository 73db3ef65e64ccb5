package errcode

import "errors"

// Code is a stable error identifier shared by the runtime and the drivers.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Runtime
	Nesting Code = "nesting_error" // depth slot overflow or incompatible re-entry

	// Buses
	Nack Code = "nack"

	// Devices
	Timeout  Code = "timeout"
	NotReady Code = "not_ready"
	Protocol Code = "protocol_error"

	// Configuration
	InvalidConfig Code = "invalid_config"
	UnknownDevice Code = "unknown_device"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

type coder interface{ Code() Code }

// Of extracts a Code from an error chain, defaulting to Error. The
// outermost *E wins over a Code further down the chain.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Wrap attaches op and cause to a code. A nil cause with an empty msg still
// yields a non-nil *E.
func Wrap(c Code, op string, err error) *E {
	e := &E{C: c, Op: op, Err: err}
	if err != nil {
		e.Msg = err.Error()
	}
	return e
}
