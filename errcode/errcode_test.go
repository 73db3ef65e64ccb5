package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	cause := errors.New("i2c: nack")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"code", Nesting, Nesting},
		{"wrapped", Wrap(Nack, "aht20.collect", cause), Nack},
		{"foreign", cause, Error},
		{"fmt-wrapped code", fmt.Errorf("read: %w", NotReady), NotReady},
		{"outer E wins", Wrap(Protocol, "decode", Nack), Protocol},
	}
	for _, tc := range tests {
		if got := Of(tc.err); got != tc.want {
			t.Errorf("%s: Of() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEUnwrapAndMessage(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(Timeout, "aht20.read", cause)
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is did not reach the cause")
	}
	if got, want := e.Error(), "aht20.read: timeout: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got := (&E{C: Nack}).Error(); got != "nack" {
		t.Fatalf("bare E = %q", got)
	}
}
