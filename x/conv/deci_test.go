package conv

import "testing"

func TestDeci(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.0"},
		{5, "0.5"},
		{-5, "-0.5"},
		{231, "23.1"},
		{-1234, "-123.4"},
		{1000, "100.0"},
	}
	var buf [22]byte
	for _, c := range cases {
		if got := string(Deci(buf[:], c.in)); got != c.want {
			t.Errorf("Deci(%d) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := Deci(buf[:2], 1); len(got) != 0 {
		t.Errorf("short buffer: got %q", got)
	}
}
