package mathx

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int64 }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{11, 10, 0, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestDivRounding(t *testing.T) {
	if got := CeilDiv[uint64](1_500_000, 1_000_000); got != 2 {
		t.Fatalf("CeilDiv = %d, want 2", got)
	}
	if got := CeilDiv[uint64](2_000_000, 1_000_000); got != 2 {
		t.Fatalf("CeilDiv exact = %d, want 2", got)
	}
	if got := RoundDiv[uint32](1250, 500); got != 3 {
		t.Fatalf("RoundDiv half = %d, want 3", got)
	}
	if got := RoundDiv[uint32](1249, 500); got != 2 {
		t.Fatalf("RoundDiv below half = %d, want 2", got)
	}
	if CeilDiv[uint8](7, 0) != 0 || RoundDiv[uint8](7, 0) != 0 {
		t.Fatal("zero divisor must yield 0")
	}
}
