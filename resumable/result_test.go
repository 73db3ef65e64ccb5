package resumable

import "testing"

func TestResultStates(t *testing.T) {
	r := Running[int]()
	if r.IsDone() || !r.IsRunning() || r.Err() != nil {
		t.Fatalf("Running: %v", r)
	}
	d := Done(7)
	if !d.IsDone() || d.Value() != 7 || d.Err() != nil {
		t.Fatalf("Done: %v", d)
	}
	f := Fault[bool]()
	if f.IsDone() || f.IsRunning() || f.Err() != ErrNesting {
		t.Fatalf("Fault: %v", f)
	}
	if s := Done(Void{}).String(); s != "done" {
		t.Fatalf("String() = %q", s)
	}
}

func TestForwardKeepsState(t *testing.T) {
	if !Forward[string](Running[int]()).IsRunning() {
		t.Fatal("Running not forwarded")
	}
	if !Forward[string](Fault[int]()).IsFault() {
		t.Fatal("fault not forwarded")
	}
}

func TestResultDoesNotAllocate(t *testing.T) {
	n := testing.AllocsPerRun(100, func() {
		r := Done(uint16(3))
		if !r.IsDone() {
			panic("unreachable")
		}
		_ = Forward[bool](Running[uint16]())
	})
	if n != 0 {
		t.Fatalf("allocs = %v, want 0", n)
	}
}
