package aht20

import (
	"testing"

	"coopdev-go/clock"
	"coopdev-go/errcode"
	"coopdev-go/i2c"
	"coopdev-go/i2c/sim"
	"coopdev-go/resumable"
)

func setup(t *testing.T, target *sim.AHT20) (*Device, *clock.Clock, *sim.Bus) {
	t.Helper()
	b := sim.NewBus()
	b.Attach(Address, target)
	var clk clock.Clock
	d := New(i2c.NewMaster(&i2c.Blocking{Bus: b}), Config{Clock: &clk})
	return d, &clk, b
}

// run invokes f once per tick until it is no longer Running.
func run[T any](t *testing.T, clk *clock.Clock, max int, f func() resumable.Result[T]) (T, int) {
	t.Helper()
	for i := 1; i <= max; i++ {
		r := f()
		if r.IsFault() {
			t.Fatalf("fault after %d invocations: %v", i, r.Err())
		}
		if r.IsDone() {
			return r.Value(), i
		}
		clk.Increment()
	}
	t.Fatalf("still running after %d invocations", max)
	var zero T
	return zero, 0
}

func TestReadAfterConversion(t *testing.T) {
	target := &sim.AHT20{DeciC: 230, DeciRH: 500, BusyReads: 2}
	d, clk, _ := setup(t, target)

	err, n := run(t, clk, 1000, d.Read)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	// 10 ms init guard + 80 ms hint + two busy polls at 15 ms
	if n < 80+2*15 {
		t.Fatalf("Read finished after %d ticks; conversion waits were skipped", n)
	}
	wantC, wantRH := target.LastDeci()
	s := d.Last()
	if got := s.DeciCelsius(); got != wantC {
		t.Fatalf("DeciCelsius = %d, want %d", got, wantC)
	}
	if got := s.DeciRelHumidity(); got != wantRH {
		t.Fatalf("DeciRelHumidity = %d, want %d", got, wantRH)
	}
	if d.RawTemp() != s.RawTemp || d.RawHumidity() != s.RawHumidity {
		t.Fatal("cache does not match last sample")
	}
}

func TestReadRestartsAfterCompletion(t *testing.T) {
	target := &sim.AHT20{DeciC: 100, DeciRH: 300}
	d, clk, _ := setup(t, target)

	for i := 1; i <= 3; i++ {
		if err, _ := run(t, clk, 1000, d.Read); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if target.Samples() != i {
			t.Fatalf("samples = %d, want %d", target.Samples(), i)
		}
	}
}

func TestReadTimesOut(t *testing.T) {
	target := &sim.AHT20{BusyReads: 1 << 30}
	d, clk, _ := setup(t, target)

	err, n := run(t, clk, 2000, d.Read)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if n < 250 {
		t.Fatalf("timed out after %d ticks, want >= 250", n)
	}
	if c := errcode.Of(err); c != errcode.Timeout {
		t.Fatalf("errcode.Of = %q, want %q", c, errcode.Timeout)
	}
	if d.Device.Nested.IsRunning() {
		t.Fatal("Read left its slot running")
	}
}

func TestMissingDeviceIsDataFailure(t *testing.T) {
	b := sim.NewBus()
	var clk clock.Clock
	d := New(i2c.NewMaster(&i2c.Blocking{Bus: b}), Config{Clock: &clk})

	err, _ := run(t, &clk, 1000, d.Read)
	if err == nil {
		t.Fatal("expected a bus error for an absent device")
	}
}

func TestTriggerCollectByHand(t *testing.T) {
	target := &sim.AHT20{DeciC: 0, DeciRH: 0, BusyReads: 1}
	d, clk, _ := setup(t, target)

	if _, n := run(t, clk, 100, d.Init); n < 10 {
		t.Fatalf("Init finished after %d ticks, want the 10 ms guard", n)
	}
	if err, _ := run(t, clk, 10, d.Trigger); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	var s Sample
	collect := func() resumable.Result[error] { return d.Collect(&s) }
	if err, _ := run(t, clk, 10, collect); err != ErrNotReady {
		t.Fatalf("first Collect = %v, want ErrNotReady", err)
	} else if errcode.Of(err) != errcode.NotReady {
		t.Fatalf("errcode.Of = %q", errcode.Of(err))
	}
	if err, _ := run(t, clk, 10, collect); err != nil {
		t.Fatalf("second Collect = %v", err)
	}
	if s.DeciCelsius() != 1 || s.DeciRelHumidity() != 2 {
		t.Fatalf("sample = %d/%d", s.DeciCelsius(), s.DeciRelHumidity())
	}
}

func TestSampleConversions(t *testing.T) {
	s := Sample{RawHumidity: 0x80000, RawTemp: 0x80000}
	if got := s.DeciRelHumidity(); got != 500 {
		t.Fatalf("humidity = %d", got)
	}
	if got := s.DeciCelsius(); got != 500 {
		t.Fatalf("temperature = %d", got)
	}
}

func TestResetForcesReinit(t *testing.T) {
	target := &sim.AHT20{DeciC: 200, DeciRH: 400}
	d, clk, b := setup(t, target)

	if err, _ := run(t, clk, 1000, d.Read); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err, _ := run(t, clk, 10, d.Reset); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	before := b.TxCount()
	if err, _ := run(t, clk, 1000, d.Read); err != nil {
		t.Fatalf("Read after reset: %v", err)
	}
	// status + init + trigger + collect
	if got := b.TxCount() - before; got != 4 {
		t.Fatalf("transfers after reset = %d, want 4", got)
	}
	if target.Samples() != 2 {
		t.Fatalf("samples = %d, want 2", target.Samples())
	}
}
