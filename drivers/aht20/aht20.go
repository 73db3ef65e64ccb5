// Package aht20 provides a driver for the AHT20 temperature/humidity sensor.
// Every operation is resumable and is meant to be called repeatedly from a
// protothread or another resumable function until it reports Done:
//
//	d.Trigger()          // start a measurement (one short write)
//	d.Collect(&s)        // fetch; Done(ErrNotReady) while converting
//	d.Read()             // trigger, wait the conversion hint, poll until ready
//
// The device shares its bus through an i2c.Master; a transaction holds the
// bus only between its own start and stop. A Device serves one caller at a
// time; two protothreads reading the same sensor need two Devices or a
// shared task.
//
// The driver avoids floating-point on the hot path; fixed-point helpers return
// tenths of units (deci-°C and deci-%RH).
package aht20

import (
	"time"

	"coopdev-go/clock"
	"coopdev-go/errcode"
	"coopdev-go/i2c"
	"coopdev-go/resumable"
	"coopdev-go/timer"
)

// I2C address.
const Address = 0x38

// Commands and status bits (per datasheet/common driver practice).
const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

// Read -> Init/Trigger/Collect -> Transfer
const levels = 3

const (
	fnInit resumable.Func = iota + 1
	fnReset
	fnTrigger
	fnCollect
	fnRead
)

// Errors returned by the driver.
var (
	ErrTimeout  = &errcode.E{C: errcode.Timeout, Op: "aht20"}
	ErrNotReady = &errcode.E{C: errcode.NotReady, Op: "aht20"}
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// Clock defaults to clock.Default; TickHz is its rate (default 1 kHz).
	Clock  clock.Source[clock.Tick]
	TickHz uint32
	// PollInterval is used by Read() between Collect() attempts for ErrNotReady.
	// Default 15 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read(). Default 250 ms.
	CollectTimeout time.Duration
	// TriggerHint is the nominal conversion time Read() waits after
	// triggering before the first Collect(). Default 80 ms.
	TriggerHint time.Duration
}

func (c *Config) defaults() {
	if c.Address == 0 {
		c.Address = Address
	}
	if c.Clock == nil {
		c.Clock = clock.Default
	}
	if c.TickHz == 0 {
		c.TickHz = clock.DefaultHz
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 15 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = 250 * time.Millisecond
	}
	if c.TriggerHint <= 0 {
		c.TriggerHint = 80 * time.Millisecond
	}
}

// Device is an AHT20 on a shared I2C master.
type Device struct {
	i2c.Device

	cfg     Config
	poll    clock.Tick
	collect clock.Tick
	hint    clock.Tick
	wait    timer.Timeout[clock.Tick]
	limit   timer.Timeout[clock.Tick]

	ready    bool
	w        [3]byte
	buf      [7]byte // reuse buffer to avoid allocations
	humidity uint32  // last raw humidity sample
	temp     uint32  // last raw temperature sample
	last     Sample
}

// New creates the driver object. It does not touch the device; run Init
// (or Read, which initialises on first use).
func New(m *i2c.Master, cfg Config) *Device {
	cfg.defaults()
	d := &Device{
		Device:  i2c.NewDevice(m, cfg.Address, levels),
		cfg:     cfg,
		poll:    clock.Ticks(cfg.PollInterval, cfg.TickHz),
		collect: clock.Ticks(cfg.CollectTimeout, cfg.TickHz),
		hint:    clock.Ticks(cfg.TriggerHint, cfg.TickHz),
	}
	d.wait.Src = cfg.Clock
	d.limit.Src = cfg.Clock
	return d
}

// TriggerHint returns the nominal conversion time to wait before Collect.
func (d *Device) TriggerHint() time.Duration { return d.cfg.TriggerHint }

// Init calibrates the sensor unless it reports itself calibrated already.
// Devices that do not acknowledge immediately are tolerated.
func (d *Device) Init() resumable.Result[resumable.Void] {
	fr := d.Begin(fnInit)
	if fr.Faulted() {
		return resumable.Fault[resumable.Void]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		d.w[0] = cmdStatus
		d.buf[0] = 0
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.Transfer(d.w[:1], d.buf[:1])
		if !r.IsDone() {
			return resumable.Forward[resumable.Void](r)
		}
		if r.Value() && d.buf[0]&statusCalibrated != 0 {
			d.ready = true
			return resumable.Exit(fr)
		}
		d.w = [3]byte{cmdInitialize, 0x08, 0x00}
		fr.Mark(2)
		fallthrough
	case 2:
		r := d.Transfer(d.w[:3], nil)
		if !r.IsDone() {
			return resumable.Forward[resumable.Void](r)
		}
		// Small guard delay; the first sample is not ready immediately.
		d.wait.Restart(clock.Ticks(10*time.Millisecond, d.cfg.TickHz))
		fr.Mark(3)
		fallthrough
	case 3:
		if !d.wait.IsExpired() {
			return resumable.Running[resumable.Void]()
		}
		d.ready = true
		return resumable.Exit(fr)
	}
	return resumable.Invalid[resumable.Void](fr)
}

// Reset issues a soft reset. Give the device ~20ms afterwards before using.
func (d *Device) Reset() resumable.Result[error] {
	fr := d.Begin(fnReset)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		d.w[0] = cmdSoftReset
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.Transfer(d.w[:1], nil)
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		d.ready = false
		return resumable.Return(fr, d.txErr(r.Value()))
	}
	return resumable.Invalid[error](fr)
}

// Trigger starts a measurement. After Trigger, the device needs time to
// convert; see TriggerHint.
func (d *Device) Trigger() resumable.Result[error] {
	fr := d.Begin(fnTrigger)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		d.w = [3]byte{cmdTrigger, 0x33, 0x00}
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.Transfer(d.w[:3], nil)
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		return resumable.Return(fr, d.txErr(r.Value()))
	}
	return resumable.Invalid[error](fr)
}

// Collect attempts to read one measurement into the device cache and out.
// It completes with ErrNotReady while the device is still converting; any
// bus error is returned as-is.
func (d *Device) Collect(out *Sample) resumable.Result[error] {
	fr := d.Begin(fnCollect)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.Transfer(nil, d.buf[:])
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		if !r.Value() {
			return resumable.Return(fr, d.Err())
		}
		return resumable.Return(fr, d.decode(out))
	}
	return resumable.Invalid[error](fr)
}

func (d *Device) decode(out *Sample) error {
	data := d.buf[:]
	// Check status bits in byte 0.
	if (data[0]&statusCalibrated) == 0 || (data[0]&statusBusy) != 0 {
		return ErrNotReady
	}
	hraw := (uint32(data[1]) << 12) | (uint32(data[2]) << 4) | (uint32(data[3]) >> 4)
	traw := (uint32(data[3]&0x0F) << 16) | (uint32(data[4]) << 8) | uint32(data[5])

	d.humidity = hraw
	d.temp = traw

	if out != nil {
		out.RawHumidity = hraw
		out.RawTemp = traw
	}
	return nil
}

// Read performs a full measurement cycle: initialise if needed, trigger,
// wait the conversion hint, then poll Collect every PollInterval until it
// succeeds or CollectTimeout elapses. The sample is available from Last.
func (d *Device) Read() resumable.Result[error] {
	fr := d.Begin(fnRead)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		fr.Mark(1)
		fallthrough
	case 1:
		if !d.ready {
			r := d.Init()
			if !r.IsDone() {
				return resumable.Forward[error](r)
			}
		}
		fr.Mark(2)
		fallthrough
	case 2:
		r := d.Trigger()
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		if err := r.Value(); err != nil {
			return resumable.Return(fr, err)
		}
		d.limit.Restart(d.collect)
		d.wait.Restart(d.hint)
		fr.Mark(3)
		fallthrough
	case 3:
		if !d.wait.IsExpired() {
			return resumable.Running[error]()
		}
		fr.Mark(4)
		fallthrough
	case 4:
		r := d.Collect(&d.last)
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		switch err := r.Value(); err {
		case nil:
			return resumable.Return[error](fr, nil)
		case ErrNotReady:
			if d.limit.IsExpired() {
				return resumable.Return[error](fr, ErrTimeout)
			}
			d.wait.Restart(d.poll)
			fr.Mark(3)
			return resumable.Running[error]()
		default:
			return resumable.Return(fr, err)
		}
	}
	return resumable.Invalid[error](fr)
}

func (d *Device) txErr(ok bool) error {
	if ok {
		return nil
	}
	return d.Err()
}

// Last returns the sample of the last successful Read.
func (d *Device) Last() Sample { return d.last }

// Sample holds raw readings.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// Fixed-point conversion helpers operating on Sample.

func (s Sample) DeciRelHumidity() int32 {
	return (int32(s.RawHumidity) * 1000) / 0x100000
}

func (s Sample) DeciCelsius() int32 {
	return ((int32(s.RawTemp) * 2000) / 0x100000) - 500
}

// Accessors on the last cached sample.

func (d *Device) RawHumidity() uint32 { return d.humidity }
func (d *Device) RawTemp() uint32     { return d.temp }

// RelHumidity returns relative humidity in percent (float). Prefer DeciRelHumidity for fixed-point.
func (d *Device) RelHumidity() float32 {
	return (float32(d.humidity) * 100) / 0x100000
}

// Celsius returns °C (float). Prefer DeciCelsius for fixed-point.
func (d *Device) Celsius() float32 {
	return (float32(d.temp)*200.0)/0x100000 - 50
}
