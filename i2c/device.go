package i2c

import (
	"coopdev-go/bus"
	"coopdev-go/resumable"

	"github.com/golang/glog"
)

// Function identities used by this package. Drivers sharing a Nested with
// a Device number their own functions below FuncReserved.
const (
	FuncReserved resumable.Func = 0xF0
	FuncTransfer resumable.Func = 0xF0
)

// Master is one physical bus: the controller plus its ownership token.
type Master struct {
	bus.Lock
	ctl Controller
}

func NewMaster(ctl Controller) *Master { return &Master{ctl: ctl} }

func (m *Master) Controller() Controller { return m.ctl }

// Device is one target address on a Master. It carries the Nested state of
// the driver that embeds it, so driver functions and Transfer stack on the
// same depth slots.
type Device struct {
	*resumable.Nested

	Addr   uint16
	master *Master
	err    error
}

// NewDevice binds addr on m with room for levels of nesting; Transfer
// itself takes one level.
func NewDevice(m *Master, addr uint16, levels int) Device {
	return Device{
		Nested: resumable.NewNested(levels),
		Addr:   addr,
		master: m,
	}
}

// Err returns the error of the last finished transfer, nil on success.
func (d *Device) Err() error { return d.err }

// Transfer writes w then reads r (repeated start) as one transaction:
// acquire the bus, start, wait while the controller is busy, release.
// Done(false) means the target did not acknowledge or the controller
// reported an error; see Err.
func (d *Device) Transfer(w, r []byte) resumable.Result[bool] {
	fr := d.Begin(FuncTransfer)
	if fr.Faulted() {
		return resumable.Fault[bool]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		fr.Mark(1)
		fallthrough
	case 1:
		if a := d.master.Acquire(d); !a.IsDone() {
			return resumable.Forward[bool](a)
		}
		fr.Mark(2)
		fallthrough
	case 2:
		if !d.master.ctl.Start(d.Addr, w, r) {
			return resumable.Running[bool]()
		}
		fr.Mark(3)
		fallthrough
	case 3:
		if d.master.ctl.Busy() {
			return resumable.Running[bool]()
		}
		d.err = d.master.ctl.Err()
		d.master.Release(d)
		if d.err != nil {
			glog.V(1).Infof("i2c: addr %#02x: %v", d.Addr, d.err)
		} else if glog.V(2) {
			glog.Infof("i2c: addr %#02x w=%d r=%d ok", d.Addr, len(w), len(r))
		}
		return resumable.Return(fr, d.err == nil)
	}
	return resumable.Invalid[bool](fr)
}

// Ping addresses the target without payload.
func (d *Device) Ping() resumable.Result[bool] { return d.Transfer(nil, nil) }
