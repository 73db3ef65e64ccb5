// Package i2c is the transaction layer between device drivers and one I²C
// bus controller.
//
// A Master pairs a Controller (the peripheral: start a transfer, poll its
// busy flag, read its outcome) with a bus.Lock. Drivers embed a Device and
// call its resumable Transfer from their own resumable functions:
//
//	case 2:
//		r := d.Transfer(d.w[:1], d.r[:2])
//		if !r.IsDone() {
//			return resumable.Forward[uint16](r)
//		}
//		if !r.Value() {
//			return resumable.Return(fr, uint16(0)) // NACK: a data outcome
//		}
//
// NOTE: a Controller given both w and r MUST perform the write followed by a
// repeated-start read without releasing the bus, as drivers.I2C.Tx does.
package i2c

import (
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"
)

// Controller is the register-level view of an I²C peripheral.
type Controller interface {
	// Start begins a transfer. It reports false, and does nothing, while a
	// previous transfer is still in flight.
	Start(addr uint16, w, r []byte) bool
	// Busy reports whether the transfer started last is still in flight.
	Busy() bool
	// Err returns the outcome of the last finished transfer.
	Err() error
}

// Blocking runs each transfer to completion inside Start. It suits buses
// whose drivers.I2C implementation is itself synchronous, and tests.
type Blocking struct {
	Bus drivers.I2C
	err error
}

func (b *Blocking) Start(addr uint16, w, r []byte) bool {
	b.err = b.Bus.Tx(addr, w, r)
	return true
}

func (b *Blocking) Busy() bool { return false }
func (b *Blocking) Err() error { return b.err }

// Worker executes transfers on a dedicated goroutine, standing in for the
// interrupt or DMA engine of a real controller. The cooperative side only
// ever sees two atomics: the busy flag and the last outcome.
type Worker struct {
	bus  drivers.I2C
	jobs chan job
	busy atomic.Bool
	last atomic.Pointer[outcome]
	once sync.Once
	done chan struct{}
}

type job struct {
	addr uint16
	w, r []byte
}

type outcome struct{ err error }

// NewWorker starts the worker goroutine. Call Close to stop it.
func NewWorker(bus drivers.I2C) *Worker {
	w := &Worker{
		bus:  bus,
		jobs: make(chan job, 1),
		done: make(chan struct{}),
	}
	w.last.Store(&outcome{})
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for j := range w.jobs {
		err := w.bus.Tx(j.addr, j.w, j.r)
		w.last.Store(&outcome{err: err})
		w.busy.Store(false)
	}
}

func (w *Worker) Start(addr uint16, wb, rb []byte) bool {
	if !w.busy.CompareAndSwap(false, true) {
		return false
	}
	w.jobs <- job{addr: addr, w: wb, r: rb}
	return true
}

func (w *Worker) Busy() bool { return w.busy.Load() }
func (w *Worker) Err() error { return w.last.Load().err }

// Close stops the worker after any in-flight transfer and waits for it.
// Start must not be called afterwards.
func (w *Worker) Close() {
	w.once.Do(func() { close(w.jobs) })
	<-w.done
}
