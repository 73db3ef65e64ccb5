// Package sim provides a virtual I²C bus with simulated targets, for host
// runs and tests. Bus implements drivers.I2C.
package sim

import (
	"sync"

	"coopdev-go/errcode"

	"tinygo.org/x/drivers"
)

// Target answers transfers addressed to it.
type Target interface {
	Tx(w, r []byte) error
}

// Bus routes each Tx to the target attached at its address. Unknown
// addresses are not acknowledged.
type Bus struct {
	mu      sync.Mutex
	targets map[uint16]Target
	txCount int
}

var _ drivers.I2C = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{targets: map[uint16]Target{}}
}

// Attach places t at addr, replacing any previous target.
func (b *Bus) Attach(addr uint16, t Target) {
	b.mu.Lock()
	b.targets[addr] = t
	b.mu.Unlock()
}

// Detach removes the target at addr.
func (b *Bus) Detach(addr uint16) {
	b.mu.Lock()
	delete(b.targets, addr)
	b.mu.Unlock()
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txCount++
	t, ok := b.targets[addr]
	if !ok {
		return errcode.Nack
	}
	return t.Tx(w, r)
}

// TxCount returns how many transfers reached the bus.
func (b *Bus) TxCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txCount
}
