package sim

import "coopdev-go/errcode"

// LTC4015 simulates the charger's 16-bit little-endian register file.
// Reads are a one-byte register write followed by a two-byte read; writes
// are register, low byte, high byte.
type LTC4015 struct {
	Regs map[byte]uint16
}

func NewLTC4015(regs map[byte]uint16) *LTC4015 {
	m := make(map[byte]uint16, len(regs))
	for k, v := range regs {
		m[k] = v
	}
	return &LTC4015{Regs: m}
}

func (s *LTC4015) Tx(w, r []byte) error {
	switch {
	case len(w) == 1 && len(r) == 2:
		v := s.Regs[w[0]]
		r[0] = byte(v)
		r[1] = byte(v >> 8)
		return nil
	case len(w) == 3 && len(r) == 0:
		s.Regs[w[0]] = uint16(w[1]) | uint16(w[2])<<8
		return nil
	case len(w) == 0 && len(r) == 0:
		return nil // ping
	default:
		return errcode.Protocol
	}
}
