package sim

import "coopdev-go/errcode"

// AHT20 command bytes understood by the simulated sensor.
const (
	aht20CmdTrigger    = 0xAC
	aht20CmdInitialize = 0xBE
	aht20CmdSoftReset  = 0xBA
	aht20CmdStatus     = 0x71

	aht20StatusBusy       = 0x80
	aht20StatusCalibrated = 0x08
)

// AHT20 simulates the temperature/humidity sensor. After each trigger the
// next BusyReads data reads report busy. Each completed measurement yields
// deterministic, increasing readings starting from DeciC / DeciRH.
type AHT20 struct {
	DeciC     int32
	DeciRH    int32
	BusyReads int

	calibrated bool
	pending    int
	measured   bool
	samples    int
}

func (s *AHT20) Tx(w, r []byte) error {
	if len(w) > 0 {
		switch w[0] {
		case aht20CmdInitialize:
			s.calibrated = true
		case aht20CmdSoftReset:
			s.calibrated = false
			s.measured = false
		case aht20CmdTrigger:
			if len(w) != 3 {
				return errcode.Protocol
			}
			s.pending = s.BusyReads
			s.measured = true
		case aht20CmdStatus:
		default:
			return errcode.Nack
		}
	}
	if len(r) == 0 {
		return nil
	}
	st := byte(0)
	if s.calibrated {
		st |= aht20StatusCalibrated
	}
	if s.measured && s.pending > 0 {
		s.pending--
		st |= aht20StatusBusy
	}
	r[0] = st
	if len(r) < 6 || st&aht20StatusBusy != 0 {
		return nil
	}
	s.samples++
	t := s.DeciC + int32(s.samples)
	h := s.DeciRH + int32(2*s.samples)
	// Round up so the driver's floor division recovers t and h exactly.
	traw := uint32(((int64(t)+500)*0x100000 + 1999) / 2000)
	hraw := uint32((int64(h)*0x100000 + 999) / 1000)
	r[1] = byte(hraw >> 12)
	r[2] = byte(hraw >> 4)
	r[3] = byte(hraw<<4) | byte(traw>>16)&0x0F
	r[4] = byte(traw >> 8)
	r[5] = byte(traw)
	if len(r) > 6 {
		r[6] = 0 // CRC not modelled
	}
	return nil
}

// Samples returns how many measurements have been delivered.
func (s *AHT20) Samples() int { return s.samples }

// LastDeci returns the temperature and humidity of the last delivered sample.
func (s *AHT20) LastDeci() (int32, int32) {
	return s.DeciC + int32(s.samples), s.DeciRH + int32(2*s.samples)
}
