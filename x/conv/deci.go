// Package conv formats fixed-point readings without fmt or strconv.
package conv

// Deci writes tenths as a decimal with one fractional digit ("-12.3") into
// the tail of buf and returns the used slice. buf should be length >= 22 for
// int64. No allocations.
func Deci(buf []byte, tenths int64) []byte {
	if len(buf) < 3 {
		return buf[:0]
	}
	i := len(buf)
	neg := tenths < 0
	var u uint64
	if neg {
		u = uint64(-tenths)
	} else {
		u = uint64(tenths)
	}
	// Write digits backwards: fraction, point, at least one integer digit.
	i--
	buf[i] = byte('0' + u%10)
	u /= 10
	i--
	buf[i] = '.'
	i--
	buf[i] = byte('0' + u%10)
	u /= 10
	for u > 0 && i > 0 {
		i--
		buf[i] = byte('0' + (u % 10))
		u /= 10
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}
