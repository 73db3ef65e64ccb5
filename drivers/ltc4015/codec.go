package ltc4015

import "coopdev-go/x/mathx"

// Unit conversions. Raw codes come straight from the 16-bit registers; signed
// quantities are two's complement.

const (
	vbatLithium_nV  = 192264
	vbatLeadAcid_nV = 128176
	vinVsys_uV      = 1648
	sense_pV        = 1464870 // IBAT/IIN LSB across the sense resistor
)

func vbatPerCell_mV(raw uint16, chem Chemistry) int32 {
	nV := int64(vbatLithium_nV)
	if chem == ChemLeadAcid {
		nV = vbatLeadAcid_nV
	}
	uV := (int64(raw) * nV) / 1000 // nV → µV
	return int32(uV / 1000)        // µV → mV
}

func vinVsys_mV(raw uint16) int32 {
	return int32(int64(raw) * vinVsys_uV / 1000)
}

func current_mA(raw uint16, rsns_uOhm uint32) int32 {
	if rsns_uOhm == 0 {
		return 0
	}
	uA := (int64(int16(raw)) * sense_pV) / int64(rsns_uOhm)
	return int32(uA / 1000)
}

func die_mC(raw uint16) int32 {
	return int32((int64(int16(raw)) - 12010) * 10000 / 456)
}

// qLinear maps a physical value onto a linear code:
//
//	code_physical = (code + addOne?1:0)*step + offset
//
// inverse:
//
//	code = round((value - offset)/step) - (addOne?1:0)
func qLinear(value, step, offset int64, addOne bool, lo, hi int64) uint16 {
	num := value - offset
	if num < 0 {
		num = 0
	}
	code := int64(mathx.RoundDiv(uint64(num), uint64(step)))
	if addOne && code > 0 {
		code--
	}
	return uint16(mathx.Clamp(code, lo, hi))
}

// iinLimitCode encodes IIN_LIMIT_SETTING: I = ((code+1)*500 µV)/RSNSI,
// 6-bit code.
func iinLimitCode(mA int32, rsnsI_uOhm uint32) uint16 {
	uV := int64(mA) * int64(rsnsI_uOhm) / 1000 // mA*µΩ = nV
	return qLinear(uV, 500, 0, true, 0, 63)
}

// iinLimit_mA is the inverse of iinLimitCode.
func iinLimit_mA(code uint16, rsnsI_uOhm uint32) int32 {
	if rsnsI_uOhm == 0 {
		return 0
	}
	return int32((int64(code&0x3F) + 1) * 500_000 / int64(rsnsI_uOhm))
}
