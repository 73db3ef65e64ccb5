// Package ltc4015 provides a minimal driver for the LTC4015
// multi-chemistry synchronous buck battery charger.
//
// Design notes (datasheet references):
// • I2C/SMBus, 400kHz, read/write word protocol; data-low then data-high.
// • Default 7-bit address = 0b1101000.
// • Integer-only telemetry scaling (VBAT, VIN, VSYS, IBAT, IIN, DIE_TEMP).
//
// All bus operations are resumable: call them from a protothread or another
// resumable function until they report Done. The bus is only held for the
// duration of each word transfer, so a telemetry sweep interleaves with
// other devices on the same master. Drive each Device from a single
// protothread; concurrent callers would share its suspended operations.
package ltc4015

import (
	"coopdev-go/errcode"
	"coopdev-go/i2c"
	"coopdev-go/resumable"
)

var (
	ErrRSNSBUnset = invalid("RSNSB_uOhm must be set for battery current operations")
	ErrRSNSIUnset = invalid("RSNSI_uOhm must be set for input current operations")
	ErrAddress    = invalid("address must be non-zero")
)

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "ltc4015", Msg: msg}
}

type Chemistry uint8

const (
	ChemUnknown  Chemistry = iota
	ChemLithium            // VBAT LSB: 192.264 µV/cell
	ChemLeadAcid           // VBAT LSB: 128.176 µV/cell
)

func (c Chemistry) String() string {
	switch c {
	case ChemLithium:
		return "lithium"
	case ChemLeadAcid:
		return "lead-acid"
	}
	return "unknown"
}

// Driver configuration. Integer-only.
type Config struct {
	Address        uint16
	RSNSB_uOhm     uint32 // battery path sense resistor in µΩ
	RSNSI_uOhm     uint32 // input path sense resistor in µΩ
	Cells          uint8  // optional; read from pins if 0
	Chem           Chemistry
	QCountPrescale uint16 // if 0, leave hardware default
	IinLimit_mA    int32  // if 0, leave hardware default
	// Bits set in CONFIG_BITS by Configure.
	Set ConfigBits
}

// DefaultConfig provides minimal defaults; caller must set sense resistors.
func DefaultConfig() Config {
	return Config{
		Address: AddressDefault,
		Chem:    ChemLithium,
		Set:     CfgForceMeasSysOn,
	}
}

// Validate checks the fields the telemetry scaling depends on.
func (c Config) Validate() error {
	if c.Address == 0 {
		return ErrAddress
	}
	if c.RSNSB_uOhm == 0 {
		return ErrRSNSBUnset
	}
	if c.RSNSI_uOhm == 0 {
		return ErrRSNSIUnset
	}
	return nil
}

// Configure -> UpdateBits -> ReadWord -> Transfer
const levels = 4

const (
	fnReadWord resumable.Func = iota + 1
	fnWriteWord
	fnUpdateBits
	fnConfigure
	fnTelemetry
)

// Device represents an LTC4015 instance on a shared I²C master.
type Device struct {
	i2c.Device

	cfg   Config
	cells uint8
	chem  Chemistry

	// Fixed buffers to avoid per-call heap allocations.
	w    [3]byte
	r    [2]byte
	word uint16
	idx  int
	raw  [len(telemetryRegs)]uint16
	last Telemetry
}

// New constructs a Device with supplied config. Nothing is written to the
// device until Configure runs.
func New(m *i2c.Master, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = AddressDefault
	}
	return &Device{
		Device: i2c.NewDevice(m, cfg.Address, levels),
		cfg:    cfg,
		cells:  cfg.Cells,
		chem:   cfg.Chem,
	}
}

func (d *Device) Cells() uint8         { return d.cells }
func (d *Device) Chemistry() Chemistry { return d.chem }

// Configure reads the pin strapping for anything the config leaves open,
// then applies the coulomb counter prescale, CONFIG_BITS and the input
// current limit.
func (d *Device) Configure() resumable.Result[error] {
	fr := d.Begin(fnConfigure)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		fr.Mark(1)
		fallthrough
	case 1:
		if d.cells == 0 || d.chem == ChemUnknown {
			r := d.ReadWord(regChemCells, &d.word)
			if !r.IsDone() {
				return resumable.Forward[error](r)
			}
			if err := r.Value(); err != nil {
				return resumable.Return(fr, err)
			}
			if d.cells == 0 {
				d.cells = uint8(d.word & 0x000F) // pins-based cell count (bits 3:0)
			}
			if d.chem == ChemUnknown {
				d.chem = chemistryFromCode(d.word)
			}
		}
		fr.Mark(2)
		fallthrough
	case 2:
		if d.cfg.QCountPrescale != 0 {
			r := d.WriteWord(regQCountPrescale, d.cfg.QCountPrescale)
			if !r.IsDone() {
				return resumable.Forward[error](r)
			}
			if err := r.Value(); err != nil {
				return resumable.Return(fr, err)
			}
		}
		fr.Mark(3)
		fallthrough
	case 3:
		if d.cfg.Set != 0 {
			r := d.UpdateBits(regConfigBits, uint16(d.cfg.Set), 0)
			if !r.IsDone() {
				return resumable.Forward[error](r)
			}
			if err := r.Value(); err != nil {
				return resumable.Return(fr, err)
			}
		}
		fr.Mark(4)
		fallthrough
	case 4:
		if d.cfg.IinLimit_mA == 0 {
			return resumable.Return[error](fr, nil)
		}
		if d.cfg.RSNSI_uOhm == 0 {
			return resumable.Return(fr, ErrRSNSIUnset)
		}
		r := d.WriteWord(regIinLimitSetting, iinLimitCode(d.cfg.IinLimit_mA, d.cfg.RSNSI_uOhm))
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		return resumable.Return(fr, r.Value())
	}
	return resumable.Invalid[error](fr)
}

// chemistryFromCode decodes the chemistry field (bits 11:8) of CHEM_CELLS.
func chemistryFromCode(v uint16) Chemistry {
	switch (v >> 8) & 0x000F {
	case 0x7, 0x8:
		return ChemLeadAcid
	case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6:
		return ChemLithium // includes Li-Ion and LiFePO4 families
	default:
		return ChemUnknown
	}
}
