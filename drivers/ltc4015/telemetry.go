package ltc4015

import "coopdev-go/resumable"

// Telemetry collects commonly used measurements and status.
// Currents stay zero when the matching sense resistor is not configured.
type Telemetry struct {
	Vin_mV, Vsys_mV     int32
	IBat_mA, IIn_mA     int32
	Pack_mV, PerCell_mV int32
	Die_mC              int32
	NTCRatio            uint16
	QCount              uint16
	State               ChargerState
	ChargeStatus        uint16
	System              SystemStatus
	Valid               bool // MEAS_SYS_VALID
}

// Order of the sweep; raw[i] holds telemetryRegs[i].
var telemetryRegs = [...]byte{
	regVBAT,
	regVIN,
	regVSYS,
	regIBAT,
	regIIN,
	regDieTemp,
	regNTCRatio,
	regQCount,
	regChargerState,
	regChargeStatus,
	regSystemStatus,
	regMeasSysValid,
}

// Telemetry sweeps the measurement registers one word transfer at a time,
// yielding after each word, and decodes them into out (and the Last cache).
// The first failed read ends the sweep with its error; the cache is only
// replaced on success.
func (d *Device) Telemetry(out *Telemetry) resumable.Result[error] {
	fr := d.Begin(fnTelemetry)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		d.idx = 0
		fr.Mark(1)
		fallthrough
	case 1:
		for d.idx < len(telemetryRegs) {
			r := d.ReadWord(telemetryRegs[d.idx], &d.raw[d.idx])
			if !r.IsDone() {
				return resumable.Forward[error](r)
			}
			if err := r.Value(); err != nil {
				return resumable.Return(fr, err)
			}
			d.idx++
			if d.idx < len(telemetryRegs) {
				// let other devices on the master have the bus
				return resumable.Running[error]()
			}
		}
		d.last = d.decode()
		if out != nil {
			*out = d.last
		}
		return resumable.Return[error](fr, nil)
	}
	return resumable.Invalid[error](fr)
}

func (d *Device) decode() Telemetry {
	raw := &d.raw
	t := Telemetry{
		PerCell_mV:   vbatPerCell_mV(raw[0], d.chem),
		Vin_mV:       vinVsys_mV(raw[1]),
		Vsys_mV:      vinVsys_mV(raw[2]),
		IBat_mA:      current_mA(raw[3], d.cfg.RSNSB_uOhm),
		IIn_mA:       current_mA(raw[4], d.cfg.RSNSI_uOhm),
		Die_mC:       die_mC(raw[5]),
		NTCRatio:     raw[6],
		QCount:       raw[7],
		State:        ChargerState(raw[8]),
		ChargeStatus: raw[9],
		System:       SystemStatus(raw[10]),
		Valid:        raw[11]&0x0001 != 0,
	}
	t.Pack_mV = t.PerCell_mV
	if d.cells != 0 {
		t.Pack_mV = t.PerCell_mV * int32(d.cells)
	}
	return t
}

// Last returns the telemetry of the last completed sweep.
func (d *Device) Last() Telemetry { return d.last }
