package ltc4015

import "coopdev-go/resumable"

// I2C 16-bit word operations (Little-endian: LOW then HIGH).

// ReadWord reads register reg into out. A NACK or bus failure completes
// with the transfer error and leaves out untouched.
func (d *Device) ReadWord(reg byte, out *uint16) resumable.Result[error] {
	fr := d.Begin(fnReadWord)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		d.w[0] = reg
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.Transfer(d.w[:1], d.r[:2])
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		if !r.Value() {
			return resumable.Return(fr, d.Err())
		}
		*out = uint16(d.r[0]) | uint16(d.r[1])<<8
		return resumable.Return[error](fr, nil)
	}
	return resumable.Invalid[error](fr)
}

// WriteWord writes val to register reg.
func (d *Device) WriteWord(reg byte, val uint16) resumable.Result[error] {
	fr := d.Begin(fnWriteWord)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		d.w[0] = reg
		d.w[1] = byte(val)      // low
		d.w[2] = byte(val >> 8) // high
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.Transfer(d.w[:3], nil)
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		if !r.Value() {
			return resumable.Return(fr, d.Err())
		}
		return resumable.Return[error](fr, nil)
	}
	return resumable.Invalid[error](fr)
}

// UpdateBits is the read-modify-write pattern: (current | set) &^ clear.
// The bus is released between the read and the write.
func (d *Device) UpdateBits(reg byte, set, clear uint16) resumable.Result[error] {
	fr := d.Begin(fnUpdateBits)
	if fr.Faulted() {
		return resumable.Fault[error]()
	}
	defer fr.End()

	switch fr.Resume() {
	case resumable.Start:
		fr.Mark(1)
		fallthrough
	case 1:
		r := d.ReadWord(reg, &d.word)
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		if err := r.Value(); err != nil {
			return resumable.Return(fr, err)
		}
		d.word = (d.word | set) &^ clear
		fr.Mark(2)
		fallthrough
	case 2:
		r := d.WriteWord(reg, d.word)
		if !r.IsDone() {
			return resumable.Forward[error](r)
		}
		return resumable.Return(fr, r.Value())
	}
	return resumable.Invalid[error](fr)
}
