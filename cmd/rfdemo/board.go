package main

import (
	"github.com/golang/glog"

	"coopdev-go/clock"
	"coopdev-go/config"
	"coopdev-go/drivers/aht20"
	"coopdev-go/drivers/ltc4015"
	"coopdev-go/i2c"
	"coopdev-go/i2c/sim"
	"coopdev-go/loop"
)

// Register contents of the simulated charger: a 4-cell lithium pack at
// 3.7 V/cell, 12 V input, 1 A charge through 4 mΩ, die at 25 °C.
var chargerRegs = map[byte]uint16{
	0x3A: 19245,   // VBAT
	0x3B: 7282,    // VIN
	0x3C: 7282,    // VSYS
	0x3D: 2731,    // IBAT
	0x3E: 1000,    // IIN
	0x3F: 13150,   // DIE_TEMP
	0x34: 1 << 6,  // CHARGER_STATE: cc_cv_charge
	0x39: 1 << 13, // SYSTEM_STATUS: charger_enabled
	0x43: 0x0204,  // CHEM_CELLS: lithium, 4 cells
	0x4A: 1,       // MEAS_SYS_VALID
}

type system struct {
	Clock  *clock.Clock
	Bus    *sim.Bus
	Master *i2c.Master
	Loop   *loop.Loop

	climates []*climate
	chargers []*charger
	closers  []func()
}

// build attaches a simulated target for every configured device and
// registers one protothread per device with a fresh super loop.
func build(b *config.Board) (*system, error) {
	s := &system{
		Clock: &clock.Clock{},
		Bus:   sim.NewBus(),
		Loop:  loop.New(),
	}
	// One tick between passes keeps the host loop from spinning.
	s.Loop.Interval = clock.TickPeriod(b.TickHz)

	var ctl i2c.Controller
	switch b.I2C.Controller {
	case config.ControllerBlocking:
		ctl = &i2c.Blocking{Bus: s.Bus}
	default:
		w := i2c.NewWorker(s.Bus)
		s.closers = append(s.closers, w.Close)
		ctl = w
	}
	s.Master = i2c.NewMaster(ctl)

	for _, d := range b.Devices {
		period := clock.Ticks(d.Interval, b.TickHz)
		switch d.Type {
		case config.TypeAHT20:
			s.Bus.Attach(d.Address, &sim.AHT20{DeciC: 215, DeciRH: 450, BusyReads: 1})
			dev := aht20.New(s.Master, aht20.Config{Address: d.Address, Clock: s.Clock, TickHz: b.TickHz})
			c := newClimate(d.Name, dev, s.Clock, period)
			s.climates = append(s.climates, c)
			s.Loop.Add(d.Name, c)
		case config.TypeLTC4015:
			s.Bus.Attach(d.Address, sim.NewLTC4015(chargerRegs))
			cfg := ltc4015.DefaultConfig()
			cfg.Address = d.Address
			cfg.RSNSB_uOhm = d.RSNSB_uOhm
			cfg.RSNSI_uOhm = d.RSNSI_uOhm
			cfg.Cells = d.Cells
			cfg.Chem = ltc4015.ChemUnknown
			cfg.IinLimit_mA = d.IinLimit_mA
			if err := cfg.Validate(); err != nil {
				s.Close()
				return nil, err
			}
			c := newCharger(d.Name, ltc4015.New(s.Master, cfg), s.Clock, period)
			s.chargers = append(s.chargers, c)
			s.Loop.Add(d.Name, c)
		}
		glog.V(1).Infof("%s: %s at %#02x every %v", d.Name, d.Type, d.Address, d.Interval)
	}
	return s, nil
}

func (s *system) Close() {
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}
