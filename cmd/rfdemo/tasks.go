package main

import (
	"github.com/golang/glog"

	"coopdev-go/clock"
	"coopdev-go/drivers/aht20"
	"coopdev-go/drivers/ltc4015"
	"coopdev-go/protothread"
	"coopdev-go/timer"
)

// climate reads the AHT20 once per period.
type climate struct {
	protothread.Thread
	name   string
	dev    *aht20.Device
	period timer.PeriodicTimer[clock.Tick]

	reads, failures int
}

func newClimate(name string, dev *aht20.Device, src clock.Source[clock.Tick], period clock.Tick) *climate {
	return &climate{
		name:   name,
		dev:    dev,
		period: timer.NewPeriodic(src, period),
	}
}

func (c *climate) Run() bool {
	switch c.Resume() {
	case protothread.Start:
		c.Mark(1)
		fallthrough
	case 1:
		err, ok := protothread.Await(&c.Thread, c.dev.Read())
		if !ok {
			return c.IsRunning()
		}
		if err != nil {
			c.failures++
			glog.Warningf("%s: read: %v", c.name, err)
		} else {
			c.reads++
			s := c.dev.Last()
			glog.Infof("%s: %s °C %s %%RH", c.name, deci(s.DeciCelsius()), deci(s.DeciRelHumidity()))
		}
		c.Mark(2)
		fallthrough
	case 2:
		if !c.period.Execute() {
			return true
		}
		return c.Done()
	}
	return c.Exit()
}

// charger configures the LTC4015 once, then sweeps its telemetry once per
// period. A failed configuration is retried on the next period.
type charger struct {
	protothread.Thread
	name       string
	dev        *ltc4015.Device
	period     timer.PeriodicTimer[clock.Tick]
	configured bool
	tel        ltc4015.Telemetry

	sweeps, failures int
}

func newCharger(name string, dev *ltc4015.Device, src clock.Source[clock.Tick], period clock.Tick) *charger {
	return &charger{
		name:   name,
		dev:    dev,
		period: timer.NewPeriodic(src, period),
	}
}

func (c *charger) Run() bool {
	switch c.Resume() {
	case protothread.Start:
		c.Mark(1)
		fallthrough
	case 1:
		if !c.configured {
			err, ok := protothread.Await(&c.Thread, c.dev.Configure())
			if !ok {
				return c.IsRunning()
			}
			if err != nil {
				c.failures++
				glog.Warningf("%s: configure: %v", c.name, err)
				c.Mark(3)
				return true
			}
			c.configured = true
			glog.Infof("%s: %d-cell %s", c.name, c.dev.Cells(), c.dev.Chemistry())
		}
		c.Mark(2)
		fallthrough
	case 2:
		err, ok := protothread.Await(&c.Thread, c.dev.Telemetry(&c.tel))
		if !ok {
			return c.IsRunning()
		}
		if err != nil {
			c.failures++
			glog.Warningf("%s: telemetry: %v", c.name, err)
		} else {
			c.sweeps++
			glog.Infof("%s: vbat %d mV vin %d mV ibat %d mA die %s °C charging=%t",
				c.name, c.tel.Pack_mV, c.tel.Vin_mV, c.tel.IBat_mA, deci(c.tel.Die_mC/100), c.tel.State.Charging())
		}
		c.Mark(3)
		fallthrough
	case 3:
		if !c.period.Execute() {
			return true
		}
		return c.Done()
	}
	return c.Exit()
}
