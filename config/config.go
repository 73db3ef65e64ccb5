// Package config loads the board description: tick rate, bus controller and
// the devices the super loop drives.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"coopdev-go/errcode"
)

// Device types.
const (
	TypeAHT20   = "aht20"
	TypeLTC4015 = "ltc4015"
)

// Controllers.
const (
	ControllerBlocking = "blocking"
	ControllerWorker   = "worker"
)

const (
	defaultTickHz   = 1000
	defaultInterval = time.Second
)

var defaultAddress = map[string]uint16{
	TypeAHT20:   0x38,
	TypeLTC4015: 0x68,
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

type Board struct {
	Name    string   `yaml:"name"`
	TickHz  uint32   `yaml:"tick_hz"`
	I2C     I2C      `yaml:"i2c"`
	Devices []Device `yaml:"devices"`
}

type I2C struct {
	// Controller is "blocking" (transfer completes inside Start) or
	// "worker" (transfer runs on a goroutine, polled for completion).
	Controller string `yaml:"controller"`
}

type Device struct {
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	Address  uint16        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`

	// LTC4015 only.
	RSNSB_uOhm  uint32 `yaml:"rsnsb_uohm"`
	RSNSI_uOhm  uint32 `yaml:"rsnsi_uohm"`
	Cells       uint8  `yaml:"cells"`
	IinLimit_mA int32  `yaml:"iin_limit_ma"`
}

// Parse decodes and validates a board description.
func Parse(raw []byte) (*Board, error) {
	var b Board
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("config: %w", errcode.Wrap(errcode.InvalidConfig, "parse", err))
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Load reads a board description from path.
func Load(path string) (*Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(raw)
}

// Default returns the embedded board description for name.
func Default(name string) (*Board, error) {
	raw, ok := EmbeddedConfigLookup(name)
	if !ok || len(raw) == 0 {
		return nil, invalid(errcode.UnknownDevice, "default", "no embedded config for board: "+name)
	}
	return Parse(raw)
}

// Validate fills in defaults and rejects descriptions the runtime cannot
// build.
func (b *Board) Validate() error {
	if b.TickHz == 0 {
		b.TickHz = defaultTickHz
	}
	switch b.I2C.Controller {
	case "":
		b.I2C.Controller = ControllerWorker
	case ControllerBlocking, ControllerWorker:
	default:
		return invalid(errcode.InvalidConfig, "i2c", "unknown controller "+b.I2C.Controller)
	}
	if len(b.Devices) == 0 {
		return invalid(errcode.InvalidConfig, "devices", "board has no devices")
	}

	seen := make(map[string]bool, len(b.Devices))
	addrs := make(map[uint16]string, len(b.Devices))
	for i := range b.Devices {
		d := &b.Devices[i]
		if d.Name == "" {
			d.Name = fmt.Sprintf("%s%d", d.Type, i)
		}
		if seen[d.Name] {
			return invalid(errcode.InvalidConfig, d.Name, "duplicate device name")
		}
		seen[d.Name] = true

		def, ok := defaultAddress[d.Type]
		if !ok {
			return invalid(errcode.UnknownDevice, d.Name, "unknown type "+d.Type)
		}
		if d.Address == 0 {
			d.Address = def
		}
		if d.Address > 0x7F {
			return invalid(errcode.InvalidConfig, d.Name, fmt.Sprintf("address %#x is not 7-bit", d.Address))
		}
		if other, dup := addrs[d.Address]; dup {
			return invalid(errcode.InvalidConfig, d.Name, "address shared with "+other)
		}
		addrs[d.Address] = d.Name

		if d.Interval <= 0 {
			d.Interval = defaultInterval
		}
		if d.Type == TypeLTC4015 && (d.RSNSB_uOhm == 0 || d.RSNSI_uOhm == 0) {
			return invalid(errcode.InvalidConfig, d.Name, "sense resistors must be set")
		}
	}
	return nil
}

func invalid(c errcode.Code, op, msg string) error {
	return fmt.Errorf("config: %w", &errcode.E{C: c, Op: op, Msg: msg})
}
