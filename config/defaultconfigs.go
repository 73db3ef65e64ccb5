package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name as passed to Default
// Val: raw YAML for that board
// -----------------------------------------------------------------------------

const cfgSim = `
name: sim
tick_hz: 1000
i2c:
  controller: worker
devices:
  - name: climate
    type: aht20
    interval: 2s
  - name: charger
    type: ltc4015
    interval: 1s
    rsnsb_uohm: 4000
    rsnsi_uohm: 3000
    cells: 4
    iin_limit_ma: 2000
`

const cfgBench = `
name: bench
tick_hz: 1000
i2c:
  controller: blocking
devices:
  - name: climate
    type: aht20
    interval: 500ms
`

var embeddedConfigs = map[string][]byte{
	"sim":   []byte(cfgSim),
	"bench": []byte(cfgBench),
}
