package ltc4015

const (
	// 7-bit I2C address (1101_000b).
	AddressDefault = 0x68

	// --- Register sub-addresses (16-bit word registers) ---

	// Readouts / status
	regChargerState = 0x34 // R
	regChargeStatus = 0x35 // R/Clear
	regSystemStatus = 0x39 // R
	regVBAT         = 0x3A // R
	regVIN          = 0x3B // R
	regVSYS         = 0x3C // R
	regIBAT         = 0x3D // R
	regIIN          = 0x3E // R
	regDieTemp      = 0x3F // R
	regNTCRatio     = 0x40 // R
	regChemCells    = 0x43 // R
	regMeasSysValid = 0x4A // R, bit0

	// Config / control
	regConfigBits      = 0x14 // R/W (suspend, run_bsr, force_meas_sys_on, mppt_en_i2c, en_qcount)
	regIinLimitSetting = 0x15 // R/W

	// Coulomb counter
	regQCountPrescale = 0x12 // R/W
	regQCount         = 0x13 // R/W
)

// ConfigBits is the CONFIG_BITS register (0x14).
type ConfigBits uint16

const (
	CfgEnableQCount   ConfigBits = 1 << 2
	CfgMPPTEnableI2C  ConfigBits = 1 << 3
	CfgForceMeasSysOn ConfigBits = 1 << 4
	CfgRunBSR         ConfigBits = 1 << 5
	CfgSuspendCharger ConfigBits = 1 << 8
)

func (b ConfigBits) Has(flag ConfigBits) bool { return b&flag != 0 }

// SystemStatus is the SYSTEM_STATUS register (0x39).
type SystemStatus uint16

const (
	SysIntvccGt2p8V    SystemStatus = 1 << 0
	SysIntvccGt4p3V    SystemStatus = 1 << 1
	SysVinGtVbat       SystemStatus = 1 << 2
	SysVinOvlo         SystemStatus = 1 << 3
	SysThermalShutdown SystemStatus = 1 << 4
	SysNoRt            SystemStatus = 1 << 5
	SysOkToCharge      SystemStatus = 1 << 6
	SysCellCountErr    SystemStatus = 1 << 8
	SysDrvccGood       SystemStatus = 1 << 9
	SysEqualizeReq     SystemStatus = 1 << 10
	SysMPPTEnPin       SystemStatus = 1 << 11
	SysChargerEnabled  SystemStatus = 1 << 13
)

func (b SystemStatus) Has(flag SystemStatus) bool { return b&flag != 0 }

// ChargerState is the one-hot CHARGER_STATE register (0x34).
type ChargerState uint16

const (
	StateBatShortFault      ChargerState = 1 << 0
	StateBatMissingFault    ChargerState = 1 << 1
	StateMaxChargeTimeFault ChargerState = 1 << 2
	StateCOverXTerm         ChargerState = 1 << 3
	StateTimerTerm          ChargerState = 1 << 4
	StateNTCPause           ChargerState = 1 << 5
	StateCCCVCharge         ChargerState = 1 << 6
	StatePrecharge          ChargerState = 1 << 7
	StateChargerSuspended   ChargerState = 1 << 8
	StateAbsorbCharge       ChargerState = 1 << 9
	StateEqualizeCharge     ChargerState = 1 << 10
)

func (s ChargerState) Has(flag ChargerState) bool { return s&flag != 0 }

// Charging reports whether the charger is in any active charge phase.
func (s ChargerState) Charging() bool {
	return s.Has(StateCCCVCharge | StatePrecharge | StateAbsorbCharge | StateEqualizeCharge)
}
