// Package pcal6408a describes the NXP PCAL6408A 8-bit I2C IO expander.
package pcal6408a

import (
	"strings"

	"i2cdecode/internal/regdec"
)

// 7-bit I2C addresses, selected by the ADDR pin.
const (
	AddressLow  = 0x20
	AddressHigh = 0x21
)

// Register indices.
const (
	RegInputPort = iota
	RegOutputPort
	RegPolarity
	RegConfig
	RegDriveStrength1
	RegDriveStrength2
	RegInputLatch
	RegPullEnable
	RegPullSelect
	RegInterruptMask
	RegInterruptStatus
	RegOutputConfig
)

// decodeConfig renders the pin directions, P7 first: I for input, O for output.
func decodeConfig(v uint8) string {
	var sb strings.Builder
	for bit := 7; bit >= 0; bit-- {
		if bit == 3 {
			sb.WriteByte('_')
		}
		if v&(1<<bit) != 0 {
			sb.WriteByte('I')
		} else {
			sb.WriteByte('O')
		}
	}
	return sb.String()
}

// NewProfile returns the PCAL6408A register decoder profile.
func NewProfile() *regdec.Profile {
	return &regdec.Profile{
		ID:       "pcal6408a",
		Name:     "PCAL6408A (IOExpander)",
		LongName: "NXP PCAL6408A",
		Desc:     "NXP PCAL6408A I2C IO Expander",

		Chip:      "PCAL6408A",
		ChipLabel: "PCAL6408A IO Expander",
		ChipShort: "IOExp",
		ChipTag:   "info-addr",
		ChipDesc:  "Tag IO Expander address",

		Addresses: []uint8{AddressLow, AddressHigh},
		Registers: []regdec.Register{
			RegInputPort:       {Tag: "reg-ip", Desc: "Input Port Register", Name: "I/P Port", Short: "I/P"},
			RegOutputPort:      {Tag: "reg-op", Desc: "Output Port Register", Name: "O/P Port", Short: "O/P"},
			RegPolarity:        {Tag: "reg-pol", Desc: "Polarity Inversion Register", Name: "Polarity", Short: "Pol"},
			RegConfig:          {Tag: "reg-conf", Desc: "Configuration Register", Name: "Config", Short: "Conf", Decode: decodeConfig},
			RegDriveStrength1:  {Tag: "reg-drvs1", Desc: "Output Drive Strength 1 Register", Name: "O/P Drive Strength 1", Short: "O/P Drv 1"},
			RegDriveStrength2:  {Tag: "reg-drvs2", Desc: "Output Drive Strength 2 Register", Name: "O/P Drive Strength 2", Short: "O/P Drv 2"},
			RegInputLatch:      {Tag: "reg-ipl", Desc: "Input Latch Register", Name: "I/P Latch", Short: "I/P Lt"},
			RegPullEnable:      {Tag: "reg-pullena", Desc: "Pull-up/down Enable Register", Name: "Pull-Up/Dwn Ena", Short: "PUE"},
			RegPullSelect:      {Tag: "reg-pullsel", Desc: "Pull-up/down Selection Register", Name: "Pull-Up/Dwn Sel", Short: "PUS"},
			RegInterruptMask:   {Tag: "reg-intrm", Desc: "Interrupt Mask Register", Name: "Intr Mask", Short: "IM"},
			RegInterruptStatus: {Tag: "reg-intrs", Desc: "Interrupt Status Register", Name: "Intr Status", Short: "IS"},
			RegOutputConfig:    {Tag: "reg-outconf", Desc: "Output Port Configuration Register", Name: "O/P Port Cfg", Short: "O/P Prt Cfg"},
		},

		// the whole command byte selects the register
		SelectMask: 0xFF,
		AutoInc:    regdec.AutoIncAlways,
	}
}

// NewDecoderManager returns the registry factory for PCAL6408A decoders.
func NewDecoderManager() *regdec.DecoderManager {
	return regdec.NewDecoderManager(NewProfile())
}
