// Package pca9641 describes the NXP PCA9641 two-channel I2C bus arbiter.
package pca9641

import (
	"fmt"

	"i2cdecode/internal/regdec"
)

const (
	// 7-bit I2C address with all address pins low.
	AddressDefault = 0x73

	// Control byte: register number in [2:0], auto-increment in bit 7.
	selectMask  = 0x07
	autoIncFlag = 0x80
)

// Register indices.
const (
	RegID = iota
	RegControl
	RegStatus
	RegReserveTime
	RegInterruptStatus
	RegInterruptMask
	RegMailboxLo
	RegMailboxHi
)

var controlBits = []regdec.BitFlag{
	{Bit: 3, Name: "INI"},
	{Bit: 2, Name: "CON"},
	{Bit: 1, Name: "GRNT"},
	{Bit: 0, Name: "REQ"},
}

var statusBits = []regdec.BitFlag{
	{Bit: 4, Name: "MF"},
	{Bit: 3, Name: "ME"},
	{Bit: 2, Name: "HUNG"},
	{Bit: 1, Name: "INIFAIL"},
	{Bit: 0, Name: "OLCK"},
}

var interruptBits = []regdec.BitFlag{
	{Bit: 6, Name: "HUNG"},
	{Bit: 5, Name: "MF"},
	{Bit: 4, Name: "ME"},
	{Bit: 3, Name: "TST"},
	{Bit: 2, Name: "GNT"},
	{Bit: 1, Name: "LOST"},
	{Bit: 0, Name: "IN"},
}

func decodeControl(v uint8) string   { return regdec.FormatFlags(v, controlBits...) }
func decodeStatus(v uint8) string    { return regdec.FormatFlags(v, statusBits...) }
func decodeInterrupt(v uint8) string { return regdec.FormatFlags(v, interruptBits...) }

// decodeReserveTime renders the bus reservation time, 0 meaning unlimited.
func decodeReserveTime(v uint8) string {
	if v == 0 {
		return "No time limit"
	}
	return fmt.Sprintf("Time limit %d ms", v)
}

// NewProfile returns the PCA9641 register decoder profile.
func NewProfile() *regdec.Profile {
	return &regdec.Profile{
		ID:       "pca9641",
		Name:     "PCA9641 (Arbiter)",
		LongName: "NXP PCA9641",
		Desc:     "NXP PCA9641 I2C arbiter protocol.",

		Chip:      "PCA9641",
		ChipLabel: "PCA9641 Arbiter",
		ChipShort: "Arb",
		ChipTag:   "info-arb-addr",
		ChipDesc:  "Tag arbiter address",

		Addresses: []uint8{AddressDefault},
		Registers: []regdec.Register{
			RegID:              {Tag: "reg-id", Desc: "ID Register", Name: "ID", Short: "ID"},
			RegControl:         {Tag: "reg-contr", Desc: "Control Register", Name: "CONTR", Short: "CONTR", Decode: decodeControl},
			RegStatus:          {Tag: "reg-stat", Desc: "Status Register", Name: "STAT", Short: "STAT", Decode: decodeStatus},
			RegReserveTime:     {Tag: "reg-rsrv-time", Desc: "Reserve Time Register", Name: "RSRV", Short: "RSRV", Decode: decodeReserveTime},
			RegInterruptStatus: {Tag: "reg-intr-stat", Desc: "Interrupt Status Register", Name: "INTRST", Short: "INTRS", Decode: decodeInterrupt},
			RegInterruptMask:   {Tag: "reg-intr-mask", Desc: "Interrupt Mask Register", Name: "INTRMSK", Short: "INTRM"},
			RegMailboxLo:       {Tag: "reg-mb-lo", Desc: "Mailbox Low Register", Name: "MB LO", Short: "MB LO"},
			RegMailboxHi:       {Tag: "reg-mb-hi", Desc: "Mailbox High Register", Name: "MB HI", Short: "MB HI"},
		},

		SelectMask:  selectMask,
		AutoInc:     regdec.AutoIncFlagged,
		AutoIncFlag: autoIncFlag,
	}
}

// NewDecoderManager returns the registry factory for PCA9641 decoders.
func NewDecoderManager() *regdec.DecoderManager {
	return regdec.NewDecoderManager(NewProfile())
}
