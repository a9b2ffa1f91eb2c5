// Package regdump reads and writes the registers of a profiled chip over
// any bus implementing drivers.I2C.
package regdump

import (
	"context"
	"fmt"

	"tinygo.org/x/drivers"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/regdec"
)

func txErr(what string, err error) error {
	return fmt.Errorf("regdump: %s: %w: %w", what, common.NewError(dcd.ErrSevError, dcd.ErrBusTx), err)
}

func checkTarget(p *regdec.Profile, addr uint16) error {
	if addr > 0x7F || !p.HasAddress(uint8(addr)) {
		return fmt.Errorf("regdump: 0x%02X is not a %s address", addr, p.Chip)
	}
	return nil
}

// selectByte returns the byte selecting register idx, with the
// auto-increment flag set when asked and the profile has one.
func selectByte(p *regdec.Profile, idx int, autoInc bool) byte {
	b := byte(idx) & p.SelectMask
	if autoInc && p.AutoInc == regdec.AutoIncFlagged {
		b |= p.AutoIncFlag
	}
	return b
}

// Dump reads the whole register table of the chip at addr in one
// transaction, starting at register 0.
func Dump(ctx context.Context, bus drivers.I2C, p *regdec.Profile, addr uint16) ([]byte, error) {
	if err := checkTarget(p, addr); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	regs := make([]byte, p.NumRegisters())
	if err := bus.Tx(addr, []byte{selectByte(p, 0, true)}, regs); err != nil {
		return nil, txErr(fmt.Sprintf("%s dump at 0x%02X", p.Chip, addr), err)
	}
	return regs, nil
}

// Read returns register idx.
func Read(ctx context.Context, bus drivers.I2C, p *regdec.Profile, addr uint16, idx int) (byte, error) {
	if err := checkTarget(p, addr); err != nil {
		return 0, err
	}
	if idx < 0 || idx >= p.NumRegisters() {
		return 0, fmt.Errorf("regdump: %s has no register %d", p.Chip, idx)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var v [1]byte
	if err := bus.Tx(addr, []byte{selectByte(p, idx, false)}, v[:]); err != nil {
		return 0, txErr(p.Chip+" read "+p.Registers[idx].Name, err)
	}
	return v[0], nil
}

// Write stores v in register idx.
func Write(ctx context.Context, bus drivers.I2C, p *regdec.Profile, addr uint16, idx int, v byte) error {
	if err := checkTarget(p, addr); err != nil {
		return err
	}
	if idx < 0 || idx >= p.NumRegisters() {
		return fmt.Errorf("regdump: %s has no register %d", p.Chip, idx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := bus.Tx(addr, []byte{selectByte(p, idx, false), v}, nil); err != nil {
		return txErr(p.Chip+" write "+p.Registers[idx].Name, err)
	}
	return nil
}
