// Package regsim simulates register based I2C chips described by a
// regdec.Profile, for host side tests and dry runs of the probe tool.
package regsim

import (
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/drivers"

	"i2cdecode/internal/regdec"
)

// ErrNoDevice is returned for transfers to an address no device answers.
var ErrNoDevice = errors.New("regsim: no device at address")

var _ drivers.I2C = (*Device)(nil)

// Device is a register file answering on the addresses of its profile.
// The first written byte of a transfer selects the register, following the
// profile's auto-increment policy; further bytes are written and any reads
// are served from the selected register on.
type Device struct {
	mu      sync.Mutex
	profile *regdec.Profile
	regs    []byte
	cursor  regdec.Cursor
}

// NewDevice creates a device with all registers zero.
func NewDevice(p *regdec.Profile) *Device {
	d := &Device{
		profile: p,
		regs:    make([]byte, p.NumRegisters()),
		cursor:  regdec.NewCursor(p.NumRegisters()),
	}
	d.cursor.Select(0, p.InitialAutoInc())
	return d
}

// Profile returns the chip profile of the device.
func (d *Device) Profile() *regdec.Profile { return d.profile }

// Tx implements drivers.I2C.
func (d *Device) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F || !d.profile.HasAddress(uint8(addr)) {
		return fmt.Errorf("%w 0x%02X", ErrNoDevice, addr)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(w) > 0 {
		d.cursor.Select(d.profile.Select(w[0]))
		for _, b := range w[1:] {
			d.regs[d.cursor.Index()] = b
			d.cursor.Advance()
		}
	}
	for i := range r {
		r[i] = d.regs[d.cursor.Index()]
		d.cursor.Advance()
	}
	return nil
}

// Set stores v in register idx without bus traffic.
func (d *Device) Set(idx int, v byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs[idx] = v
}

// Get returns register idx without bus traffic.
func (d *Device) Get(idx int) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[idx]
}

// Bus routes transfers to one of several devices by address.
type Bus struct {
	devices []*Device
}

var _ drivers.I2C = (*Bus)(nil)

// NewBus creates a bus carrying devs.
func NewBus(devs ...*Device) *Bus {
	return &Bus{devices: devs}
}

// Tx implements drivers.I2C.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	for _, d := range b.devices {
		if addr <= 0x7F && d.profile.HasAddress(uint8(addr)) {
			return d.Tx(addr, w, r)
		}
	}
	return fmt.Errorf("%w 0x%02X", ErrNoDevice, addr)
}
