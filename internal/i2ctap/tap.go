// Package i2ctap observes I2C transfers made through the tinygo and periph
// bus interfaces and reports them as bus events, the way a logic analyser
// would see them.
package i2ctap

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"

	"i2cdecode/internal/dcd"
	bus "i2cdecode/internal/i2c"
	"i2cdecode/internal/interfaces"
)

// ErrNack is returned by a tap with no device behind it.
var ErrNack = errors.New("i2ctap: address not acknowledged")

// bit times per bus symbol
const (
	condBits = 1
	byteBits = 8
	ackBits  = 1
)

var (
	_ drivers.I2C = (*Tap)(nil)
	_ i2c.Bus     = (*Tap)(nil)
)

// speedSetter is the optional part of a periph bus.
type speedSetter interface {
	SetSpeed(f physic.Frequency) error
}

// Tap forwards transfers to an inner bus and emits the matching bus event
// sequence on its output. Spans count bit times from the first transfer.
type Tap struct {
	mu     sync.Mutex
	name   string
	inner  drivers.I2C
	out    interfaces.EventIn
	sample dcd.Index
	speed  physic.Frequency
	resp   dcd.DatapathResp
}

// New creates a tap on inner. A nil inner is an empty bus on which every
// address is not acknowledged.
func New(name string, inner drivers.I2C, out interfaces.EventIn) *Tap {
	return &Tap{name: name, inner: inner, out: out}
}

func (t *Tap) String() string {
	return dcd.CmpnamePrefixTap + "_" + t.name
}

// SetSpeed records the bus clock and passes it on when the inner bus
// supports it.
func (t *Tap) SetSpeed(f physic.Frequency) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speed = f
	if s, ok := t.inner.(speedSetter); ok {
		return s.SetSpeed(f)
	}
	return nil
}

// Speed returns the last clock set.
func (t *Tap) Speed() physic.Frequency {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

// Resp returns the most severe datapath response seen from the output.
func (t *Tap) Resp() dcd.DatapathResp {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resp
}

// Tx implements drivers.I2C and i2c.Bus. The transfer runs first so read
// data is known, then its events are emitted. A failed transfer is shown as
// a not acknowledged address.
func (t *Tap) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("i2ctap: 10-bit address 0x%X not supported", addr)
	}
	var err error
	if t.inner == nil {
		err = ErrNack
	} else {
		err = t.inner.Tx(addr, w, r)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	a := uint8(addr)
	t.emit(bus.Start(), condBits)
	if err != nil {
		if len(w) > 0 || len(r) == 0 {
			t.emit(bus.AddressWrite(a), byteBits)
		} else {
			t.emit(bus.AddressRead(a), byteBits)
		}
		t.emit(bus.Nack(), ackBits)
		t.emit(bus.Stop(), condBits)
		return err
	}

	if len(w) > 0 || len(r) == 0 {
		t.emit(bus.AddressWrite(a), byteBits)
		t.emit(bus.Ack(), ackBits)
		for _, b := range w {
			t.emit(bus.DataWrite(b), byteBits)
			t.emit(bus.Ack(), ackBits)
		}
		if len(r) > 0 {
			t.emit(bus.StartRepeat(), condBits)
		}
	}
	if len(r) > 0 {
		t.emit(bus.AddressRead(a), byteBits)
		t.emit(bus.Ack(), ackBits)
		for i, b := range r {
			t.emit(bus.DataRead(b), byteBits)
			if i == len(r)-1 {
				t.emit(bus.Nack(), ackBits)
			} else {
				t.emit(bus.Ack(), ackBits)
			}
		}
	}
	t.emit(bus.Stop(), condBits)
	return nil
}

// EOT signals the end of the capture on the output.
func (t *Tap) EOT() dcd.DatapathResp {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out == nil {
		return dcd.RespCont
	}
	resp := t.out.PacketDataIn(dcd.OpEOT, dcd.MakeSpan(t.sample, t.sample), nil)
	t.resp = dcd.WorstResp(t.resp, resp)
	return resp
}

func (t *Tap) emit(ev bus.Event, bits dcd.Index) {
	span := dcd.MakeSpan(t.sample, t.sample+bits)
	t.sample += bits
	if t.out == nil {
		return
	}
	t.resp = dcd.WorstResp(t.resp, t.out.PacketDataIn(dcd.OpData, span, &ev))
}
