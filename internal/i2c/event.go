// Package i2c holds the bus event model consumed by the register decoders.
package i2c

import (
	"fmt"

	"i2cdecode/internal/dcd"
)

// Cmd is the kind of an I2C bus event as reported by a byte level decoder.
type Cmd int

const (
	CmdStart Cmd = iota
	CmdStartRepeat
	CmdStop
	CmdAddressWrite
	CmdAddressRead
	CmdDataWrite
	CmdDataRead
	CmdAck
	CmdNack
)

var cmdNames = [...]string{
	CmdStart:        "START",
	CmdStartRepeat:  "START REPEAT",
	CmdStop:         "STOP",
	CmdAddressWrite: "ADDRESS WRITE",
	CmdAddressRead:  "ADDRESS READ",
	CmdDataWrite:    "DATA WRITE",
	CmdDataRead:     "DATA READ",
	CmdAck:          "ACK",
	CmdNack:         "NACK",
}

func (c Cmd) String() string {
	if c < 0 || int(c) >= len(cmdNames) {
		return "UNKNOWN"
	}
	return cmdNames[c]
}

// HasData is true for the commands that carry a byte payload.
func (c Cmd) HasData() bool {
	switch c {
	case CmdAddressWrite, CmdAddressRead, CmdDataWrite, CmdDataRead:
		return true
	}
	return false
}

// ParseCmd maps a command name onto a Cmd. Names match String(); underscores
// may stand in for spaces and case is ignored.
func ParseCmd(name string) (Cmd, error) {
	norm := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b == '_' || b == '-':
			b = ' '
		case b >= 'a' && b <= 'z':
			b -= 'a' - 'A'
		}
		norm = append(norm, b)
	}
	for c, n := range cmdNames {
		if n == string(norm) {
			return Cmd(c), nil
		}
	}
	return 0, fmt.Errorf("unknown I2C command %q", name)
}

// Event is one bus event. Data is only meaningful when Cmd.HasData().
type Event struct {
	Cmd  Cmd
	Data uint8
}

func (e Event) String() string {
	if e.Cmd.HasData() {
		return fmt.Sprintf("%s 0x%02X", e.Cmd, e.Data)
	}
	return e.Cmd.String()
}

// Event constructors, in bus order.

func Start() Event               { return Event{Cmd: CmdStart} }
func StartRepeat() Event         { return Event{Cmd: CmdStartRepeat} }
func Stop() Event                { return Event{Cmd: CmdStop} }
func AddressWrite(a uint8) Event { return Event{Cmd: CmdAddressWrite, Data: a} }
func AddressRead(a uint8) Event  { return Event{Cmd: CmdAddressRead, Data: a} }
func DataWrite(b uint8) Event    { return Event{Cmd: CmdDataWrite, Data: b} }
func DataRead(b uint8) Event     { return Event{Cmd: CmdDataRead, Data: b} }
func Ack() Event                 { return Event{Cmd: CmdAck} }
func Nack() Event                { return Event{Cmd: CmdNack} }

// Record is an event together with the sample span it was observed over.
type Record struct {
	Span  dcd.Span
	Event Event
}

// Sequence assigns consecutive unit spans to events, starting at sample 0.
// Useful when the source has no timing information.
func Sequence(events ...Event) []Record {
	recs := make([]Record, len(events))
	for i, ev := range events {
		recs[i] = Record{Span: dcd.MakeSpan(dcd.Index(i), dcd.Index(i+1)), Event: ev}
	}
	return recs
}
