package printers

import (
	"io"

	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
)

// EventPrinter prints raw bus events, typically those passed through the
// last decoder of a stack.
type EventPrinter struct {
	ItemPrinter
	lastOp dcd.DatapathOp
}

// NewEventPrinter creates an event printer writing to writer.
func NewEventPrinter(writer io.Writer) *EventPrinter {
	return &EventPrinter{ItemPrinter: *NewItemPrinter(writer)}
}

// PacketDataIn implements common.PktDataIn[i2c.Event].
func (p *EventPrinter) PacketDataIn(op dcd.DatapathOp, span dcd.Span, ev *i2c.Event) dcd.DatapathResp {
	p.lastOp = op
	switch op {
	case dcd.OpData:
		if ev == nil {
			return dcd.RespFatalInvalidParam
		}
		if !p.IsMuted() {
			p.ItemPrintLine(p.spanPrefix(span) + ev.String() + "\n")
		}
		return p.nextResp()
	case dcd.OpEOT:
		if !p.IsMuted() {
			p.ItemPrintLine("**** END OF CAPTURE ****\n")
		}
	}
	return dcd.RespCont
}

// LastOp returns the most recent datapath operation seen.
func (p *EventPrinter) LastOp() dcd.DatapathOp { return p.lastOp }
