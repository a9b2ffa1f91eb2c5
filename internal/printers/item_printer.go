package printers

import (
	"fmt"
	"io"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/printer"
)

// ItemPrinter is the common base of the line printers.
type ItemPrinter struct {
	writer       io.Writer
	errLog       common.TraceErrorLog
	testWaits    int
	muted        bool
	idxPrintMute bool
	lines        int
}

// NewItemPrinter constructs an ItemPrinter using the given io.Writer.
func NewItemPrinter(writer io.Writer) *ItemPrinter {
	return &ItemPrinter{
		writer: writer,
	}
}

// SetMessageLogger sets the optional error logger for the printer.
func (p *ItemPrinter) SetMessageLogger(logger common.TraceErrorLog) {
	p.errLog = logger
}

// ItemPrintLine writes the given message to the writer and optionally logs it.
func (p *ItemPrinter) ItemPrintLine(msg string) {
	p.lines++
	if p.writer != nil {
		fmt.Fprint(p.writer, msg)
	}
	if p.errLog != nil {
		p.errLog.LogMessage(dcd.ErrSevInfo, msg)
	}
}

// LinesPrinted returns the number of lines output so far.
func (p *ItemPrinter) LinesPrinted() int { return p.lines }

// SetTestWaits configures the printer to return wait responses for a number of items.
func (p *ItemPrinter) SetTestWaits(numWaits int) { p.testWaits = numWaits }

// TestWaits gets the remaining number of test wait responses to return.
func (p *ItemPrinter) TestWaits() int { return p.testWaits }

// DecTestWaits decrements the number of test wait responses remaining.
func (p *ItemPrinter) DecTestWaits() { p.testWaits-- }

// SetMute sets the printer to mute (avoids output).
func (p *ItemPrinter) SetMute(mute bool) { p.muted = mute }

// IsMuted returns true if the printer is muted.
func (p *ItemPrinter) IsMuted() bool { return p.muted }

// MuteIdxPrint mutes or unmutes printing the sample span in the output lines.
func (p *ItemPrinter) MuteIdxPrint(mute bool) { p.idxPrintMute = mute }

// IdxPrintMuted returns whether span printing is muted.
func (p *ItemPrinter) IdxPrintMuted() bool { return p.idxPrintMute }

// nextResp returns the response for the item just printed.
func (p *ItemPrinter) nextResp() dcd.DatapathResp {
	if p.testWaits > 0 {
		p.testWaits--
		return dcd.RespWait
	}
	return dcd.RespCont
}

func (p *ItemPrinter) spanPrefix(span dcd.Span) string {
	if p.idxPrintMute {
		return ""
	}
	return printer.FormatSpan(uint64(span.Start), uint64(span.End))
}
