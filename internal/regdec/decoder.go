package regdec

import (
	"fmt"
	"strings"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
)

type decoderState int

const (
	stIdle decoderState = iota
	stAwaitSlaveAddr
	stAwaitWriteRegAddr
	stWhichOp
	stRegReads
	stRegWrites
	stError
)

func (s decoderState) String() string {
	switch s {
	case stIdle:
		return "IDLE"
	case stAwaitSlaveAddr:
		return "GET_SLAVE_ADDR"
	case stAwaitWriteRegAddr:
		return "GET_WR_REG_ADDR"
	case stWhichOp:
		return "WHICH_OP"
	case stRegReads:
		return "REG_READS"
	case stRegWrites:
		return "REG_WRITES"
	case stError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// PktDecode decodes I2C bus events into register access annotations for
// the chip described by its Profile.
type PktDecode struct {
	common.PktDecodeBase[i2c.Event, Profile]

	instID     int
	currState  decoderState
	cursor     Cursor
	blockStart dcd.Index
}

// NewPktDecode creates a register decoder. It needs a profile from
// SetProtocolConfig and an attached annotation output before use.
func NewPktDecode(instID int) *PktDecode {
	d := &PktDecode{instID: instID}
	d.InitPktDecodeBase(dcd.CmpnamePrefixPktdec + "_REGDEC")
	d.FnProcessPacket = d.processPacket
	d.FnOnEOT = d.onEOT
	d.FnOnReset = d.onReset
	d.FnOnFlush = d.onFlush
	d.FnOnProtocolConfig = d.onProtocolConfig
	d.SetSupportedOpModes(dcd.OpflgPktdecCommon)
	return d
}

// SetProtocolConfig sets the chip profile.
func (d *PktDecode) SetProtocolConfig(p *Profile) dcd.Err {
	return d.PktDecodeBase.SetProtocolConfig(p)
}

// RegisterIndex returns the register the next access will hit.
func (d *PktDecode) RegisterIndex() int {
	return d.cursor.Index()
}

// AutoIncrement reports whether accesses currently advance the register.
func (d *PktDecode) AutoIncrement() bool {
	return d.cursor.AutoInc()
}

// Idle reports whether the decoder is between transactions.
func (d *PktDecode) Idle() bool {
	return d.currState == stIdle
}

func (d *PktDecode) onProtocolConfig() dcd.Err {
	if err := d.Config.Validate(); err != nil {
		d.LogError(common.NewErrorMsg(dcd.ErrSevError, dcd.ErrBadProfile, err.Error()))
		return dcd.ErrBadProfile
	}
	name := dcd.CmpnamePrefixPktdec + "_" + strings.ToUpper(d.Config.ID)
	if d.instID > 0 {
		name = fmt.Sprintf("%s_%d", name, d.instID)
	}
	d.SetComponentName(name)
	d.resetDecoder()
	return dcd.OK
}

func (d *PktDecode) resetDecoder() {
	d.currState = stIdle
	d.blockStart = 0
	d.cursor = NewCursor(d.Config.NumRegisters())
	d.cursor.Select(0, d.Config.InitialAutoInc())
}

func (d *PktDecode) onReset() dcd.DatapathResp {
	d.resetDecoder()
	return dcd.RespCont
}

func (d *PktDecode) onFlush() dcd.DatapathResp {
	// nothing buffered
	return dcd.RespCont
}

func (d *PktDecode) onEOT() dcd.DatapathResp {
	if d.currState != stIdle {
		d.LogMessagef(dcd.ErrSevInfo, "%s: capture ended in state %s", d.ComponentName(), d.currState)
	}
	d.currState = stIdle
	return dcd.RespCont
}

func (d *PktDecode) processPacket() dcd.DatapathResp {
	ev := d.CurrPacketIn
	d.LogMessagef(dcd.ErrSevDebug, "%s: Idx:%d-%d; %s; state %s",
		d.ComponentName(), d.SpanCurrPkt.Start, d.SpanCurrPkt.End, ev, d.currState)

	// STOP ends any transaction, whatever state we are in.
	if ev.Cmd == i2c.CmdStop {
		d.currState = stIdle
		return dcd.RespCont
	}

	resp := dcd.RespCont
	switch d.currState {
	case stIdle:
		if ev.Cmd == i2c.CmdStart {
			d.Stats.Transactions++
			d.blockStart = d.SpanCurrPkt.Start
			d.currState = stAwaitSlaveAddr
		}

	case stAwaitSlaveAddr:
		switch ev.Cmd {
		case i2c.CmdAddressWrite, i2c.CmdAddressRead:
			var ok bool
			if ok, resp = d.checkChip(ev.Data); !ok {
				d.currState = stIdle
			} else if ev.Cmd == i2c.CmdAddressWrite {
				d.currState = stAwaitWriteRegAddr
			} else {
				d.currState = stRegReads
			}
		default:
			d.unexpected(ev, false)
		}

	case stAwaitWriteRegAddr:
		switch ev.Cmd {
		case i2c.CmdAck:
		case i2c.CmdDataWrite:
			idx, autoInc := d.Config.Select(ev.Data)
			d.cursor.Select(idx, autoInc)
			resp = d.OutputAnnotation(common.NewAnnotation(ClassChip, d.Config.ChipTag, SelectLabels(idx, autoInc)...))
			d.currState = stWhichOp
		default:
			d.unexpected(ev, false)
		}

	case stWhichOp:
		switch ev.Cmd {
		case i2c.CmdAck:
		case i2c.CmdStartRepeat:
			d.currState = stAwaitSlaveAddr
		case i2c.CmdDataWrite:
			resp = d.decodeRegister(ev.Data)
			if d.cursor.AutoInc() {
				d.currState = stRegWrites
			} else {
				d.currState = stIdle
			}
		case i2c.CmdDataRead:
			// read straight after the select, no repeated START seen
			resp = d.decodeRegister(ev.Data)
			d.currState = stRegReads
		default:
			d.unexpected(ev, true)
		}

	case stRegReads:
		switch ev.Cmd {
		case i2c.CmdAck:
		case i2c.CmdNack:
			// master is done reading, STOP follows
			d.currState = stIdle
		case i2c.CmdDataRead:
			resp = d.decodeRegister(ev.Data)
		default:
			d.unexpected(ev, false)
		}

	case stRegWrites:
		switch ev.Cmd {
		case i2c.CmdAck:
		case i2c.CmdDataWrite:
			resp = d.decodeRegister(ev.Data)
		default:
			d.unexpected(ev, true)
		}

	case stError:
		// wait for STOP
	}
	return resp
}

// checkChip runs the identity match on an address phase and emits either the
// identification or the ignored-slave annotation.
func (d *PktDecode) checkChip(addr uint8) (bool, dcd.DatapathResp) {
	if d.Config.Matches(addr) {
		d.Stats.Identified++
		return true, d.OutputAnnotation(common.NewAnnotation(ClassChip, d.Config.ChipTag, d.Config.ChipLabels()...))
	}
	d.Stats.Ignored++
	span := dcd.MakeSpan(d.blockStart, d.SpanCurrPkt.End)
	ann := common.NewAnnotation(d.Config.ClassIgnored(), IgnoredTag, d.Config.IgnoredLabels(addr)...)
	return false, d.OutputAnnotationSpan(span, ann)
}

func (d *PktDecode) decodeRegister(v uint8) dcd.DatapathResp {
	idx := d.cursor.Index()
	if idx < 0 || idx >= d.Config.NumRegisters() {
		panic(fmt.Sprintf("regdec: %s register index %d outside table of %d", d.Config.ID, idx, d.Config.NumRegisters()))
	}
	reg := &d.Config.Registers[idx]
	d.Stats.RegAccesses++
	resp := d.OutputAnnotation(common.NewAnnotation(ClassRegister(idx), reg.Tag, reg.Labels(v)...))
	d.cursor.Advance()
	return resp
}

// unexpected handles an event that does not fit the current state. It is
// dropped and the decoder returns to idle, or with sticky set and the sticky
// error op mode on, waits in the error state for STOP.
func (d *PktDecode) unexpected(ev *i2c.Event, sticky bool) {
	d.Stats.ProtocolErrs++
	next := stIdle
	if sticky && d.ComponentOpMode()&dcd.OpflgStickyErrorState != 0 {
		next = stError
	}
	d.LogError(common.NewErrorWithIdxMsg(dcd.ErrSevWarn, dcd.ErrBadPacketSeq, d.SpanCurrPkt.Start,
		fmt.Sprintf("unexpected %s in state %s", ev.Cmd, d.currState)))
	d.currState = next
}
