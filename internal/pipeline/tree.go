package pipeline

import (
	"fmt"

	"i2cdecode/internal/capture"
	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/dcdtree"
	"i2cdecode/internal/i2c"
	"i2cdecode/internal/interfaces"
	"i2cdecode/internal/regdec"
)

// DecoderConfig selects one decoder of a stack.
type DecoderConfig struct {
	Name      string  // registered decoder name
	Instance  int     // instance number, appended to the component name when > 0
	Addresses []uint8 // overrides the profile's slave addresses when not empty
}

// DecodeTree is a stack of register decoders. Decoder k passes every event on
// to decoder k+1, so all decoders observe the whole bus. Annotations of every
// decoder go to one output, and the passthrough of the last decoder to an
// optional event output.
type DecodeTree struct {
	elements []*dcdtree.DecodeTreeElement
}

// NewDecodeTree creates the decoders named in cfgs, in stack order, from reg.
func NewDecodeTree(reg *dcdtree.DecoderRegister, opFlags uint32, cfgs ...DecoderConfig) (*DecodeTree, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no decoders requested")
	}
	tree := &DecodeTree{}
	for _, cfg := range cfgs {
		elem, err := createElement(reg, cfg, opFlags)
		if err != nil {
			return nil, err
		}
		if n := len(tree.elements); n > 0 {
			tree.elements[n-1].Decoder.PassOut.Attach(elem.DataIn)
		}
		tree.elements = append(tree.elements, elem)
	}
	return tree, nil
}

// NewDecodeTreeFromCapture creates the decoder stack a capture directory names.
func NewDecodeTreeFromCapture(reg *dcdtree.DecoderRegister, c *capture.Capture) (*DecodeTree, error) {
	var opFlags uint32
	if c.StickyError {
		opFlags |= dcd.OpflgStickyErrorState
	}
	cfgs := make([]DecoderConfig, len(c.Decoders))
	for i, d := range c.Decoders {
		cfgs[i] = DecoderConfig{Name: d.Name, Instance: d.Instance, Addresses: d.Addresses}
	}
	return NewDecodeTree(reg, opFlags, cfgs...)
}

func createElement(reg *dcdtree.DecoderRegister, cfg DecoderConfig, opFlags uint32) (*dcdtree.DecodeTreeElement, error) {
	mngr, err := reg.GetDecoderMngrByName(cfg.Name)
	if err != dcd.OK {
		return nil, fmt.Errorf("decoder %q: %w", cfg.Name, common.NewError(dcd.ErrSevError, err))
	}

	var config any
	if len(cfg.Addresses) > 0 {
		p := *mngr.Profile()
		p.Addresses = cfg.Addresses
		config = &p
	}
	dataIn, handle, err := mngr.CreateDecoder(cfg.Instance, config)
	if err != dcd.OK {
		return nil, fmt.Errorf("decoder %q: %w", cfg.Name, common.NewError(dcd.ErrSevError, err))
	}
	dec, ok := handle.(*regdec.PktDecode)
	if !ok {
		return nil, fmt.Errorf("decoder %q: unexpected handle type %T", cfg.Name, handle)
	}
	if err := dec.SetComponentOpMode(opFlags); err != dcd.OK {
		return nil, fmt.Errorf("decoder %q: op flags 0x%x: %w", cfg.Name, opFlags, common.NewError(dcd.ErrSevError, err))
	}
	return dcdtree.NewDecodeTreeElement(cfg.Name, mngr, dec, dataIn, true), nil
}

// Elements returns the decoders in stack order.
func (t *DecodeTree) Elements() []*dcdtree.DecodeTreeElement {
	return t.elements
}

// EventIn is the input of the stack.
func (t *DecodeTree) EventIn() interfaces.EventIn {
	return t.elements[0].DataIn
}

// SetAnnotationOut attaches out to the annotation output of every decoder.
func (t *DecodeTree) SetAnnotationOut(out interfaces.AnnotationIn) {
	for _, e := range t.elements {
		e.Decoder.AnnOut.ReplaceFirst(out)
	}
}

// SetEventOut attaches out to the passthrough of the last decoder.
func (t *DecodeTree) SetEventOut(out interfaces.EventIn) {
	t.elements[len(t.elements)-1].Decoder.PassOut.ReplaceFirst(out)
}

// MuteAnnotations stops the annotation output of the named decoders. A muted
// decoder still decodes and passes events on to the rest of the stack.
func (t *DecodeTree) MuteAnnotations(names ...string) error {
	for _, name := range names {
		found := false
		for _, e := range t.elements {
			if e.DecoderTypeName == name {
				e.Decoder.AnnOut.SetEnabled(false)
				found = true
			}
		}
		if !found {
			return fmt.Errorf("mute %q: decoder not in stack", name)
		}
	}
	return nil
}

// SetErrorLogger attaches an error logger to every decoder at the given verbosity.
func (t *DecodeTree) SetErrorLogger(log common.TraceErrorLog, level dcd.ErrSeverity) {
	for _, e := range t.elements {
		e.Decoder.ErrorLogAttachPt().ReplaceFirst(log)
		e.Decoder.SetErrorLogLevel(level)
	}
}

// ProcessEvents feeds recs through the stack. A wait response is answered
// with a flush. Processing stops at the first fatal response, which is
// returned together with the number of events consumed.
func (t *DecodeTree) ProcessEvents(recs []i2c.Record) (int, dcd.DatapathResp) {
	in := t.EventIn()
	for i := range recs {
		resp := in.PacketDataIn(dcd.OpData, recs[i].Span, &recs[i].Event)
		if dcd.DataRespIsWait(resp) {
			resp = in.PacketDataIn(dcd.OpFlush, recs[i].Span, nil)
		}
		if dcd.DataRespIsFatal(resp) {
			return i, resp
		}
	}
	return len(recs), dcd.RespCont
}

// EOT signals the end of the capture to the stack.
func (t *DecodeTree) EOT() dcd.DatapathResp {
	return t.EventIn().PacketDataIn(dcd.OpEOT, dcd.Span{}, nil)
}

// Reset puts every decoder back in its initial state.
func (t *DecodeTree) Reset() dcd.DatapathResp {
	return t.EventIn().PacketDataIn(dcd.OpReset, dcd.Span{}, nil)
}

// Run processes a complete capture: all records then end of capture.
func (t *DecodeTree) Run(recs []i2c.Record) error {
	n, resp := t.ProcessEvents(recs)
	if dcd.DataRespIsFatal(resp) {
		return fmt.Errorf("event %d (%s): %s", n, recs[n].Event, common.DataRespStr(resp))
	}
	if resp = t.EOT(); dcd.DataRespIsFatal(resp) {
		return fmt.Errorf("end of capture: %s", common.DataRespStr(resp))
	}
	return nil
}
