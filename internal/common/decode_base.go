package common

import (
	"i2cdecode/internal/dcd"
)

// PktDecodeI is the protocol independent part of a bus event decoder:
// annotation output, init checks and the hooks the concrete decoder fills in.
type PktDecodeI struct {
	TraceComponent

	AnnOut AttachPt[AnnotationIn]

	SpanCurrPkt dcd.Span
	Stats       dcd.DecodeStats

	decodeInitOK bool
	configInitOK bool
	initErrMsg   string

	// Functions to be implemented by derived structures
	FnProcessPacket    func() dcd.DatapathResp
	FnOnEOT            func() dcd.DatapathResp
	FnOnReset          func() dcd.DatapathResp
	FnOnFlush          func() dcd.DatapathResp
	FnOnProtocolConfig func() dcd.Err
	FnOnFirstInitOK    func()
}

func (p *PktDecodeI) InitPktDecodeI(name string) {
	p.InitTraceComponent(name)
}

func (p *PktDecodeI) CheckInit() bool {
	if !p.decodeInitOK {
		if !p.configInitOK {
			p.initErrMsg = "No decoder configuration information"
		} else if !p.AnnOut.HasAttached() {
			p.initErrMsg = "No annotation output interface attached"
		} else {
			p.decodeInitOK = true
		}
		if p.decodeInitOK && p.FnOnFirstInitOK != nil {
			p.FnOnFirstInitOK()
		}
	}
	return p.decodeInitOK
}

// OutputAnnotation sends an annotation covering the span of the current event.
func (p *PktDecodeI) OutputAnnotation(ann *Annotation) dcd.DatapathResp {
	return p.OutputAnnotationSpan(p.SpanCurrPkt, ann)
}

// OutputAnnotationSpan sends an annotation covering an explicit span. While
// the output is disabled the annotation is counted and dropped.
func (p *PktDecodeI) OutputAnnotationSpan(span dcd.Span, ann *Annotation) dcd.DatapathResp {
	if !p.AnnOut.HasAttached() {
		return dcd.RespFatalNotInit
	}
	p.Stats.Annotations++
	if !p.AnnOut.HasAttachedAndEnabled() {
		return dcd.RespCont
	}
	return p.AnnOut.First().AnnotationIn(span, p.ComponentName(), ann)
}

// DecodeStats returns the decoder counters.
func (p *PktDecodeI) DecodeStats() *dcd.DecodeStats {
	return &p.Stats
}

// PktDecodeBase is the generic decoder base for event type P and config Pc.
// Every data event is forwarded unchanged on PassOut before the decoder
// sees it, so stacked decoders observe the same stream.
type PktDecodeBase[P any, Pc any] struct {
	PktDecodeI
	PassOut      AttachPt[PktDataIn[P]]
	Config       *Pc
	CurrPacketIn *P
}

func (pb *PktDecodeBase[P, Pc]) InitPktDecodeBase(name string) {
	pb.InitPktDecodeI(name)
}

func (pb *PktDecodeBase[P, Pc]) PacketDataIn(op dcd.DatapathOp, span dcd.Span, pktIn *P) dcd.DatapathResp {
	resp := dcd.RespCont
	if !pb.CheckInit() {
		pb.LogError(NewErrorMsg(dcd.ErrSevError, dcd.ErrNotInit, pb.initErrMsg))
		return dcd.RespFatalNotInit
	}

	switch op {
	case dcd.OpData:
		if pktIn == nil {
			pb.LogError(NewErrorMsg(dcd.ErrSevError, dcd.ErrInvalidParamVal, "nil bus event"))
			return dcd.RespFatalInvalidParam
		}
		pb.Stats.EventsIn++
		resp = pb.passThrough(op, span, pktIn)
		if dcd.DataRespIsFatal(resp) {
			return resp
		}
		pb.CurrPacketIn = pktIn
		pb.SpanCurrPkt = span
		if pb.FnProcessPacket != nil {
			resp = dcd.WorstResp(resp, pb.FnProcessPacket())
		}
	case dcd.OpEOT:
		if pb.FnOnEOT != nil {
			resp = pb.FnOnEOT()
		}
		if !dcd.DataRespIsFatal(resp) {
			resp = dcd.WorstResp(resp, pb.passThrough(op, span, nil))
		}
	case dcd.OpFlush:
		resp = pb.passThrough(op, span, nil)
		if dcd.DataRespIsCont(resp) && pb.FnOnFlush != nil {
			resp = dcd.WorstResp(resp, pb.FnOnFlush())
		}
	case dcd.OpReset:
		resp = pb.passThrough(op, span, nil)
		if !dcd.DataRespIsFatal(resp) && pb.FnOnReset != nil {
			resp = pb.FnOnReset()
		}
	default:
		pb.LogError(NewErrorMsg(dcd.ErrSevError, dcd.ErrInvalidParamVal, "unknown datapath operation"))
		resp = dcd.RespFatalInvalidOp
	}
	return resp
}

func (pb *PktDecodeBase[P, Pc]) passThrough(op dcd.DatapathOp, span dcd.Span, pkt *P) dcd.DatapathResp {
	if !pb.PassOut.HasAttachedAndEnabled() {
		return dcd.RespCont
	}
	if op == dcd.OpData {
		pb.Stats.Passthrough++
	}
	return pb.PassOut.First().PacketDataIn(op, span, pkt)
}

func (pb *PktDecodeBase[P, Pc]) SetProtocolConfig(config *Pc) dcd.Err {
	if config != nil {
		pb.Config = config
		if pb.FnOnProtocolConfig != nil {
			err := pb.FnOnProtocolConfig()
			if err == dcd.OK {
				pb.configInitOK = true
			}
			return err
		}
		pb.configInitOK = true
		return dcd.OK
	}
	return dcd.ErrInvalidParamVal
}
