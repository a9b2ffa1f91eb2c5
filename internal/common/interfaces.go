package common

import "i2cdecode/internal/dcd"

// PktDataIn is the input interface for discrete bus events, and for the
// passthrough output of a decoder feeding a stacked one.
type PktDataIn[P any] interface {
	PacketDataIn(op dcd.DatapathOp, span dcd.Span, pkt *P) dcd.DatapathResp
}

// AnnotationIn receives the annotations produced by a decoder.
// source is the component name of the producing decoder.
type AnnotationIn interface {
	AnnotationIn(span dcd.Span, source string, ann *Annotation) dcd.DatapathResp
}
