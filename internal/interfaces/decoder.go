package interfaces

import (
	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
	"i2cdecode/internal/regdec"
)

// EventIn is the datapath input of a register decoder and of anything
// stacked on a decoder's passthrough output.
type EventIn = common.PktDataIn[i2c.Event]

// AnnotationIn receives decoded annotations.
type AnnotationIn = common.AnnotationIn

// DecoderMngr is the interface for a register decoder factory.
// It creates decoders for a specific chip profile.
type DecoderMngr interface {
	CreatePktDecode(instID int, config any) any
	CreateDecoder(instID int, config any) (EventIn, any, dcd.Err)
	DecoderID() string
	Profile() *regdec.Profile
}
