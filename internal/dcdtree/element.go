package dcdtree

import (
	"i2cdecode/internal/interfaces"
	"i2cdecode/internal/regdec"
)

// DecodeTreeElement represents a decoder instance within the decode tree.
type DecodeTreeElement struct {
	DecoderTypeName string                 // Registered name of the decoder
	DecoderMngr     interfaces.DecoderMngr // Factory interface that created it
	DataIn          interfaces.EventIn     // Interface for feeding bus events
	Decoder         *regdec.PktDecode      // The decoder itself
	Created         bool                   // True if decode tree created this element
}

// NewDecodeTreeElement creates a new DecodeTreeElement record.
func NewDecodeTreeElement(name string, dcdMngr interfaces.DecoderMngr, dec *regdec.PktDecode, dataIn interfaces.EventIn, created bool) *DecodeTreeElement {
	return &DecodeTreeElement{
		DecoderTypeName: name,
		DecoderMngr:     dcdMngr,
		DataIn:          dataIn,
		Decoder:         dec,
		Created:         created,
	}
}

// Profile returns the chip profile the element's decoder runs.
func (e *DecodeTreeElement) Profile() *regdec.Profile {
	if e.Decoder != nil && e.Decoder.Config != nil {
		return e.Decoder.Config
	}
	if e.DecoderMngr != nil {
		return e.DecoderMngr.Profile()
	}
	return nil
}
