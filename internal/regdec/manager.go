package regdec

import (
	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
)

// DecoderManager is the registry factory for register decoders of one chip.
type DecoderManager struct {
	profile *Profile
}

// NewDecoderManager creates a factory producing decoders for p.
func NewDecoderManager(p *Profile) *DecoderManager {
	return &DecoderManager{profile: p}
}

// Profile returns the default profile of the decoders created.
func (m *DecoderManager) Profile() *Profile {
	return m.profile
}

// DecoderID returns the profile ID the manager is registered under.
func (m *DecoderManager) DecoderID() string {
	return m.profile.ID
}

// CreatePktDecode creates a decoder. config is a *Profile overriding the
// default one, or nil.
func (m *DecoderManager) CreatePktDecode(instID int, config any) any {
	cfg := m.profile
	if config != nil {
		p, ok := config.(*Profile)
		if !ok {
			return nil
		}
		cfg = p
	}
	dec := NewPktDecode(instID)
	if dec.SetProtocolConfig(cfg) != dcd.OK {
		return nil
	}
	return dec
}

func (m *DecoderManager) CreateDecoder(instID int, config any) (common.PktDataIn[i2c.Event], any, dcd.Err) {
	if config != nil {
		if _, ok := config.(*Profile); !ok {
			return nil, nil, dcd.ErrInvalidParamType
		}
	}
	decAny := m.CreatePktDecode(instID, config)
	if decAny == nil {
		return nil, nil, dcd.ErrBadProfile
	}
	dec := decAny.(*PktDecode)
	return dec, dec, dcd.OK
}
