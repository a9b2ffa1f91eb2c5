package dcdtree

import (
	"sort"

	"i2cdecode/internal/dcd"
	"i2cdecode/internal/interfaces"
)

// DecoderRegister manages decoder factories for the library.
type DecoderRegister struct {
	decoderMngrs map[string]interfaces.DecoderMngr
}

var defaultRegister = NewDecoderRegister()

// GetDecoderRegister returns the library's global singleton decoder registry.
func GetDecoderRegister() *DecoderRegister {
	return defaultRegister
}

// NewDecoderRegister creates a new decoder registry instance.
func NewDecoderRegister() *DecoderRegister {
	return &DecoderRegister{
		decoderMngrs: make(map[string]interfaces.DecoderMngr),
	}
}

// RegisterDecoderTypeByName registers a decoder manager factory under a specific name.
func (r *DecoderRegister) RegisterDecoderTypeByName(name string, mngr interfaces.DecoderMngr) dcd.Err {
	if mngr == nil || name == "" {
		return dcd.ErrInvalidParamVal
	}
	if _, exists := r.decoderMngrs[name]; exists {
		return dcd.ErrDcdregNameRepeat
	}
	r.decoderMngrs[name] = mngr
	return dcd.OK
}

// RegisterDecoder registers a factory under its own decoder ID.
func (r *DecoderRegister) RegisterDecoder(mngr interfaces.DecoderMngr) dcd.Err {
	if mngr == nil {
		return dcd.ErrInvalidParamVal
	}
	return r.RegisterDecoderTypeByName(mngr.DecoderID(), mngr)
}

// GetDecoderMngrByName retrieves a decoder factory by its registered name string.
func (r *DecoderRegister) GetDecoderMngrByName(name string) (interfaces.DecoderMngr, dcd.Err) {
	if mngr, exists := r.decoderMngrs[name]; exists {
		return mngr, dcd.OK
	}
	return nil, dcd.ErrDcdregNameUnknown
}

// DecoderNames lists the registered names in sorted order.
func (r *DecoderRegister) DecoderNames() []string {
	names := make([]string, 0, len(r.decoderMngrs))
	for name := range r.decoderMngrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
