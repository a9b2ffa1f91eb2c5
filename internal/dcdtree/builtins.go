package dcdtree

import (
	"i2cdecode/internal/pca9641"
	"i2cdecode/internal/pcal6408a"
)

// Built-in decoder names.
const (
	BuiltinDcdPCA9641   = "pca9641"
	BuiltinDcdPCAL6408A = "pcal6408a"
)

// init runs on package load to register standard decoders.
func init() {
	reg := GetDecoderRegister()
	_ = reg.RegisterDecoderTypeByName(BuiltinDcdPCA9641, pca9641.NewDecoderManager())
	_ = reg.RegisterDecoderTypeByName(BuiltinDcdPCAL6408A, pcal6408a.NewDecoderManager())
}
