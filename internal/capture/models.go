package capture

import "i2cdecode/internal/i2c"

// Info stores version and description from capture.ini
type Info struct {
	Version     string
	Description string
}

// DecoderDef stores one entry of the decoder stack.
type DecoderDef struct {
	Name      string
	Instance  int
	Addresses []uint8 // overrides the profile addresses when not empty
}

// Capture is a parsed capture directory description.
type Capture struct {
	Dir         string
	Info        Info
	EventFiles  []string
	Decoders    []DecoderDef
	StickyError bool
}

// DecoderNames returns the decoder stack names in order.
func (c *Capture) DecoderNames() []string {
	names := make([]string, len(c.Decoders))
	for i, d := range c.Decoders {
		names[i] = d.Name
	}
	return names
}

// EventSource is a named list of timestamped bus events.
type EventSource struct {
	Name    string
	Records []i2c.Record
}
