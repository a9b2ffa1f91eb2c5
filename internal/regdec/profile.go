// Package regdec turns I2C bus events into register access annotations for a
// chip described by a Profile.
package regdec

import (
	"errors"
	"fmt"
	"strings"
)

// AutoIncPolicy selects when the register cursor advances after an access.
type AutoIncPolicy int

const (
	// AutoIncAlways advances after every register access.
	AutoIncAlways AutoIncPolicy = iota
	// AutoIncFlagged advances only when the selecting byte carried AutoIncFlag.
	AutoIncFlagged
)

func (p AutoIncPolicy) String() string {
	switch p {
	case AutoIncAlways:
		return "always"
	case AutoIncFlagged:
		return "flagged"
	default:
		return "unknown"
	}
}

// DecodeFunc renders the fields of a register value. An empty result means
// there is nothing to add beyond the register name.
type DecodeFunc func(v uint8) string

// Register describes one entry of a chip's register table.
type Register struct {
	Tag    string     // annotation class ID, "reg-stat"
	Desc   string     // annotation class description, "Status Register"
	Name   string     // display name
	Short  string     // abbreviated display name
	Decode DecodeFunc // nil for name-only registers
}

// Labels renders an access of value v, longest label first.
func (r *Register) Labels(v uint8) []string {
	detail := ""
	if r.Decode != nil {
		detail = r.Decode(v)
	}
	long := fmt.Sprintf("%s (0x%02X)", r.Name, v)
	if detail != "" {
		long = fmt.Sprintf("%s: %s (0x%02X)", r.Name, detail, v)
	}
	return []string{long, r.Short}
}

// AnnotationClass is one entry of a decoder's annotation class list.
type AnnotationClass struct {
	ID   string
	Desc string
}

// AnnotationRow groups annotation classes for display.
type AnnotationRow struct {
	ID      string
	Desc    string
	Classes []int
}

// Profile is the static description of a chip: identity, register table and
// register selection rules. Profiles are never modified once built.
type Profile struct {
	ID       string // decoder ID, "pca9641"
	Name     string
	LongName string
	Desc     string

	Chip      string // chip name used in the ignored-slave label
	ChipLabel string
	ChipShort string
	ChipTag   string
	ChipDesc  string

	Addresses []uint8 // 7-bit slave addresses
	Registers []Register

	SelectMask  uint8 // bits of the selecting byte holding the register index
	AutoInc     AutoIncPolicy
	AutoIncFlag uint8 // selecting byte bit enabling auto-increment, AutoIncFlagged only
}

// Ignored annotation class details.
const (
	IgnoredTag  = "info-ignored"
	IgnoredDesc = "Ignored slave"
	RowInf      = "Inf"
)

var (
	errNoRegisters = errors.New("profile has no registers")
	errNoAddresses = errors.New("profile has no slave addresses")
)

// Validate checks the profile is usable by a decoder.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return errors.New("profile has no ID")
	}
	if len(p.Registers) == 0 {
		return fmt.Errorf("%s: %w", p.ID, errNoRegisters)
	}
	if len(p.Addresses) == 0 {
		return fmt.Errorf("%s: %w", p.ID, errNoAddresses)
	}
	for _, a := range p.Addresses {
		if a > 0x7F {
			return fmt.Errorf("%s: slave address 0x%02X is not 7-bit", p.ID, a)
		}
	}
	switch p.AutoInc {
	case AutoIncAlways:
	case AutoIncFlagged:
		if p.AutoIncFlag == 0 {
			return fmt.Errorf("%s: flagged auto-increment without a flag bit", p.ID)
		}
		if p.AutoIncFlag&p.SelectMask != 0 {
			return fmt.Errorf("%s: auto-increment flag 0x%02X overlaps select mask 0x%02X", p.ID, p.AutoIncFlag, p.SelectMask)
		}
	default:
		return fmt.Errorf("%s: unknown auto-increment policy %d", p.ID, p.AutoInc)
	}
	seen := map[string]bool{p.ChipTag: true, IgnoredTag: true}
	for i, r := range p.Registers {
		if r.Tag == "" || seen[r.Tag] {
			return fmt.Errorf("%s: register %d has empty or duplicate tag %q", p.ID, i, r.Tag)
		}
		seen[r.Tag] = true
	}
	return nil
}

// NumRegisters returns the register table size.
func (p *Profile) NumRegisters() int {
	return len(p.Registers)
}

// Matches reports whether addr identifies this chip. addr may be the bare
// 7-bit address or the address byte still carrying the R/W bit.
func (p *Profile) Matches(addr uint8) bool {
	for _, a := range p.Addresses {
		if addr == a || addr>>1 == a {
			return true
		}
	}
	return false
}

// HasAddress reports whether the chip answers on the 7-bit bus address a.
func (p *Profile) HasAddress(a uint8) bool {
	for _, pa := range p.Addresses {
		if pa == a {
			return true
		}
	}
	return false
}

// Select decodes a register selecting byte into a table index and the
// auto-increment state that follows it.
func (p *Profile) Select(b uint8) (index int, autoInc bool) {
	index = wrap(int(b&p.SelectMask), p.NumRegisters())
	switch p.AutoInc {
	case AutoIncAlways:
		autoInc = true
	case AutoIncFlagged:
		autoInc = b&p.AutoIncFlag != 0
	}
	return index, autoInc
}

// InitialAutoInc is the auto-increment state before any register is selected.
func (p *Profile) InitialAutoInc() bool {
	return p.AutoInc == AutoIncAlways
}

// SelectLabels renders the register selection annotation labels.
func SelectLabels(index int, autoInc bool) []string {
	if autoInc {
		return []string{fmt.Sprintf("Auto Inc: R=%X", index), fmt.Sprintf("AI:%X", index)}
	}
	return []string{fmt.Sprintf("No Inc: R=%X", index), fmt.Sprintf("NI:%X", index)}
}

// ChipLabels renders the identification annotation labels.
func (p *Profile) ChipLabels() []string {
	return []string{p.ChipLabel, p.ChipShort}
}

// IgnoredLabels renders the annotation for a transaction to another slave.
func (p *Profile) IgnoredLabels(addr uint8) []string {
	return []string{fmt.Sprintf("Ignoring non-%s data (slave 0x%02X)", p.Chip, addr)}
}

// Annotation class indices: 0 is the chip, registers follow in table order,
// the ignored slave class comes last.
const ClassChip = 0

// ClassRegister returns the annotation class of register index.
func ClassRegister(index int) int {
	return index + 1
}

// ClassIgnored returns the annotation class used for other slaves.
func (p *Profile) ClassIgnored() int {
	return p.NumRegisters() + 1
}

// AnnotationClasses lists the decoder's annotation classes by index.
func (p *Profile) AnnotationClasses() []AnnotationClass {
	classes := make([]AnnotationClass, 0, p.NumRegisters()+2)
	classes = append(classes, AnnotationClass{ID: p.ChipTag, Desc: p.ChipDesc})
	for _, r := range p.Registers {
		classes = append(classes, AnnotationClass{ID: r.Tag, Desc: r.Desc})
	}
	classes = append(classes, AnnotationClass{ID: IgnoredTag, Desc: IgnoredDesc})
	return classes
}

// AnnotationRows returns the single row holding every annotation class.
func (p *Profile) AnnotationRows() []AnnotationRow {
	n := p.ClassIgnored() + 1
	classes := make([]int, n)
	for i := range classes {
		classes[i] = i
	}
	return []AnnotationRow{{ID: RowInf, Desc: RowInf, Classes: classes}}
}

// ClassTag returns the annotation class ID for a class index.
func (p *Profile) ClassTag(class int) string {
	switch {
	case class == ClassChip:
		return p.ChipTag
	case class == p.ClassIgnored():
		return IgnoredTag
	case class > 0 && class <= p.NumRegisters():
		return p.Registers[class-1].Tag
	}
	return ""
}

// BitFlag names one bit of a register.
type BitFlag struct {
	Bit  uint
	Name string
}

// FormatFlags joins the names of the set bits, in the order given.
func FormatFlags(v uint8, flags ...BitFlag) string {
	var names []string
	for _, f := range flags {
		if v&(1<<f.Bit) != 0 {
			names = append(names, f.Name)
		}
	}
	return strings.Join(names, "|")
}
