package capture

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
)

func parseErr(format string, args ...any) error {
	return common.NewErrorMsg(dcd.ErrSevError, dcd.ErrCaptureParse, fmt.Sprintf(format, args...))
}

// splitList splits a comma and/or whitespace separated value.
func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ParseCaptureIni parses a capture.ini file.
func ParseCaptureIni(input io.Reader) (*Capture, error) {
	ini, err := ParseIni(input)
	if err != nil {
		return nil, parseErr("%s: %v", CaptureINIFilename, err)
	}
	c := &Capture{}

	if sec, ok := ini.Sections[CaptureSectionName]; ok {
		c.Info.Version = sec[VersionKey]
		c.Info.Description = sec[DescriptionKey]
	}

	evSec, ok := ini.Sections[EventsSectionName]
	if !ok {
		return nil, parseErr("missing [%s] section", EventsSectionName)
	}
	c.EventFiles = splitList(evSec[EventFilesKey])
	if len(c.EventFiles) == 0 {
		return nil, parseErr("[%s] names no event %s", EventsSectionName, EventFilesKey)
	}

	dcdSec, ok := ini.Sections[DecodersSectionName]
	if !ok {
		return nil, parseErr("missing [%s] section", DecodersSectionName)
	}
	if v, ok := dcdSec[StickyErrorKey]; ok {
		if c.StickyError, err = strconv.ParseBool(v); err != nil {
			return nil, parseErr("%s = %q: %v", StickyErrorKey, v, err)
		}
	}
	for _, name := range splitList(dcdSec[DecoderStackKey]) {
		def := DecoderDef{Name: name}
		if sec, ok := ini.Sections[DecoderSectionPrefix+name]; ok {
			if err := parseDecoderSection(&def, sec); err != nil {
				return nil, err
			}
		}
		c.Decoders = append(c.Decoders, def)
	}
	if len(c.Decoders) == 0 {
		return nil, parseErr("[%s] %s is empty", DecodersSectionName, DecoderStackKey)
	}

	// catch typos in per decoder section names
	var orphans []string
	for secName := range ini.Sections {
		if name, ok := strings.CutPrefix(secName, DecoderSectionPrefix); ok && !c.hasDecoder(name) {
			orphans = append(orphans, secName)
		}
	}
	if len(orphans) > 0 {
		sort.Strings(orphans)
		return nil, parseErr("sections for decoders not in the stack: %s", strings.Join(orphans, ", "))
	}
	return c, nil
}

func (c *Capture) hasDecoder(name string) bool {
	for _, d := range c.Decoders {
		if d.Name == name {
			return true
		}
	}
	return false
}

func parseDecoderSection(def *DecoderDef, sec map[string]string) error {
	if v, ok := sec[DecoderInstanceKey]; ok {
		inst, err := strconv.Atoi(v)
		if err != nil || inst < 0 {
			return parseErr("%s%s: bad %s %q", DecoderSectionPrefix, def.Name, DecoderInstanceKey, v)
		}
		def.Instance = inst
	}
	for _, a := range splitList(sec[DecoderAddressesKey]) {
		addr, err := strconv.ParseUint(a, 0, 8)
		if err != nil || addr > 0x7F {
			return parseErr("%s%s: bad 7-bit address %q", DecoderSectionPrefix, def.Name, a)
		}
		def.Addresses = append(def.Addresses, uint8(addr))
	}
	return nil
}
