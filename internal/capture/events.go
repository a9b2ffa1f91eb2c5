package capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
)

// ParseEvents reads an event script. Each non-empty line holds one event:
//
//	<start> <end> <command> [<byte>]
//
// The command is a sigrok I2C command name, quoted or with underscores for
// spaces ("ADDRESS WRITE", ADDRESS_WRITE). Commands carrying a byte take it
// as a last field in any strconv base-prefixed form. '#' starts a comment.
func ParseEvents(r io.Reader) ([]i2c.Record, error) {
	var recs []i2c.Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields, err := shlex.Split(scanner.Text())
		if err != nil {
			return nil, parseErr("line %d: %v", lineNo, err)
		}
		if len(fields) == 0 {
			continue
		}
		rec, err := parseEventLine(fields)
		if err != nil {
			return nil, parseErr("line %d: %v", lineNo, err)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func parseEventLine(fields []string) (i2c.Record, error) {
	var rec i2c.Record
	if len(fields) < 3 {
		return rec, fmt.Errorf("want <start> <end> <command> [<byte>], got %q", strings.Join(fields, " "))
	}
	start, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return rec, fmt.Errorf("bad start sample %q", fields[0])
	}
	end, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return rec, fmt.Errorf("bad end sample %q", fields[1])
	}
	if end < start {
		return rec, fmt.Errorf("span %d-%d ends before it starts", start, end)
	}
	rec.Span = dcd.MakeSpan(dcd.Index(start), dcd.Index(end))

	cmdFields := fields[2:]

	// try the last field as the data byte first
	if n := len(cmdFields); n > 1 {
		if cmd, err := i2c.ParseCmd(strings.Join(cmdFields[:n-1], " ")); err == nil && cmd.HasData() {
			b, err := strconv.ParseUint(cmdFields[n-1], 0, 8)
			if err != nil {
				return rec, fmt.Errorf("%s: bad data byte %q", cmd, cmdFields[n-1])
			}
			rec.Event = i2c.Event{Cmd: cmd, Data: uint8(b)}
			return rec, nil
		}
	}
	cmd, err := i2c.ParseCmd(strings.Join(cmdFields, " "))
	if err != nil {
		return rec, err
	}
	if cmd.HasData() {
		return rec, fmt.Errorf("%s needs a data byte", cmd)
	}
	rec.Event = i2c.Event{Cmd: cmd}
	return rec, nil
}
