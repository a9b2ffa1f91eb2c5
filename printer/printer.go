// Package printer holds the text line formats of the register lister and a
// parser reading them back.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// FormatSpan formats the sample span prefix of a listing line.
func FormatSpan(start, end uint64) string {
	return fmt.Sprintf("Idx:%d-%d; ", start, end)
}

// FormatAnnotation formats the body of an annotation line.
func FormatAnnotation(source, tag, label string) string {
	return fmt.Sprintf("%s; %s; %s", source, tag, label)
}

// FormatAnnotationLine formats a complete annotation line without newline.
func FormatAnnotationLine(start, end uint64, source, tag, label string) string {
	return FormatSpan(start, end) + FormatAnnotation(source, tag, label)
}

// AnnotationRecord is one annotation line of a listing.
type AnnotationRecord struct {
	Start  uint64
	End    uint64
	Source string
	Tag    string
	Label  string
	Line   string // line as read
}

var annLineRe = regexp.MustCompile(`^Idx:(\d+)-(\d+); ([A-Z0-9_]+); ([a-z0-9-]+); (.*)$`)

// ParseAnnotationLine parses a line produced by FormatAnnotationLine.
func ParseAnnotationLine(line string) (AnnotationRecord, bool) {
	m := annLineRe.FindStringSubmatch(line)
	if m == nil {
		return AnnotationRecord{}, false
	}
	start, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return AnnotationRecord{}, false
	}
	end, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return AnnotationRecord{}, false
	}
	return AnnotationRecord{Start: start, End: end, Source: m[3], Tag: m[4], Label: m[5], Line: line}, true
}

// LoadAnnotationRecords reads the annotation lines of a listing in order,
// skipping headers, events and statistics.
func LoadAnnotationRecords(r io.Reader) ([]AnnotationRecord, error) {
	var records []AnnotationRecord
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if rec, ok := ParseAnnotationLine(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
