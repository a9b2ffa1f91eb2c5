package printer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatAndParse(t *testing.T) {
	line := FormatAnnotationLine(21, 29, "DCD_PCA9641", "info-arb-addr", "PCA9641 Arbiter")
	if line != "Idx:21-29; DCD_PCA9641; info-arb-addr; PCA9641 Arbiter" {
		t.Fatalf("line = %q", line)
	}
	rec, ok := ParseAnnotationLine(line)
	if !ok {
		t.Fatalf("ParseAnnotationLine failed")
	}
	want := AnnotationRecord{Start: 21, End: 29, Source: "DCD_PCA9641", Tag: "info-arb-addr", Label: "PCA9641 Arbiter", Line: line}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAnnotationRecords(t *testing.T) {
	listing := `I2C Register Lister: register access decode
Decoder stack: pcal6408a
Idx:98-106; DCD_PCAL6408A; reg-conf; Config: IIII_OOOO (0xF0)
Idx:98-106; DATA READ 0xF0
Idx:10-20; DCD_PCAL6408A_2; info-ignored; Ignoring non-PCAL6408A data (slave 0x73)
reg-conf : 1
`
	recs, err := LoadAnnotationRecords(strings.NewReader(listing))
	if err != nil {
		t.Fatalf("LoadAnnotationRecords: %v", err)
	}
	if len(recs) != 2 || recs[0].Label != "Config: IIII_OOOO (0xF0)" || recs[1].Source != "DCD_PCAL6408A_2" {
		t.Errorf("records = %+v", recs)
	}
}
