package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
)

type mockLogger struct {
	bytes.Buffer
}

func (m *mockLogger) LogError(sev dcd.ErrSeverity, msg string) {}
func (m *mockLogger) LogMessage(sev dcd.ErrSeverity, msg string) {
	m.WriteString(msg)
}

func TestItemPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewItemPrinter(&buf)

	p.SetMute(true)
	if !p.IsMuted() {
		t.Error("expected muted")
	}

	p.SetTestWaits(5)
	if p.TestWaits() != 5 {
		t.Error("expected 5 waits")
	}
	p.DecTestWaits()
	if p.TestWaits() != 4 {
		t.Error("expected 4 waits")
	}

	p.MuteIdxPrint(true)
	if !p.IdxPrintMuted() {
		t.Error("expected idx print muted")
	}

	logger := &mockLogger{}
	p.SetMessageLogger(logger)
	p.ItemPrintLine("test line\n")
	if buf.String() != "test line\n" || logger.String() != "test line\n" {
		t.Errorf("line not written to both outputs: %q / %q", buf.String(), logger.String())
	}
	if p.LinesPrinted() != 1 {
		t.Errorf("LinesPrinted = %d", p.LinesPrinted())
	}
}

func TestAnnPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewAnnPrinter(&buf)
	p.SetCollectStats()

	chip := common.NewAnnotation(0, "info-arb-addr", "PCA9641 Arbiter", "Arb")
	reg := common.NewAnnotation(4, "reg-rsrv", "RSRV: No time limit (0x00)", "RSRV")

	if resp := p.AnnotationIn(dcd.MakeSpan(1, 2), "DCD_PCA9641", chip); resp != dcd.RespCont {
		t.Errorf("resp = %v", resp)
	}
	p.AnnotationIn(dcd.MakeSpan(9, 10), "DCD_PCA9641", reg)
	p.SetShortLabels(true)
	p.MuteIdxPrint(true)
	p.AnnotationIn(dcd.MakeSpan(11, 12), "DCD_PCA9641", reg)

	want := []string{
		"Idx:1-2; DCD_PCA9641; info-arb-addr; PCA9641 Arbiter",
		"Idx:9-10; DCD_PCA9641; reg-rsrv; RSRV: No time limit (0x00)",
		"DCD_PCA9641; reg-rsrv; RSRV",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if p.TagCount("reg-rsrv") != 2 || p.TagCount("info-arb-addr") != 1 {
		t.Errorf("tag counts wrong")
	}
	buf.Reset()
	p.PrintStats()
	if buf.String() != "Annotations processed:-\ninfo-arb-addr : 1\nreg-rsrv : 2\n\n" {
		t.Errorf("stats = %q", buf.String())
	}
}

func TestAnnPrinterMuteAndWaits(t *testing.T) {
	var buf bytes.Buffer
	p := NewAnnPrinter(&buf)
	ann := common.NewAnnotation(1, "reg-id", "ID (0x01)", "ID")

	p.SetTestWaits(1)
	if resp := p.AnnotationIn(dcd.MakeSpan(0, 1), "DCD_X", ann); resp != dcd.RespWait {
		t.Errorf("expected wait, got %v", resp)
	}
	if resp := p.AnnotationIn(dcd.MakeSpan(0, 1), "DCD_X", ann); resp != dcd.RespCont {
		t.Errorf("expected cont, got %v", resp)
	}

	buf.Reset()
	p.SetMute(true)
	p.AnnotationIn(dcd.MakeSpan(0, 1), "DCD_X", ann)
	if buf.Len() != 0 {
		t.Errorf("muted printer wrote %q", buf.String())
	}
}

func TestEventPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewEventPrinter(&buf)

	for _, rec := range i2c.Sequence(i2c.Start(), i2c.AddressWrite(0x73), i2c.Ack()) {
		ev := rec.Event
		if resp := p.PacketDataIn(dcd.OpData, rec.Span, &ev); resp != dcd.RespCont {
			t.Errorf("resp = %v", resp)
		}
	}
	p.PacketDataIn(dcd.OpEOT, dcd.Span{}, nil)

	want := "Idx:0-1; START\nIdx:1-2; ADDRESS WRITE 0x73\nIdx:2-3; ACK\n**** END OF CAPTURE ****\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if p.LastOp() != dcd.OpEOT {
		t.Errorf("LastOp = %v", p.LastOp())
	}
	if resp := p.PacketDataIn(dcd.OpData, dcd.Span{}, nil); resp != dcd.RespFatalInvalidParam {
		t.Errorf("nil event resp = %v", resp)
	}
}
