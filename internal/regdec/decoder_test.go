package regdec

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/i2c"
)

type gotAnn struct {
	Span   dcd.Span
	Source string
	Class  int
	Tag    string
	Labels []string
}

type annSink struct {
	anns []gotAnn
}

func (s *annSink) AnnotationIn(span dcd.Span, source string, ann *common.Annotation) dcd.DatapathResp {
	s.anns = append(s.anns, gotAnn{span, source, ann.Class, ann.Tag, ann.Labels})
	return dcd.RespCont
}

type eventSink struct {
	recs []i2c.Record
	eots int
}

func (s *eventSink) PacketDataIn(op dcd.DatapathOp, span dcd.Span, ev *i2c.Event) dcd.DatapathResp {
	switch op {
	case dcd.OpData:
		s.recs = append(s.recs, i2c.Record{Span: span, Event: *ev})
	case dcd.OpEOT:
		s.eots++
	}
	return dcd.RespCont
}

type msgLog struct {
	msgs []string
}

func (l *msgLog) LogError(filterLevel dcd.ErrSeverity, msg string)   { l.msgs = append(l.msgs, msg) }
func (l *msgLog) LogMessage(filterLevel dcd.ErrSeverity, msg string) { l.msgs = append(l.msgs, msg) }

func testProfile(policy AutoIncPolicy) *Profile {
	p := &Profile{
		ID:        "testchip",
		Name:      "TESTCHIP",
		LongName:  "Test Chip",
		Chip:      "TESTCHIP",
		ChipLabel: "Test Chip",
		ChipShort: "TC",
		ChipTag:   "info-addr",
		ChipDesc:  "Tag test chip address",
		Addresses: []uint8{0x50},
		Registers: []Register{
			{Tag: "reg-a", Desc: "A Register", Name: "A", Short: "A"},
			{Tag: "reg-b", Desc: "B Register", Name: "B", Short: "B",
				Decode: func(v uint8) string { return FormatFlags(v, BitFlag{1, "X"}, BitFlag{0, "Y"}) }},
			{Tag: "reg-c", Desc: "C Register", Name: "C", Short: "C"},
			{Tag: "reg-d", Desc: "D Register", Name: "D", Short: "D"},
		},
		SelectMask: 0x03,
		AutoInc:    policy,
	}
	if policy == AutoIncFlagged {
		p.AutoIncFlag = 0x80
	}
	return p
}

func newTestDecoder(t *testing.T, p *Profile) (*PktDecode, *annSink, *eventSink) {
	t.Helper()
	d := NewPktDecode(0)
	if err := d.SetProtocolConfig(p); err != dcd.OK {
		t.Fatalf("SetProtocolConfig: %v", err)
	}
	anns := &annSink{}
	evs := &eventSink{}
	d.AnnOut.Attach(anns)
	d.PassOut.Attach(evs)
	return d, anns, evs
}

func runEvents(t *testing.T, d *PktDecode, recs []i2c.Record) {
	t.Helper()
	for i := range recs {
		resp := d.PacketDataIn(dcd.OpData, recs[i].Span, &recs[i].Event)
		if !dcd.DataRespIsCont(resp) {
			t.Fatalf("event %d (%s): resp %v", i, recs[i].Event, resp)
		}
	}
}

func labelsOf(anns []gotAnn) [][]string {
	out := make([][]string, len(anns))
	for i, a := range anns {
		out[i] = a.Labels
	}
	return out
}

func TestDecoderNotInit(t *testing.T) {
	d := NewPktDecode(0)
	ev := i2c.Start()
	if resp := d.PacketDataIn(dcd.OpData, dcd.Span{}, &ev); resp != dcd.RespFatalNotInit {
		t.Errorf("expected RespFatalNotInit without profile, got %v", resp)
	}
	d.SetProtocolConfig(testProfile(AutoIncFlagged))
	if resp := d.PacketDataIn(dcd.OpData, dcd.Span{}, &ev); resp != dcd.RespFatalNotInit {
		t.Errorf("expected RespFatalNotInit without annotation output, got %v", resp)
	}
}

func TestDecoderBadProfile(t *testing.T) {
	d := NewPktDecode(0)
	p := testProfile(AutoIncFlagged)
	p.AutoIncFlag = 0x01 // overlaps select mask
	if err := d.SetProtocolConfig(p); err != dcd.ErrBadProfile {
		t.Errorf("expected ErrBadProfile, got %v", err)
	}
}

func TestDecoderName(t *testing.T) {
	d, _, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
	if d.ComponentName() != "DCD_TESTCHIP" {
		t.Errorf("name = %q", d.ComponentName())
	}
	d2 := NewPktDecode(2)
	d2.SetProtocolConfig(testProfile(AutoIncFlagged))
	if d2.ComponentName() != "DCD_TESTCHIP_2" {
		t.Errorf("name = %q", d2.ComponentName())
	}
}

func TestWriteRoundTrip(t *testing.T) {
	d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
	runEvents(t, d, i2c.Sequence(
		i2c.Start(), i2c.AddressWrite(0x50), i2c.Ack(),
		i2c.DataWrite(0x01), i2c.Ack(),
		i2c.DataWrite(0x03), i2c.Ack(),
		i2c.Stop(),
	))

	want := []gotAnn{
		{dcd.MakeSpan(1, 2), "DCD_TESTCHIP", 0, "info-addr", []string{"Test Chip", "TC"}},
		{dcd.MakeSpan(3, 4), "DCD_TESTCHIP", 0, "info-addr", []string{"No Inc: R=1", "NI:1"}},
		{dcd.MakeSpan(5, 6), "DCD_TESTCHIP", 2, "reg-b", []string{"B: X|Y (0x03)", "B"}},
	}
	if diff := cmp.Diff(want, anns.anns); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
	if !d.Idle() {
		t.Errorf("decoder not idle after STOP")
	}
	if d.RegisterIndex() != 1 {
		t.Errorf("cursor moved without auto-increment: %d", d.RegisterIndex())
	}
}

func TestPassthroughIdentity(t *testing.T) {
	d, _, evs := newTestDecoder(t, testProfile(AutoIncFlagged))
	recs := i2c.Sequence(
		i2c.Nack(), i2c.DataRead(0x11), // noise while idle
		i2c.Start(), i2c.AddressRead(0x51), i2c.Ack(),
		i2c.DataRead(0x01), i2c.Ack(), i2c.Start(), // unexpected START
		i2c.Start(), i2c.AddressWrite(0x33), // other slave
		i2c.DataWrite(0x44), i2c.Stop(),
	)
	runEvents(t, d, recs)
	if diff := cmp.Diff(recs, evs.recs); diff != "" {
		t.Errorf("passthrough mismatch (-want +got):\n%s", diff)
	}
	st := d.DecodeStats()
	if st.EventsIn != uint64(len(recs)) || st.Passthrough != uint64(len(recs)) {
		t.Errorf("stats = %+v", *st)
	}

	d.PacketDataIn(dcd.OpEOT, dcd.Span{}, nil)
	if evs.eots != 1 {
		t.Errorf("EOT not forwarded")
	}
}

func TestFlaggedAutoIncrement(t *testing.T) {
	tests := []struct {
		name       string
		sel        uint8
		wantLabels [][]string
		wantIndex  int
	}{
		{
			name: "flag clear",
			sel:  0x02,
			wantLabels: [][]string{
				{"Test Chip", "TC"},
				{"No Inc: R=2", "NI:2"},
				{"Test Chip", "TC"},
				{"C (0xAA)", "C"},
				{"C (0xBB)", "C"},
				{"C (0xCC)", "C"},
			},
			wantIndex: 2,
		},
		{
			name: "flag set wraps",
			sel:  0x82,
			wantLabels: [][]string{
				{"Test Chip", "TC"},
				{"Auto Inc: R=2", "AI:2"},
				{"Test Chip", "TC"},
				{"C (0xAA)", "C"},
				{"D (0xBB)", "D"},
				{"A (0xCC)", "A"},
			},
			wantIndex: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
			runEvents(t, d, i2c.Sequence(
				i2c.Start(), i2c.AddressWrite(0xA0), i2c.Ack(),
				i2c.DataWrite(tt.sel), i2c.Ack(),
				i2c.StartRepeat(), i2c.AddressRead(0xA1), i2c.Ack(),
				i2c.DataRead(0xAA), i2c.Ack(),
				i2c.DataRead(0xBB), i2c.Ack(),
				i2c.DataRead(0xCC), i2c.Nack(),
				i2c.Stop(),
			))
			if diff := cmp.Diff(tt.wantLabels, labelsOf(anns.anns)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			if d.RegisterIndex() != tt.wantIndex {
				t.Errorf("cursor = %d, want %d", d.RegisterIndex(), tt.wantIndex)
			}
		})
	}
}

func TestReadAfterSelect(t *testing.T) {
	d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
	runEvents(t, d, i2c.Sequence(
		i2c.Start(), i2c.AddressWrite(0x50), i2c.Ack(),
		i2c.DataWrite(0x83), i2c.Ack(),
		i2c.DataRead(0x01), i2c.Ack(),
		i2c.DataRead(0x02), i2c.Nack(),
	))
	want := [][]string{
		{"Test Chip", "TC"},
		{"Auto Inc: R=3", "AI:3"},
		{"D (0x01)", "D"},
		{"A (0x02)", "A"},
	}
	if diff := cmp.Diff(want, labelsOf(anns.anns)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if d.RegisterIndex() != 1 || !d.Idle() {
		t.Errorf("cursor = %d, idle %v", d.RegisterIndex(), d.Idle())
	}
	if d.DecodeStats().ProtocolErrs != 0 {
		t.Errorf("ProtocolErrs = %d", d.DecodeStats().ProtocolErrs)
	}
}

func TestAlwaysAutoIncrementBurstWrite(t *testing.T) {
	d, anns, _ := newTestDecoder(t, testProfile(AutoIncAlways))
	runEvents(t, d, i2c.Sequence(
		i2c.Start(), i2c.AddressWrite(0x50), i2c.Ack(),
		i2c.DataWrite(0x03), i2c.Ack(),
		i2c.DataWrite(0x10), i2c.Ack(),
		i2c.DataWrite(0x11), i2c.Ack(),
		i2c.DataWrite(0x12), i2c.Ack(),
		i2c.DataWrite(0x13), i2c.Ack(),
		i2c.DataWrite(0x14), i2c.Ack(),
		i2c.Stop(),
	))
	var classes []int
	for _, a := range anns.anns[2:] {
		classes = append(classes, a.Class)
	}
	// registers 3, 0, 1, 2, 3
	want := []int{4, 1, 2, 3, 4}
	if diff := cmp.Diff(want, classes); diff != "" {
		t.Errorf("register classes mismatch (-want +got):\n%s", diff)
	}
	if anns.anns[1].Labels[0] != "Auto Inc: R=3" {
		t.Errorf("selection label = %q", anns.anns[1].Labels[0])
	}
	if d.RegisterIndex() != 0 {
		t.Errorf("cursor = %d, want 0", d.RegisterIndex())
	}
}

func TestAlwaysAutoIncrementReadWithoutSelect(t *testing.T) {
	d, anns, _ := newTestDecoder(t, testProfile(AutoIncAlways))
	runEvents(t, d, i2c.Sequence(
		i2c.Start(), i2c.AddressRead(0x50), i2c.Ack(),
		i2c.DataRead(0x01), i2c.Ack(),
		i2c.DataRead(0x02), i2c.Nack(),
		i2c.Stop(),
	))
	want := [][]string{{"Test Chip", "TC"}, {"A (0x01)", "A"}, {"B: X (0x02)", "B"}}
	if diff := cmp.Diff(want, labelsOf(anns.anns)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestAddressMatching(t *testing.T) {
	tests := []struct {
		name  string
		addr  uint8
		match bool
	}{
		{"bare", 0x50, true},
		{"write byte", 0xA0, true},
		{"read byte", 0xA1, true},
		{"other", 0x51, false},
		{"other shifted", 0x28, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
			runEvents(t, d, []i2c.Record{
				{Span: dcd.MakeSpan(100, 110), Event: i2c.Start()},
				{Span: dcd.MakeSpan(110, 190), Event: i2c.AddressWrite(tt.addr)},
			})
			if len(anns.anns) != 1 {
				t.Fatalf("expected exactly one annotation, got %d", len(anns.anns))
			}
			a := anns.anns[0]
			if tt.match {
				if a.Class != ClassChip || a.Span != dcd.MakeSpan(110, 190) {
					t.Errorf("identification = %+v", a)
				}
				if d.Idle() {
					t.Errorf("decoder should be in a transaction")
				}
				return
			}
			want := gotAnn{
				Span:   dcd.MakeSpan(100, 190),
				Source: "DCD_TESTCHIP",
				Class:  5,
				Tag:    IgnoredTag,
				Labels: []string{fmt.Sprintf("Ignoring non-TESTCHIP data (slave 0x%02X)", tt.addr)},
			}
			if diff := cmp.Diff(want, a); diff != "" {
				t.Errorf("ignored annotation mismatch (-want +got):\n%s", diff)
			}
			if !d.Idle() {
				t.Errorf("decoder should be idle after rejecting the address")
			}
		})
	}
}

func TestStopFromAnyState(t *testing.T) {
	prefixes := map[string][]i2c.Event{
		"idle":            {},
		"await address":   {i2c.Start()},
		"await reg":       {i2c.Start(), i2c.AddressWrite(0x50)},
		"which op":        {i2c.Start(), i2c.AddressWrite(0x50), i2c.DataWrite(0x80)},
		"reading":         {i2c.Start(), i2c.AddressRead(0x50), i2c.DataRead(1)},
		"writing":         {i2c.Start(), i2c.AddressWrite(0x50), i2c.DataWrite(0x80), i2c.DataWrite(1)},
		"sticky error":    {i2c.Start(), i2c.AddressWrite(0x50), i2c.DataWrite(0x80), i2c.AddressRead(0x50)},
		"after read nack": {i2c.Start(), i2c.AddressRead(0x50), i2c.Nack()},
	}
	for name, evs := range prefixes {
		t.Run(name, func(t *testing.T) {
			d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
			d.SetComponentOpMode(dcd.OpflgStickyErrorState)
			runEvents(t, d, i2c.Sequence(evs...))
			before := len(anns.anns)
			runEvents(t, d, i2c.Sequence(i2c.Stop()))
			if len(anns.anns) != before {
				t.Errorf("STOP emitted an annotation")
			}
			if !d.Idle() {
				t.Errorf("not idle after STOP, state %s", d.currState)
			}
		})
	}
}

func TestProtocolViolationRecovery(t *testing.T) {
	events := i2c.Sequence(
		i2c.Start(), i2c.AddressWrite(0x50), i2c.Ack(),
		i2c.DataWrite(0x81), i2c.Ack(),
		i2c.AddressRead(0x50), // not valid while deciding the operation
		i2c.Start(), i2c.AddressRead(0x50), i2c.Ack(),
		i2c.DataRead(0x07), i2c.Nack(),
		i2c.Stop(),
	)

	t.Run("default returns to idle", func(t *testing.T) {
		d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
		log := &msgLog{}
		d.ErrorLogAttachPt().Attach(log)
		d.SetErrorLogLevel(dcd.ErrSevWarn)
		runEvents(t, d, events)

		// the START right after the violation opens a new transaction
		want := [][]string{
			{"Test Chip", "TC"},
			{"Auto Inc: R=1", "AI:1"},
			{"Test Chip", "TC"},
			{"B: X|Y (0x07)", "B"},
		}
		if diff := cmp.Diff(want, labelsOf(anns.anns)); diff != "" {
			t.Errorf("labels mismatch (-want +got):\n%s", diff)
		}
		if d.DecodeStats().ProtocolErrs != 1 {
			t.Errorf("ProtocolErrs = %d", d.DecodeStats().ProtocolErrs)
		}
		if len(log.msgs) != 1 || !strings.Contains(log.msgs[0], "unexpected ADDRESS READ in state WHICH_OP") {
			t.Errorf("log = %q", log.msgs)
		}
	})

	t.Run("sticky waits for stop", func(t *testing.T) {
		d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
		d.SetComponentOpMode(dcd.OpflgStickyErrorState)
		runEvents(t, d, events)

		want := [][]string{
			{"Test Chip", "TC"},
			{"Auto Inc: R=1", "AI:1"},
		}
		if diff := cmp.Diff(want, labelsOf(anns.anns)); diff != "" {
			t.Errorf("labels mismatch (-want +got):\n%s", diff)
		}
		if !d.Idle() {
			t.Errorf("not idle after final STOP")
		}
	})
}

func TestBurstWriteViolation(t *testing.T) {
	d, anns, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
	d.SetComponentOpMode(dcd.OpflgStickyErrorState)
	runEvents(t, d, i2c.Sequence(
		i2c.Start(), i2c.AddressWrite(0x50), i2c.Ack(),
		i2c.DataWrite(0x80), i2c.Ack(),
		i2c.DataWrite(0x01), i2c.Ack(),
		i2c.DataRead(0x02),
		i2c.DataWrite(0x03), // ignored in the error state
	))
	if len(anns.anns) != 3 {
		t.Errorf("expected 3 annotations, got %d: %v", len(anns.anns), labelsOf(anns.anns))
	}
	if d.currState != stError {
		t.Errorf("state = %s, want ERROR", d.currState)
	}
}

func TestResetClearsCursor(t *testing.T) {
	d, _, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
	runEvents(t, d, i2c.Sequence(
		i2c.Start(), i2c.AddressWrite(0x50), i2c.Ack(), i2c.DataWrite(0x83), i2c.Ack(),
	))
	if d.RegisterIndex() != 3 || !d.AutoIncrement() {
		t.Fatalf("cursor = %d/%v", d.RegisterIndex(), d.AutoIncrement())
	}
	runEvents(t, d, i2c.Sequence(i2c.Stop()))
	if d.RegisterIndex() != 3 {
		t.Errorf("STOP should keep the selected register")
	}
	d.PacketDataIn(dcd.OpReset, dcd.Span{}, nil)
	if d.RegisterIndex() != 0 || d.AutoIncrement() || !d.Idle() {
		t.Errorf("reset left cursor %d/%v state %s", d.RegisterIndex(), d.AutoIncrement(), d.currState)
	}
}

func TestDebugEventLogging(t *testing.T) {
	d, _, _ := newTestDecoder(t, testProfile(AutoIncFlagged))
	log := &msgLog{}
	d.ErrorLogAttachPt().Attach(log)
	d.SetErrorLogLevel(dcd.ErrSevDebug)
	runEvents(t, d, []i2c.Record{{Span: dcd.MakeSpan(7, 9), Event: i2c.AddressWrite(0x50)}})
	if len(log.msgs) != 1 || log.msgs[0] != "DCD_TESTCHIP: Idx:7-9; ADDRESS WRITE 0x50; state IDLE" {
		t.Errorf("debug log = %q", log.msgs)
	}
}

func TestDecoderStateString(t *testing.T) {
	for s := stIdle; s <= stError; s++ {
		if s.String() == "UNKNOWN" {
			t.Errorf("state %d has no name", s)
		}
	}
	if decoderState(99).String() != "UNKNOWN" {
		t.Errorf("unexpected name for invalid state")
	}
}
