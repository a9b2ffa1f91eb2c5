package lister

import (
	"fmt"
	"io"
	"os"
	"strings"

	logging "i2cdecode/common"
	"i2cdecode/internal/capture"
	"i2cdecode/internal/dcd"
	"i2cdecode/internal/dcdtree"
	"i2cdecode/internal/pipeline"
	"i2cdecode/internal/printers"
	"i2cdecode/internal/regdec"
)

// Config mirrors the command line arguments of i2c_reg_lister.
type Config struct {
	CaptureDir   string
	Decoders     []string // overrides the capture's decoder stack when set
	EventFiles   []string // overrides the capture's event files when set
	PassPrint    bool     // print the raw events leaving the stack
	StickyErr    bool
	ShortLabels  bool
	NoIdxPrint   bool
	Stats        bool
	Mute         []string // decoders whose annotations are not printed
	Logger       logging.Logger
	LogLevel     logging.Severity
	OutputWriter io.Writer
}

// Run loads a capture directory, decodes every event file and prints the
// annotations.
func Run(cfg Config) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	fmt.Fprintln(w, "I2C Register Lister: register access decode")
	fmt.Fprintln(w, "-------------------------------------------")
	fmt.Fprintf(w, "I2C Register Lister : reading capture from path %s\n", cfg.CaptureDir)

	capt, err := capture.Load(cfg.CaptureDir)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}
	if len(cfg.Decoders) > 0 {
		capt.Decoders = capt.Decoders[:0]
		for _, name := range cfg.Decoders {
			capt.Decoders = append(capt.Decoders, capture.DecoderDef{Name: name})
		}
	}
	if len(cfg.EventFiles) > 0 {
		capt.EventFiles = cfg.EventFiles
	}
	capt.StickyError = capt.StickyError || cfg.StickyErr
	if capt.Info.Description != "" {
		fmt.Fprintf(w, "Capture: %s\n", capt.Info.Description)
	}

	srcs, err := capt.ReadEvents()
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	tree, err := pipeline.NewDecodeTreeFromCapture(dcdtree.GetDecoderRegister(), capt)
	if err != nil {
		return fmt.Errorf("error creating decode tree: %w", err)
	}
	fmt.Fprintf(w, "Decoder stack: %s\n", strings.Join(capt.DecoderNames(), " > "))

	annPrinter := printers.NewAnnPrinter(w)
	annPrinter.SetShortLabels(cfg.ShortLabels)
	annPrinter.MuteIdxPrint(cfg.NoIdxPrint)
	annPrinter.SetCollectStats()
	tree.SetAnnotationOut(annPrinter)
	if cfg.PassPrint {
		evPrinter := printers.NewEventPrinter(w)
		evPrinter.MuteIdxPrint(cfg.NoIdxPrint)
		tree.SetEventOut(evPrinter)
	}
	tree.SetErrorLogger(logging.NewLoggerErrorLog(logger), logging.ErrSeverityFor(cfg.LogLevel))
	if err := tree.MuteAnnotations(cfg.Mute...); err != nil {
		return err
	}

	for i, src := range srcs {
		if i > 0 {
			tree.Reset()
		}
		fmt.Fprintf(w, "Using %s as event source (%d events)\n", src.Name, len(src.Records))
		logger.Logf(logging.SeverityInfo, "decoding %s", src.Name)
		if err := tree.Run(src.Records); err != nil {
			return fmt.Errorf("error decoding %s: %w", src.Name, err)
		}
	}

	if cfg.Stats {
		annPrinter.PrintStats()
		PrintDecodeStats(w, tree)
	}
	return nil
}

// PrintDecodeStats writes the counters of every decoder in the tree.
func PrintDecodeStats(w io.Writer, tree *pipeline.DecodeTree) {
	fmt.Fprintln(w, "Decoder statistics:-")
	for _, e := range tree.Elements() {
		fmt.Fprintf(w, "%s: %s\n", e.Decoder.ComponentName(), formatStats(e.Decoder.DecodeStats()))
	}
}

func formatStats(s *dcd.DecodeStats) string {
	return fmt.Sprintf("events %d; transactions %d; identified %d; ignored %d; register accesses %d; protocol errors %d; annotations %d",
		s.EventsIn, s.Transactions, s.Identified, s.Ignored, s.RegAccesses, s.ProtocolErrs, s.Annotations)
}

// ListDecoders writes the registered decoders with their annotation classes.
func ListDecoders(w io.Writer, reg *dcdtree.DecoderRegister) {
	fmt.Fprintln(w, "Registered decoders:-")
	for _, name := range reg.DecoderNames() {
		mngr, err := reg.GetDecoderMngrByName(name)
		if err != dcd.OK {
			continue
		}
		writeProfile(w, name, mngr.Profile())
	}
}

func writeProfile(w io.Writer, name string, p *regdec.Profile) {
	addrs := make([]string, len(p.Addresses))
	for i, a := range p.Addresses {
		addrs[i] = fmt.Sprintf("0x%02X", a)
	}
	fmt.Fprintf(w, "\n%s - %s (%s)\n", name, p.LongName, p.Name)
	fmt.Fprintf(w, "  %s\n", p.Desc)
	fmt.Fprintf(w, "  slave addresses: %s\n", strings.Join(addrs, ", "))
	for _, row := range p.AnnotationRows() {
		fmt.Fprintf(w, "  row %s (%s):\n", row.ID, row.Desc)
		for _, c := range row.Classes {
			cls := p.AnnotationClasses()[c]
			fmt.Fprintf(w, "    %2d %-14s %s\n", c, cls.ID, cls.Desc)
		}
	}
}
