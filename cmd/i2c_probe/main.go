// Command i2c_probe reads the registers of a supported chip over a Linux
// I2C bus and prints the decoded bus traffic next to the register values.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	logging "i2cdecode/common"
	"i2cdecode/internal/dcdtree"
	"i2cdecode/internal/i2ctap"
	"i2cdecode/internal/pipeline"
	"i2cdecode/internal/printers"
	"i2cdecode/internal/regdec"
	"i2cdecode/internal/regdump"
	"i2cdecode/internal/regsim"
)

func fail(format string, args ...any) {
	fmt.Printf("I2C Probe : Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	busName := flag.String("bus", "1", "I2C bus name or number")
	chip := flag.String("chip", "pca9641", "Decoder name of the chip to probe")
	addr := flag.Uint("addr", 0, "7-bit slave address, 0 for the chip default")
	sim := flag.Bool("sim", false, "Probe a simulated chip instead of the bus")
	speed := flag.Int64("speed", 0, "Bus clock in Hz, 0 to leave unchanged")
	count := flag.Int("count", 1, "Number of dumps, 0 to run until interrupted")
	interval := flag.Duration("interval", time.Second, "Delay between dumps")
	quiet := flag.Bool("quiet", false, "Do not print the decoded bus traffic")
	logLevel := flag.String("log_level", "warning", "Log level: debug, info, warning, error")

	flag.Parse()

	sev, err := logging.ParseSeverity(*logLevel)
	if err != nil {
		fail("%v", err)
	}
	logger := logging.NewStdLogger(sev)

	reg := dcdtree.GetDecoderRegister()
	mngr, dcdErr := reg.GetDecoderMngrByName(*chip)
	if mngr == nil {
		fail("unknown chip %q (%v)", *chip, dcdErr)
	}
	profile := mngr.Profile()
	target := uint16(*addr)
	if target == 0 {
		target = uint16(profile.Addresses[0])
	}

	tree, err := pipeline.NewDecodeTree(reg, 0, pipeline.DecoderConfig{Name: *chip})
	if err != nil {
		fail("%v", err)
	}
	annPrinter := printers.NewAnnPrinter(os.Stdout)
	annPrinter.SetMute(*quiet)
	tree.SetAnnotationOut(annPrinter)
	tree.SetErrorLogger(logging.NewLoggerErrorLog(logger), logging.ErrSeverityFor(sev))

	var inner drivers.I2C
	if *sim {
		inner = regsim.NewDevice(profile)
	} else {
		if _, err := host.Init(); err != nil {
			fail("%v", err)
		}
		b, err := i2creg.Open(*busName)
		if err != nil {
			fail("%v", err)
		}
		defer b.Close()
		inner = b
	}
	tap := i2ctap.New(*busName, inner, tree.EventIn())
	if *speed > 0 {
		if err := tap.SetSpeed(physic.Frequency(*speed) * physic.Hertz); err != nil {
			fail("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, tap, profile, target, *count, *interval)
	tap.EOT()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, bus drivers.I2C, p *regdec.Profile, addr uint16, count int, interval time.Duration) error {
	for n := 0; count == 0 || n < count; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
		regs, err := regdump.Dump(ctx, bus, p, addr)
		if err != nil {
			return err
		}
		printRegisters(p, addr, regs)
	}
	return nil
}

func printRegisters(p *regdec.Profile, addr uint16, regs []byte) {
	fmt.Printf("%s at 0x%02X:\n", p.ChipLabel, addr)
	for i, v := range regs {
		fmt.Printf("  %2d  %s\n", i, p.Registers[i].Labels(v)[0])
	}
}
