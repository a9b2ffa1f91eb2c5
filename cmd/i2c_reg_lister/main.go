package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	logging "i2cdecode/common"
	"i2cdecode/internal/dcdtree"
	"i2cdecode/internal/lister"
)

func splitNames(v string) []string {
	var names []string
	for _, n := range strings.Split(v, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func main() {
	capDir := flag.String("cap_dir", "", "Path to the capture directory")
	decoders := flag.String("decoders", "", "Comma separated decoder stack, overrides capture.ini")
	events := flag.String("events", "", "Comma separated event files, overrides capture.ini")
	passPrint := flag.Bool("pass_print", false, "Print the bus events leaving the decoder stack")
	stickyErr := flag.Bool("sticky_err", false, "Wait for STOP after a protocol error in a transfer")
	shortLabels := flag.Bool("short_labels", false, "Print the shortest annotation labels")
	noIdx := flag.Bool("no_idx_print", false, "Do not print sample spans")
	stats := flag.Bool("stats", false, "Print annotation and decoder statistics")
	logLevel := flag.String("log_level", "warning", "Log level: debug, info, warning, error")
	logJSON := flag.Bool("log_json", false, "Log as JSON")
	mute := flag.String("mute", "", "Comma separated decoders whose annotations are not printed")
	list := flag.Bool("list", false, "List the registered decoders and exit")

	flag.Parse()

	if *list {
		lister.ListDecoders(os.Stdout, dcdtree.GetDecoderRegister())
		return
	}

	if *capDir == "" {
		fmt.Println("I2C Register Lister : Error: Missing directory string on -cap_dir option")
		os.Exit(1)
	}

	sev, err := logging.ParseSeverity(*logLevel)
	if err != nil {
		fmt.Printf("I2C Register Lister : Error: %v\n", err)
		os.Exit(1)
	}
	var logger logging.Logger
	if *logJSON {
		logger = logging.NewJSONLogger(os.Stderr, sev)
	} else {
		logger = logging.NewStdLogger(sev)
	}

	cfg := lister.Config{
		CaptureDir:   *capDir,
		Decoders:     splitNames(*decoders),
		EventFiles:   splitNames(*events),
		PassPrint:    *passPrint,
		StickyErr:    *stickyErr,
		ShortLabels:  *shortLabels,
		NoIdxPrint:   *noIdx,
		Stats:        *stats,
		Mute:         splitNames(*mute),
		Logger:       logger,
		LogLevel:     sev,
		OutputWriter: os.Stdout,
	}

	if err := lister.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
