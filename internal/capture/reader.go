package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"i2cdecode/internal/common"
	"i2cdecode/internal/dcd"
)

func readErr(err error) error {
	return fmt.Errorf("%w: %w", common.NewError(dcd.ErrSevError, dcd.ErrCaptureRead), err)
}

// Load reads capture.ini from a capture directory.
func Load(dir string) (*Capture, error) {
	iniPath := filepath.Join(dir, CaptureINIFilename)
	file, err := os.Open(iniPath)
	if err != nil {
		return nil, readErr(err)
	}
	defer file.Close()

	c, err := ParseCaptureIni(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", iniPath, err)
	}
	c.Dir = dir
	return c, nil
}

// ReadEvents parses every event file of the capture, in listed order.
func (c *Capture) ReadEvents() ([]EventSource, error) {
	srcs := make([]EventSource, 0, len(c.EventFiles))
	for _, name := range c.EventFiles {
		path := filepath.Join(c.Dir, name)
		file, err := os.Open(path)
		if err != nil {
			return nil, readErr(err)
		}
		recs, err := ParseEvents(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		srcs = append(srcs, EventSource{Name: name, Records: recs})
	}
	return srcs, nil
}
