// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// ErrEmptyROM is returned for ROM files that contain no data.
var ErrEmptyROM = errors.New("ROM file is empty")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a raw CHIP-8 program image from the given file.
// Files that do not fit into the program space are rejected.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadFrom(file)
}

// LoadFrom reads a raw CHIP-8 program image from the reader.
func (l *Loader) LoadFrom(reader io.Reader) ([]byte, error) {
	// read one byte more than allowed to detect oversized images
	data, err := io.ReadAll(io.LimitReader(reader, chip8.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyROM
	case len(data) > chip8.MaxProgramSize:
		return nil, fmt.Errorf("%w: more than %d bytes", chip8.ErrImageTooLarge, chip8.MaxProgramSize)
	}
	return data, nil
}
