package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x00, 0xE0, 0x12, 0x00})

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, data)
	})

	t.Run("load maximum size ROM", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, chip8.MaxProgramSize))

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, data, chip8.MaxProgramSize)
	})

	t.Run("error on oversized ROM", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, chip8.MaxProgramSize+1))

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, chip8.ErrImageTooLarge))
	})

	t.Run("error on empty ROM", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.ch8")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestLoadFrom(t *testing.T) {
	data, err := New().LoadFrom(bytes.NewReader([]byte{0x60, 0x01}))
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01}, data)

	_, err = New().LoadFrom(failingReader{})
	assert.ErrorContains(t, err, "reading ROM")
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
