package frontend

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestFillPixels(t *testing.T) {
	var fb chip8.Framebuffer
	fb[0][1] = true
	fb[31][63] = true

	dst := make([]byte, PixelsSize)
	FillPixels(dst, fb)

	assert.Equal(t, []byte{0, 0, 0, 0xFF}, dst[0:4])
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, dst[4:8])
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, dst[PixelsSize-4:])
	assert.Equal(t, []byte{0, 0, 0, 0xFF}, dst[PixelsSize-8:PixelsSize-4])
}
