package frontend

import (
	"image/color"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Pixel colors of lit and unlit framebuffer pixels.
var (
	ColorOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorOff = color.RGBA{A: 0xFF}
)

// PixelsSize is the size of the RGBA pixel buffer of a framebuffer.
const PixelsSize = chip8.DisplayWidth * chip8.DisplayHeight * 4

// FillPixels converts the framebuffer to RGBA pixels in row-major order.
// dst has to be at least PixelsSize bytes long.
func FillPixels(dst []byte, fb chip8.Framebuffer) {
	i := 0
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			c := ColorOff
			if fb[y][x] {
				c = ColorOn
			}
			dst[i] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			dst[i+3] = c.A
			i += 4
		}
	}
}
