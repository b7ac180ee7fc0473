package chip8

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestFramebuffer_Pixel(t *testing.T) {
	var fb Framebuffer
	fb[1][2] = true

	assert.True(t, fb.Pixel(2, 1))
	assert.True(t, fb.Pixel(2+DisplayWidth, 1+DisplayHeight))
	assert.True(t, fb.Pixel(2-DisplayWidth, 1-DisplayHeight))
	assert.False(t, fb.Pixel(1, 2))
}

func TestFramebuffer_String(t *testing.T) {
	var fb Framebuffer
	fb[0][0] = true
	fb[DisplayHeight-1][DisplayWidth-1] = true

	lines := strings.Split(strings.TrimSuffix(fb.String(), "\n"), "\n")
	assert.Len(t, lines, DisplayHeight)
	assert.Equal(t, "#"+strings.Repeat(".", DisplayWidth-1), lines[0])
	assert.Equal(t, strings.Repeat(".", DisplayWidth-1)+"#", lines[DisplayHeight-1])
}

func TestFramebuffer_DrawSprite(t *testing.T) {
	var fb Framebuffer

	collision, changed := fb.drawSprite(0, 0, []byte{0x00})
	assert.False(t, collision)
	assert.False(t, changed)

	collision, changed = fb.drawSprite(0, 0, []byte{0x81})
	assert.False(t, collision)
	assert.True(t, changed)
	assert.True(t, fb[0][0])
	assert.True(t, fb[0][7])

	collision, changed = fb.drawSprite(7, 0, []byte{0x80})
	assert.True(t, collision)
	assert.True(t, changed)
	assert.False(t, fb[0][7])
	assert.Equal(t, 1, fb.Lit())
}
