package chip8

import "strings"

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Framebuffer is the monochrome display, indexed by row then column.
type Framebuffer [DisplayHeight][DisplayWidth]bool

// Pixel returns whether the pixel at the given position is set.
// Coordinates wrap around the display edges.
func (f *Framebuffer) Pixel(x, y int) bool {
	x %= DisplayWidth
	if x < 0 {
		x += DisplayWidth
	}
	y %= DisplayHeight
	if y < 0 {
		y += DisplayHeight
	}
	return f[y][x]
}

// Lit returns the number of set pixels.
func (f *Framebuffer) Lit() int {
	var n int
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				n++
			}
		}
	}
	return n
}

// String renders the framebuffer as text, one line per row using '#' for set
// and '.' for cleared pixels.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow(DisplayHeight * (DisplayWidth + 1))
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// clear turns all pixels off and returns whether any pixel was set.
func (f *Framebuffer) clear() bool {
	changed := f.Lit() > 0
	*f = Framebuffer{}
	return changed
}

// drawSprite XORs the sprite rows onto the display starting at x, y.
// Every pixel wraps around the display edges individually.
// It returns whether a set pixel was erased and whether any pixel changed.
func (f *Framebuffer) drawSprite(x, y byte, sprite []byte) (collision, changed bool) {
	for row, bits := range sprite {
		py := (int(y) + row) % DisplayHeight
		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			if f[py][px] {
				collision = true
			}
			f[py][px] = !f[py][px]
			changed = true
		}
	}
	return collision, changed
}
