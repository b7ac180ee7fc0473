package emulator

import (
	"sync"

	"github.com/retroenv/retrochip8/internal/chip8"
)

type mockRenderer struct {
	mu      sync.Mutex
	frames  int
	changed int
	last    chip8.Framebuffer
}

func (r *mockRenderer) Render(fb chip8.Framebuffer, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	if changed {
		r.changed++
	}
	r.last = fb
}

type mockBeeper struct {
	transitions []bool
}

func (b *mockBeeper) SetActive(active bool) {
	b.transitions = append(b.transitions, active)
}
