package frontend

import (
	"context"
	"sync"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Headless is a frontend without display or input. It keeps the last
// rendered frame for inspection.
type Headless struct {
	mu     sync.Mutex
	frame  chip8.Framebuffer
	frames uint64
}

// NewHeadless returns a new headless frontend.
func NewHeadless() *Headless {
	return &Headless{}
}

// Render stores the frame.
func (h *Headless) Render(fb chip8.Framebuffer, _ bool) {
	h.mu.Lock()
	h.frame = fb
	h.frames++
	h.mu.Unlock()
}

// Run blocks until the context is cancelled.
func (h *Headless) Run(ctx context.Context, _ Host) error {
	<-ctx.Done()
	return nil
}

// Frame returns the last rendered frame.
func (h *Headless) Frame() chip8.Framebuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Frames returns the number of rendered frames.
func (h *Headless) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}
