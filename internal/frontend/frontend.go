// Package frontend contains the parts shared by the host adapters that
// display the framebuffer and feed keypad input into the emulator.
package frontend

import (
	"context"

	"github.com/retroenv/retrochip8/internal/emulator"
)

// Host is the emulator side that a frontend controls.
type Host interface {
	SetKey(key int, pressed bool) error
	Reset()
}

// Frontend displays frames and forwards keypad input to the host until the
// context is cancelled or the user quits.
type Frontend interface {
	emulator.Renderer

	Run(ctx context.Context, host Host) error
}
