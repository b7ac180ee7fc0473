// Package window implements a frontend that shows the framebuffer in a
// desktop window and reads the keypad from the keyboard.
package window

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
)

const title = "retrochip8"

// keys maps host keys to keypad keys, in the layout of frontend.Layout.
var keys = [4][4]ebiten.Key{
	{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4},
	{ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR},
	{ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF},
	{ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV},
}

// Window is the desktop window frontend.
type Window struct {
	logger *log.Logger
	scale  int

	mu     sync.Mutex
	pixels []byte
	dirty  bool

	// only accessed by the game loop
	ctx     context.Context
	host    frontend.Host
	image   *ebiten.Image
	pressed [chip8.KeyCount]bool
}

// New returns a window frontend that scales every pixel by the given factor.
func New(logger *log.Logger, scale int) *Window {
	w := &Window{
		logger: logger,
		scale:  scale,
		pixels: make([]byte, frontend.PixelsSize),
		dirty:  true,
	}
	frontend.FillPixels(w.pixels, chip8.Framebuffer{})
	return w
}

// Render converts the frame for drawing at the next window refresh.
func (w *Window) Render(fb chip8.Framebuffer, changed bool) {
	if !changed {
		return
	}
	w.mu.Lock()
	frontend.FillPixels(w.pixels, fb)
	w.dirty = true
	w.mu.Unlock()
}

// Run opens the window and runs the game loop until the context is
// cancelled or the window is closed. It has to be called from the main
// goroutine.
func (w *Window) Run(ctx context.Context, host frontend.Host) error {
	w.ctx = ctx
	w.host = host

	ebiten.SetWindowSize(chip8.DisplayWidth*w.scale, chip8.DisplayHeight*w.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update handles the keyboard input.
func (w *Window) Update() error {
	if w.ctx.Err() != nil || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.logger.Debug("Quit requested")
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		w.host.Reset()
	}

	for row := range keys {
		for col, hostKey := range keys[row] {
			key := frontend.Keypad[row][col]
			pressed := ebiten.IsKeyPressed(hostKey)
			if pressed == w.pressed[key] {
				continue
			}
			w.pressed[key] = pressed
			if err := w.host.SetKey(key, pressed); err != nil {
				w.logger.Error("Setting key state failed", log.Int("key", key), log.Err(err))
			}
		}
	}
	return nil
}

// Draw draws the last rendered frame.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}

	w.mu.Lock()
	if w.dirty {
		w.image.WritePixels(w.pixels)
		w.dirty = false
	}
	w.mu.Unlock()

	screen.DrawImage(w.image, nil)
}

// Layout returns the display resolution, the window scales it.
func (w *Window) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}
