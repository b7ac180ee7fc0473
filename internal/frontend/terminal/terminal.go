// Package terminal implements a frontend that draws the framebuffer with
// Unicode half blocks and reads the keypad from a raw mode terminal.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const (
	// terminals report no key releases, a key counts as released after
	// no repeat was received for this duration.
	releaseDelay = 150 * time.Millisecond

	frameRate = 60

	keyEscape = 0x1B
	keyCtrlC  = 0x03
)

const (
	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
	bell           = "\a"
)

// Terminal is the terminal frontend.
type Terminal struct {
	logger *log.Logger
	in     io.Reader
	out    io.Writer

	mu      sync.Mutex
	frame   chip8.Framebuffer
	dirty   bool
	ringing bool

	// only accessed by Run
	releaseAt [chip8.KeyCount]time.Time
}

// New returns a terminal frontend reading keys from in and drawing to out.
// A terminal input is switched to raw mode while running.
func New(logger *log.Logger, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		logger: logger,
		in:     in,
		out:    out,
		dirty:  true,
	}
}

// Render stores the frame for drawing at the next refresh.
func (t *Terminal) Render(fb chip8.Framebuffer, changed bool) {
	if !changed {
		return
	}
	t.mu.Lock()
	t.frame = fb
	t.dirty = true
	t.mu.Unlock()
}

// SetActive rings the terminal bell when the sound timer starts.
func (t *Terminal) SetActive(active bool) {
	if !active {
		return
	}
	t.mu.Lock()
	t.ringing = true
	t.mu.Unlock()
}

// Run draws frames and forwards key presses until the context is cancelled
// or Escape or Ctrl-C is pressed. Escape sequences of arrow and function
// keys are ignored.
func (t *Terminal) Run(ctx context.Context, host frontend.Host) error {
	restore, err := t.makeRaw()
	if err != nil {
		return err
	}
	defer restore()

	if _, err := io.WriteString(t.out, escHideCursor+escClearScreen); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	defer func() { _, _ = io.WriteString(t.out, escShowCursor+"\r\n") }()

	// the reader can block indefinitely in Read, it is abandoned when Run returns
	input := make(chan byte, 16)
	done := make(chan struct{})
	defer close(done)
	go readInput(t.in, input, done)

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()
	defer t.releaseAll(host)

	var (
		escape        escapeState
		escapeExpired <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return t.refresh()

		case b, ok := <-input:
			if !ok {
				input = nil // input closed, keep displaying
				continue
			}
			if b == keyCtrlC {
				t.logger.Debug("Quit requested")
				return nil
			}

			var consumed bool
			escape, consumed = escape.next(b)
			switch escape {
			case escapeStart:
				escapeExpired = time.After(escapeTimeout)
			case escapeNone:
				escapeExpired = nil
			}
			if !consumed {
				t.press(host, b, time.Now())
			}

		case <-escapeExpired:
			escapeExpired = nil
			if escape == escapeStart {
				t.logger.Debug("Quit requested")
				return nil
			}
			escape = escapeNone // drop unfinished sequence

		case now := <-ticker.C:
			t.releaseExpired(host, now)
			if err := t.refresh(); err != nil {
				return err
			}
		}
	}
}

func (t *Terminal) makeRaw() (func(), error) {
	file, ok := t.in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return func() {}, nil
	}

	fd := int(file.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, oldState) }, nil
}

// readInput forwards bytes read from r until r fails or done is closed.
func readInput(r io.Reader, input chan<- byte, done <-chan struct{}) {
	defer close(input)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case input <- buf[0]:
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (t *Terminal) press(host frontend.Host, b byte, now time.Time) {
	key, ok := frontend.KeyForRune(rune(b))
	if !ok {
		return
	}
	if t.releaseAt[key].IsZero() {
		t.setKey(host, key, true)
	}
	t.releaseAt[key] = now.Add(releaseDelay)
}

func (t *Terminal) releaseExpired(host frontend.Host, now time.Time) {
	for key, at := range t.releaseAt {
		if at.IsZero() || now.Before(at) {
			continue
		}
		t.releaseAt[key] = time.Time{}
		t.setKey(host, key, false)
	}
}

func (t *Terminal) releaseAll(host frontend.Host) {
	for key, at := range t.releaseAt {
		if at.IsZero() {
			continue
		}
		t.releaseAt[key] = time.Time{}
		t.setKey(host, key, false)
	}
}

func (t *Terminal) setKey(host frontend.Host, key int, pressed bool) {
	if err := host.SetKey(key, pressed); err != nil {
		t.logger.Error("Setting key state failed", log.Int("key", key), log.Err(err))
	}
}

// refresh draws the frame if it changed since the last refresh.
func (t *Terminal) refresh() error {
	t.mu.Lock()
	frame, dirty, ringing := t.frame, t.dirty, t.ringing
	t.dirty = false
	t.ringing = false
	t.mu.Unlock()

	if !dirty && !ringing {
		return nil
	}

	var sb strings.Builder
	if dirty {
		sb.WriteString(escCursorHome)
		drawFrame(&sb, frame)
	}
	if ringing {
		sb.WriteString(bell)
	}
	if _, err := io.WriteString(t.out, sb.String()); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}

// drawFrame writes the framebuffer as half block characters, every text
// line shows two pixel rows.
func drawFrame(sb *strings.Builder, fb chip8.Framebuffer) {
	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := range chip8.DisplayWidth {
			top, bottom := fb[y][x], fb[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
}
