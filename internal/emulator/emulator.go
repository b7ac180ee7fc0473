// Package emulator drives a CHIP-8 machine: it executes instructions at a
// configurable rate and counts down the timers at a fixed 60 Hz, serializing
// all access to the machine state.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/trace"
	"github.com/retroenv/retrogolib/log"
)

// Instruction rate limits in Hz.
const (
	DefaultClockHz = 700
	MinClockHz     = 1
	MaxClockHz     = 100_000
)

// maxBatch caps the number of instructions executed for a single clock tick
// so that a stalled host does not cause a long burst of catch-up execution.
const maxBatch = 1000

// ErrInvalidClock is returned for an instruction rate outside of the supported range.
var ErrInvalidClock = errors.New("invalid clock rate")

// Renderer receives the framebuffer after every executed instruction.
// Render can be called from the run loop and from host goroutines.
type Renderer interface {
	Render(fb chip8.Framebuffer, changed bool)
}

// Beeper is notified when the sound timer starts or stops.
type Beeper interface {
	SetActive(active bool)
}

// Options controls the emulation.
type Options struct {
	ClockHz   int    // instructions per second
	MaxCycles uint64 // stop after this many cycles, 0 for no limit
	Trace     bool   // log every executed instruction at debug level
}

// Dependencies are the host collaborators of the emulator. Nil fields are
// replaced with implementations that discard their input.
type Dependencies struct {
	Renderer Renderer
	Beeper   Beeper
}

// Emulator runs a machine and exposes it to host adapters.
type Emulator struct {
	logger   *log.Logger
	opts     Options
	renderer Renderer
	beeper   Beeper
	tracer   *trace.Tracer

	mu          sync.Mutex
	machine     *chip8.Machine
	cycles      uint64
	soundActive bool

	// only accessed by the run loop
	lastTick time.Time
	budget   int64 // nanoseconds multiplied by ClockHz not yet spent on instructions
}

// New returns a new emulator for the machine.
func New(logger *log.Logger, machine *chip8.Machine, opts Options, deps Dependencies) (*Emulator, error) {
	if opts.ClockHz == 0 {
		opts.ClockHz = DefaultClockHz
	}
	if opts.ClockHz < MinClockHz || opts.ClockHz > MaxClockHz {
		return nil, fmt.Errorf("%w: %d Hz, supported range is %d-%d Hz",
			ErrInvalidClock, opts.ClockHz, MinClockHz, MaxClockHz)
	}

	e := &Emulator{
		logger:   logger,
		opts:     opts,
		renderer: deps.Renderer,
		beeper:   deps.Beeper,
		machine:  machine,
	}
	if e.renderer == nil {
		e.renderer = nopRenderer{}
	}
	if e.beeper == nil {
		e.beeper = nopBeeper{}
	}
	if opts.Trace {
		e.tracer = trace.New(logger, machine.Quirks())
	}
	return e, nil
}

// Run executes the machine until the context is cancelled, an instruction
// fails or the cycle limit is reached.
func (e *Emulator) Run(ctx context.Context) error {
	period := max(time.Second/time.Duration(e.opts.ClockHz), time.Millisecond)
	cycleTicker := time.NewTicker(period)
	defer cycleTicker.Stop()

	timerTicker := time.NewTicker(time.Second / chip8.TimerFrequency)
	defer timerTicker.Stop()

	e.logger.Debug("Starting emulation",
		log.Int("clock_hz", e.opts.ClockHz),
		log.Stringer("tick", period))

	return e.run(ctx, cycleTicker.C, timerTicker.C)
}

// run serves both the instruction clock and the timer clock from a single
// goroutine, so a timer tick never interleaves with an instruction.
func (e *Emulator) run(ctx context.Context, cycleC, timerC <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("emulation stopped: %w", ctx.Err())

		case <-timerC:
			e.tickTimers()

		case now := <-cycleC:
			for range e.instructionsDue(now) {
				if err := e.step(); err != nil {
					return err
				}
				if e.limitReached() {
					e.logger.Debug("Cycle limit reached", log.Int("cycles", int(e.opts.MaxCycles)))
					return nil
				}
			}
		}
	}
}

// instructionsDue returns the number of instructions to execute for a clock
// tick at the given time, carrying fractions over to the next tick.
func (e *Emulator) instructionsDue(now time.Time) int {
	if e.lastTick.IsZero() {
		e.lastTick = now
		return 1
	}

	elapsed := min(now.Sub(e.lastTick), time.Second)
	e.lastTick = now
	if elapsed <= 0 {
		return 0
	}

	e.budget += int64(elapsed) * int64(e.opts.ClockHz)
	due := e.budget / int64(time.Second)
	e.budget %= int64(time.Second)
	return int(min(due, maxBatch))
}

// step executes one instruction and hands the display to the renderer unless
// the machine is waiting for a key press.
func (e *Emulator) step() error {
	e.mu.Lock()
	pc := e.machine.PC()
	if e.tracer != nil && !e.machine.AwaitingKey() {
		if opcode, err := e.machine.Fetch(); err == nil {
			e.tracer.Trace(pc, opcode)
		}
	}

	changed, err := e.machine.Step()
	e.cycles++
	waiting := e.machine.AwaitingKey()
	fb := e.machine.Display()
	e.mu.Unlock()

	if err != nil {
		return fmt.Errorf("running instruction: %w", err)
	}
	if !waiting {
		e.renderer.Render(fb, changed)
	}
	return nil
}

func (e *Emulator) tickTimers() {
	e.mu.Lock()
	e.machine.TickTimers()
	active := e.machine.SoundActive()
	e.mu.Unlock()

	if active != e.soundActive {
		e.soundActive = active
		e.beeper.SetActive(active)
	}
}

func (e *Emulator) limitReached() bool {
	if e.opts.MaxCycles == 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycles >= e.opts.MaxCycles
}

// SetKey forwards a host key event to the machine.
func (e *Emulator) SetKey(key int, pressed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.machine.SetKey(key, pressed); err != nil {
		return fmt.Errorf("setting key state: %w", err)
	}
	return nil
}

// Framebuffer returns a copy of the current display.
func (e *Emulator) Framebuffer() chip8.Framebuffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Display()
}

// SoundActive returns whether the sound timer is running.
func (e *Emulator) SoundActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.SoundActive()
}

// Cycles returns the number of executed cycles.
func (e *Emulator) Cycles() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycles
}

// Reset restarts the loaded program.
func (e *Emulator) Reset() {
	e.mu.Lock()
	e.machine.Reset()
	fb := e.machine.Display()
	e.mu.Unlock()

	e.logger.Info("Machine reset")
	e.renderer.Render(fb, true)
}

type nopRenderer struct{}

func (nopRenderer) Render(chip8.Framebuffer, bool) {}

type nopBeeper struct{}

func (nopBeeper) SetActive(bool) {}
