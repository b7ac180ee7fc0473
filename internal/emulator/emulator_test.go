package emulator

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestEmulator(t *testing.T, opts Options, program ...byte) (*Emulator, *mockRenderer, *mockBeeper) {
	t.Helper()

	machine := chip8.New(chip8.Config{Rand: rand.New(rand.NewPCG(1, 2))})
	assert.NoError(t, machine.Load(program))

	renderer := &mockRenderer{}
	beeper := &mockBeeper{}
	emu, err := New(log.NewTestLogger(t), machine, opts, Dependencies{
		Renderer: renderer,
		Beeper:   beeper,
	})
	assert.NoError(t, err)
	return emu, renderer, beeper
}

// ticks returns a channel that holds n clock ticks spaced one instruction apart.
func ticks(n int, hz int) <-chan time.Time {
	c := make(chan time.Time, n)
	start := time.Unix(0, 0)
	period := time.Second / time.Duration(hz)
	for i := range n {
		c <- start.Add(time.Duration(i) * period)
	}
	return c
}

func TestNew(t *testing.T) {
	machine := chip8.New(chip8.Config{})

	emu, err := New(log.NewTestLogger(t), machine, Options{}, Dependencies{})
	assert.NoError(t, err)
	assert.Equal(t, DefaultClockHz, emu.opts.ClockHz)
	assert.NotNil(t, emu.renderer)
	assert.NotNil(t, emu.beeper)
	assert.Nil(t, emu.tracer)

	emu, err = New(log.NewTestLogger(t), machine, Options{ClockHz: 500, Trace: true}, Dependencies{})
	assert.NoError(t, err)
	assert.NotNil(t, emu.tracer)

	for _, hz := range []int{-1, MaxClockHz + 1} {
		_, err = New(log.NewTestLogger(t), machine, Options{ClockHz: hz}, Dependencies{})
		assert.True(t, errors.Is(err, ErrInvalidClock))
	}
}

func TestRun_CycleLimit(t *testing.T) {
	// LD V0, 1; ADD V0, 1; JP $202
	emu, renderer, _ := newTestEmulator(t, Options{ClockHz: 1000, MaxCycles: 5, Trace: true},
		0x60, 0x01, 0x70, 0x01, 0x12, 0x02)

	err := emu.run(context.Background(), ticks(10, 1000), nil)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), emu.Cycles())
	assert.Equal(t, 5, renderer.frames)
	assert.Equal(t, 0, renderer.changed)

	v0, err := emu.machine.Register(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(3), v0)
}

func TestRun_StopsOnError(t *testing.T) {
	emu, _, _ := newTestEmulator(t, Options{ClockHz: 1000}, 0x00, 0xEE)

	err := emu.run(context.Background(), ticks(3, 1000), nil)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.Equal(t, uint64(1), emu.Cycles())
}

func TestRun_ContextCancelled(t *testing.T) {
	emu, _, _ := newTestEmulator(t, Options{}, 0x12, 0x00)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emu.run(ctx, nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_DrawRendersChangedFrame(t *testing.T) {
	// LD F, V0; DRW V0, V0, 5
	emu, renderer, _ := newTestEmulator(t, Options{ClockHz: 1000, MaxCycles: 2},
		0xF0, 0x29, 0xD0, 0x05)

	err := emu.run(context.Background(), ticks(2, 1000), nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, renderer.frames)
	assert.Equal(t, 1, renderer.changed)
	assert.True(t, renderer.last[0][0])
	assert.Equal(t, renderer.last, emu.Framebuffer())
}

func TestStep_WaitingForKeyDoesNotRender(t *testing.T) {
	emu, renderer, _ := newTestEmulator(t, Options{}, 0xF1, 0x0A)

	for range 3 {
		assert.NoError(t, emu.step())
	}
	assert.Equal(t, 0, renderer.frames)

	assert.NoError(t, emu.SetKey(0x9, true))
	assert.NoError(t, emu.step())
	assert.Equal(t, 1, renderer.frames)
	assert.Equal(t, uint16(0x202), emu.machine.PC())

	assert.Error(t, emu.SetKey(16, true))
}

func TestTickTimers_Beeper(t *testing.T) {
	// LD V0, 2; LD ST, V0
	emu, _, beeper := newTestEmulator(t, Options{}, 0x60, 0x02, 0xF0, 0x18)

	assert.NoError(t, emu.step())
	assert.NoError(t, emu.step())
	assert.True(t, emu.SoundActive())

	emu.tickTimers()
	assert.Equal(t, []bool{true}, beeper.transitions)
	emu.tickTimers()
	emu.tickTimers()
	assert.Equal(t, []bool{true, false}, beeper.transitions)
	assert.False(t, emu.SoundActive())
}

func TestInstructionsDue(t *testing.T) {
	emu, _, _ := newTestEmulator(t, Options{ClockHz: 700})
	start := time.Unix(100, 0)

	assert.Equal(t, 1, emu.instructionsDue(start))
	assert.Equal(t, 0, emu.instructionsDue(start))
	assert.Equal(t, 7, emu.instructionsDue(start.Add(10*time.Millisecond)))

	// 1 ms at 700 Hz is 0.7 instructions, fractions add up over ticks
	var total int
	for i := range 10 {
		total += emu.instructionsDue(start.Add(10*time.Millisecond + time.Duration(i+1)*time.Millisecond))
	}
	assert.Equal(t, 7, total)

	// stalls are capped
	assert.Equal(t, 700, emu.instructionsDue(start.Add(time.Hour)))
}

func TestReset(t *testing.T) {
	emu, renderer, _ := newTestEmulator(t, Options{}, 0x60, 0x07)

	assert.NoError(t, emu.step())
	emu.Reset()

	v0, err := emu.machine.Register(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), v0)
	assert.Equal(t, uint16(chip8.ProgramStart), emu.machine.PC())
	assert.Equal(t, 2, renderer.frames)
}
