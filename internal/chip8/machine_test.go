package chip8

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func newTestMachine(t *testing.T, quirks Quirks, program ...byte) *Machine {
	t.Helper()
	m := New(Config{
		Quirks: quirks,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	assert.NoError(t, m.Load(program))
	return m
}

func TestNew(t *testing.T) {
	m := New(Config{})

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint16(0), m.Index())
	assert.Equal(t, [RegisterCount]byte{}, m.Registers())
	assert.Empty(t, m.Stack())
	assert.Equal(t, 0, m.display.Lit())
	assert.False(t, m.SoundActive())
	assert.NotNil(t, m.rng)

	for i, b := range font {
		got, err := m.ReadMemory(uint16(FontStart + i))
		assert.NoError(t, err)
		assert.Equal(t, b, got)
	}
	for address := range uint16(FontStart) {
		assert.Equal(t, byte(0), m.memory[address])
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty program", 0, false},
		{"single instruction", 2, false},
		{"exactly fits", MaxProgramSize, false},
		{"one byte too large", MaxProgramSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Config{})
			program := make([]byte, tt.size)
			for i := range program {
				program[i] = byte(i) | 1
			}

			err := m.Load(program)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrImageTooLarge))
				assert.Equal(t, byte(0), m.memory[ProgramStart])
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, program, m.memory[ProgramStart:ProgramStart+tt.size])
			assert.Equal(t, font[:], m.memory[FontStart:FontStart+len(font)])
		})
	}
}

func TestLoad_ReplacesPreviousProgram(t *testing.T) {
	m := newTestMachine(t, Quirks{}, 0x11, 0x22, 0x33, 0x44)
	assert.NoError(t, m.Load([]byte{0xAA}))

	assert.Equal(t, []byte{0xAA, 0x00, 0x00, 0x00}, m.memory[ProgramStart:ProgramStart+4])
}

func TestReset(t *testing.T) {
	m := newTestMachine(t, Quirks{}, 0x60, 0x05, 0x22, 0x00)

	_, err := m.Step()
	assert.NoError(t, err)
	assert.NoError(t, m.WriteMemory(ProgramStart, 0xFF))
	assert.NoError(t, m.SetKey(3, true))
	m.soundTimer = 9

	m.Reset()

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, [RegisterCount]byte{}, m.Registers())
	assert.Equal(t, byte(0x60), m.memory[ProgramStart])
	assert.False(t, m.SoundActive())
	assert.True(t, m.Key(3))
}

func TestFetch(t *testing.T) {
	m := newTestMachine(t, Quirks{}, 0x12, 0x34)

	opcode, err := m.Fetch()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), opcode)

	m.pc = MaxAddress
	_, err = m.Fetch()
	assert.True(t, errors.Is(err, ErrInvalidOperand))
}

func TestStep_LoadImmediate(t *testing.T) {
	m := newTestMachine(t, Quirks{}, 0x60, 0x05)

	changed, err := m.Step()
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, byte(5), m.v[0])
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestStep_AddImmediate(t *testing.T) {
	m := newTestMachine(t, Quirks{}, 0x70, 0x05)
	m.v[0] = 5

	_, err := m.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(10), m.v[0])
	assert.Equal(t, byte(0), m.v[FlagRegister])
}

func TestTickTimers(t *testing.T) {
	m := New(Config{})
	m.delayTimer = 2
	m.soundTimer = 1
	assert.True(t, m.SoundActive())

	m.TickTimers()
	assert.Equal(t, byte(1), m.DelayTimer())
	assert.Equal(t, byte(0), m.SoundTimer())
	assert.False(t, m.SoundActive())

	m.TickTimers()
	m.TickTimers()
	assert.Equal(t, byte(0), m.DelayTimer())
	assert.Equal(t, byte(0), m.SoundTimer())
}

func TestSetKey(t *testing.T) {
	m := New(Config{})

	assert.NoError(t, m.SetKey(0xF, true))
	assert.True(t, m.Key(0xF))
	assert.NoError(t, m.SetKey(0xF, false))
	assert.False(t, m.Key(0xF))

	assert.True(t, errors.Is(m.SetKey(16, true), ErrInvalidOperand))
	assert.True(t, errors.Is(m.SetKey(-1, true), ErrInvalidOperand))
	assert.False(t, m.Key(16))
}

func TestAccessors_RangeChecks(t *testing.T) {
	m := New(Config{})

	_, err := m.Register(RegisterCount)
	assert.True(t, errors.Is(err, ErrInvalidOperand))
	assert.True(t, errors.Is(m.SetRegister(-1, 1), ErrInvalidOperand))
	assert.True(t, errors.Is(m.SetPC(MaxAddress+1), ErrInvalidOperand))
	_, err = m.ReadMemory(MaxAddress + 1)
	assert.True(t, errors.Is(err, ErrInvalidOperand))
	assert.True(t, errors.Is(m.WriteMemory(MaxAddress+1, 0), ErrInvalidOperand))

	assert.NoError(t, m.SetRegister(0xA, 0x42))
	value, err := m.Register(0xA)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), value)
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(0x050), GlyphAddress(0x0))
	assert.Equal(t, uint16(0x055), GlyphAddress(0x1))
	assert.Equal(t, uint16(0x09B), GlyphAddress(0xF))
	assert.Equal(t, uint16(0x09B), GlyphAddress(0xFF))
}
