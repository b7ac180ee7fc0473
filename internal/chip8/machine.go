package chip8

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
)

// CHIP-8 memory layout and machine resource constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// FontStart is the address of the first font glyph.
	FontStart = 0x050

	// FontGlyphSize is the size of a single font glyph in bytes.
	FontGlyphSize = 5

	// FontGlyphCount is the number of font glyphs, one per hexadecimal digit.
	FontGlyphCount = 16

	// ProgramStart is the address that programs are loaded to and executed from.
	ProgramStart = 0x200

	// MaxProgramSize is the maximum size of a program image, 0x200-0xFFF.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general-purpose registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, the carry, borrow and collision flag.
	FlagRegister = 0xF

	// MaxStackDepth is the maximum number of nested subroutine calls.
	MaxStackDepth = 16

	// KeyCount is the number of keys of the hexadecimal keypad.
	KeyCount = 16

	// TimerFrequency is the rate in Hz at which the timers count down.
	TimerFrequency = 60

	opcodeSize = 2
)

// Config contains the machine configuration.
type Config struct {
	Quirks Quirks
	Rand   *rand.Rand // random source for CXNN, randomly seeded if nil
}

// Machine is the complete state of one CHIP-8 virtual machine.
// It is not safe for concurrent use.
type Machine struct {
	memory [MemorySize]byte
	v      [RegisterCount]byte
	index  uint16
	pc     uint16

	stack [MaxStackDepth]uint16
	sp    int

	delayTimer byte
	soundTimer byte

	display Framebuffer

	keys        [KeyCount]bool
	awaitingKey bool   // FX0A is pending
	keyPresses  uint16 // keys pressed since FX0A started waiting, one bit per key

	quirks  Quirks
	rng     *rand.Rand
	program []byte
}

// New returns a new machine in power-on state.
func New(cfg Config) *Machine {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	m := &Machine{
		quirks: cfg.Quirks,
		rng:    rng,
	}
	m.initialize()
	return m
}

func (m *Machine) initialize() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontStart:], font[:])
	m.v = [RegisterCount]byte{}
	m.index = 0
	m.pc = ProgramStart
	m.stack = [MaxStackDepth]uint16{}
	m.sp = 0
	m.delayTimer = 0
	m.soundTimer = 0
	m.display = Framebuffer{}
	m.keys = [KeyCount]bool{}
	m.awaitingKey = false
	m.keyPresses = 0
}

// Load copies the program image into memory at ProgramStart.
// Memory below ProgramStart is never written.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrImageTooLarge, len(program), MaxProgramSize)
	}

	clear(m.memory[ProgramStart:])
	copy(m.memory[ProgramStart:], program)
	m.program = slices.Clone(program)
	return nil
}

// Reset restores the power-on state and reloads the last loaded program.
// Key state is kept as it reflects the host input devices.
func (m *Machine) Reset() {
	keys := m.keys
	m.initialize()
	m.keys = keys
	copy(m.memory[ProgramStart:], m.program)
}

// Quirks returns the active quirks.
func (m *Machine) Quirks() Quirks {
	return m.quirks
}

// Fetch reads the big-endian opcode at the program counter.
func (m *Machine) Fetch() (uint16, error) {
	if err := checkRange(m.pc, opcodeSize); err != nil {
		return 0, fmt.Errorf("fetching opcode at %03X: %w", m.pc, err)
	}
	return binary.BigEndian.Uint16(m.memory[m.pc:]), nil
}

// Step executes exactly one fetch, decode and execute cycle.
// It reports whether the display changed.
func (m *Machine) Step() (bool, error) {
	opcode, err := m.Fetch()
	if err != nil {
		return false, err
	}
	return m.Execute(Decode(opcode))
}

// TickTimers decrements the delay and sound timers toward zero.
// It has to be called at TimerFrequency.
func (m *Machine) TickTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// SetKey updates the pressed state of a keypad key.
func (m *Machine) SetKey(key int, pressed bool) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: key %d", ErrInvalidOperand, key)
	}

	if pressed && !m.keys[key] && m.awaitingKey {
		m.keyPresses |= 1 << key
	}
	m.keys[key] = pressed
	return nil
}

// Key returns whether the key is currently pressed.
func (m *Machine) Key(key int) bool {
	if key < 0 || key >= KeyCount {
		return false
	}
	return m.keys[key]
}

// Display returns a copy of the framebuffer.
func (m *Machine) Display() Framebuffer {
	return m.display
}

// SoundActive returns whether a tone should currently be emitted.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// AwaitingKey returns whether execution is blocked by FX0A.
func (m *Machine) AwaitingKey() bool {
	return m.awaitingKey
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// SetPC sets the program counter.
func (m *Machine) SetPC(pc uint16) error {
	if pc > MaxAddress {
		return fmt.Errorf("%w: program counter %04X", ErrInvalidOperand, pc)
	}
	m.pc = pc
	return nil
}

// Index returns the index register I.
func (m *Machine) Index() uint16 {
	return m.index
}

// SetIndex sets the index register I.
func (m *Machine) SetIndex(value uint16) {
	m.index = value
}

// Register returns the value of register Vx.
func (m *Machine) Register(x int) (byte, error) {
	if x < 0 || x >= RegisterCount {
		return 0, fmt.Errorf("%w: register %d", ErrInvalidOperand, x)
	}
	return m.v[x], nil
}

// SetRegister sets the value of register Vx.
func (m *Machine) SetRegister(x int, value byte) error {
	if x < 0 || x >= RegisterCount {
		return fmt.Errorf("%w: register %d", ErrInvalidOperand, x)
	}
	m.v[x] = value
	return nil
}

// Registers returns a copy of the general-purpose registers.
func (m *Machine) Registers() [RegisterCount]byte {
	return m.v
}

// Stack returns a copy of the active call stack, oldest entry first.
func (m *Machine) Stack() []uint16 {
	return slices.Clone(m.stack[:m.sp])
}

// DelayTimer returns the delay timer value.
func (m *Machine) DelayTimer() byte {
	return m.delayTimer
}

// SoundTimer returns the sound timer value.
func (m *Machine) SoundTimer() byte {
	return m.soundTimer
}

// ReadMemory returns the byte at the given address.
func (m *Machine) ReadMemory(address uint16) (byte, error) {
	if address > MaxAddress {
		return 0, fmt.Errorf("%w: address %04X", ErrInvalidOperand, address)
	}
	return m.memory[address], nil
}

// WriteMemory sets the byte at the given address.
func (m *Machine) WriteMemory(address uint16, value byte) error {
	if address > MaxAddress {
		return fmt.Errorf("%w: address %04X", ErrInvalidOperand, address)
	}
	m.memory[address] = value
	return nil
}

// checkRange verifies that length bytes starting at address are inside memory.
func checkRange(address uint16, length int) error {
	if int(address)+length-1 > MaxAddress {
		return fmt.Errorf("%w: %d bytes at address %04X", ErrInvalidOperand, length, address)
	}
	return nil
}
