package chip8

import (
	"fmt"
	"math/bits"
)

// Execute applies one decoded instruction to the machine and advances the
// program counter. It reports whether the display changed.
// A failing instruction leaves the machine state unmodified.
func (m *Machine) Execute(ins Instruction) (bool, error) {
	next, changed, err := m.execute(ins)
	if err != nil {
		return false, fmt.Errorf("executing opcode %04X at %03X: %w", ins.Opcode, m.pc, err)
	}
	m.pc = next
	return changed, nil
}

func (m *Machine) execute(ins Instruction) (uint16, bool, error) {
	if ins.X >= RegisterCount || ins.Y >= RegisterCount {
		return 0, false, fmt.Errorf("%w: register index out of range", ErrInvalidOperand)
	}

	pc := m.pc
	next := pc + opcodeSize
	if !ins.Op.transfersControl() && next > MaxAddress {
		return 0, false, fmt.Errorf("%w: program counter leaves memory", ErrInvalidOperand)
	}

	switch ins.Op {
	case OpCls:
		return next, m.display.clear(), nil

	case OpRet:
		if m.sp == 0 {
			return 0, false, ErrStackUnderflow
		}
		m.sp--
		return m.stack[m.sp], false, nil

	case OpJp:
		return ins.NNN, false, nil

	case OpCall:
		if m.sp == MaxStackDepth {
			return 0, false, ErrStackOverflow
		}
		m.stack[m.sp] = next
		m.sp++
		return ins.NNN, false, nil

	case OpSeImm:
		return m.skipIf(m.v[ins.X] == ins.NN, next)
	case OpSneImm:
		return m.skipIf(m.v[ins.X] != ins.NN, next)
	case OpSeReg:
		return m.skipIf(m.v[ins.X] == m.v[ins.Y], next)
	case OpSneReg:
		return m.skipIf(m.v[ins.X] != m.v[ins.Y], next)

	case OpLdImm:
		m.v[ins.X] = ins.NN
	case OpAddImm:
		m.v[ins.X] += ins.NN

	case OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShr, OpSubn, OpShl:
		m.executeALU(ins)

	case OpLdIndex:
		m.index = ins.NNN

	case OpJpOffset:
		return m.jumpWithOffset(ins)

	case OpRnd:
		m.v[ins.X] = byte(m.rng.UintN(256)) & ins.NN

	case OpDrw:
		return m.draw(ins, next)

	case OpSkp, OpSknp:
		key := m.v[ins.X]
		if key >= KeyCount {
			return 0, false, fmt.Errorf("%w: key %d", ErrInvalidOperand, key)
		}
		pressed := m.keys[key]
		if ins.Op == OpSknp {
			pressed = !pressed
		}
		return m.skipIf(pressed, next)

	case OpLdKey:
		return m.awaitKey(ins, pc, next), false, nil

	case OpLdDelayToReg:
		m.v[ins.X] = m.delayTimer
	case OpLdRegToDelay:
		m.delayTimer = m.v[ins.X]
	case OpLdRegToSound:
		m.soundTimer = m.v[ins.X]

	case OpAddIndex:
		sum := uint32(m.index) + uint32(m.v[ins.X])
		m.index = uint16(sum)
		if m.quirks.IndexOverflowFlag {
			m.v[FlagRegister] = boolToFlag(sum > MaxAddress)
		}

	case OpLdFont:
		m.index = GlyphAddress(m.v[ins.X])

	case OpLdBCD:
		if err := checkRange(m.index, 3); err != nil {
			return 0, false, err
		}
		value := m.v[ins.X]
		m.memory[m.index] = value / 100
		m.memory[m.index+1] = value / 10 % 10
		m.memory[m.index+2] = value % 10

	case OpLdRegsToMemory, OpLdMemoryToRegs:
		count := int(ins.X) + 1
		if err := checkRange(m.index, count); err != nil {
			return 0, false, err
		}
		if ins.Op == OpLdRegsToMemory {
			copy(m.memory[m.index:], m.v[:count])
		} else {
			copy(m.v[:count], m.memory[m.index:])
		}
		if m.quirks.IncrementIndex {
			m.index += uint16(count)
		}

	default:
		return 0, false, ErrUnimplementedOpcode
	}

	return next, false, nil
}

// executeALU handles the 8XYN register arithmetic and logic instructions.
// VF is written after the result so that it holds the flag when X is F.
func (m *Machine) executeALU(ins Instruction) {
	vx, vy := m.v[ins.X], m.v[ins.Y]

	switch ins.Op {
	case OpLdReg:
		m.v[ins.X] = vy

	case OpOr, OpAnd, OpXor:
		switch ins.Op {
		case OpOr:
			m.v[ins.X] = vx | vy
		case OpAnd:
			m.v[ins.X] = vx & vy
		default:
			m.v[ins.X] = vx ^ vy
		}
		if m.quirks.ResetFlagOnLogic {
			m.v[FlagRegister] = 0
		}

	case OpAddReg:
		sum := uint16(vx) + uint16(vy)
		m.v[ins.X] = byte(sum)
		m.v[FlagRegister] = boolToFlag(sum > 0xFF)

	case OpSub:
		m.v[ins.X] = vx - vy
		m.v[FlagRegister] = boolToFlag(vx >= vy)

	case OpSubn:
		m.v[ins.X] = vy - vx
		m.v[FlagRegister] = boolToFlag(vy >= vx)

	case OpShr, OpShl:
		src := vy
		if m.quirks.ShiftInPlace {
			src = vx
		}
		if ins.Op == OpShr {
			m.v[ins.X] = src >> 1
			m.v[FlagRegister] = src & 0x01
		} else {
			m.v[ins.X] = src << 1
			m.v[FlagRegister] = src >> 7
		}
	}
}

// skipIf returns the address of the instruction after next if cond is true.
func (m *Machine) skipIf(cond bool, next uint16) (uint16, bool, error) {
	if !cond {
		return next, false, nil
	}
	target := next + opcodeSize
	if target > MaxAddress {
		return 0, false, fmt.Errorf("%w: skip target %04X", ErrInvalidOperand, target)
	}
	return target, false, nil
}

func (m *Machine) jumpWithOffset(ins Instruction) (uint16, bool, error) {
	offset := m.v[0]
	if m.quirks.JumpWithVX {
		offset = m.v[ins.X]
	}
	target := ins.NNN + uint16(offset)
	if target > MaxAddress {
		return 0, false, fmt.Errorf("%w: jump target %04X", ErrInvalidOperand, target)
	}
	return target, false, nil
}

func (m *Machine) draw(ins Instruction, next uint16) (uint16, bool, error) {
	rows := int(ins.N)
	if err := checkRange(m.index, rows); err != nil {
		return 0, false, err
	}

	sprite := m.memory[m.index : int(m.index)+rows]
	x := m.v[ins.X] % DisplayWidth
	y := m.v[ins.Y] % DisplayHeight
	collision, changed := m.display.drawSprite(x, y, sprite)
	m.v[FlagRegister] = boolToFlag(collision)
	return next, changed, nil
}

// awaitKey implements FX0A. The first execution starts waiting, every
// following execution completes once a key was pressed while waiting.
// The program counter is not advanced while waiting.
func (m *Machine) awaitKey(ins Instruction, pc, next uint16) uint16 {
	if !m.awaitingKey {
		m.awaitingKey = true
		m.keyPresses = 0
		return pc
	}
	if m.keyPresses == 0 {
		return pc
	}

	m.v[ins.X] = byte(bits.TrailingZeros16(m.keyPresses))
	m.awaitingKey = false
	m.keyPresses = 0
	return next
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
