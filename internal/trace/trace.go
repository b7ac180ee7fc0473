// Package trace renders executed CHIP-8 instructions as assembly for debug logging.
package trace

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Tracer logs every executed instruction at debug level.
type Tracer struct {
	logger *log.Logger
	quirks chip8.Quirks
}

// New returns a new instruction tracer for a machine with the given quirks.
func New(logger *log.Logger, quirks chip8.Quirks) *Tracer {
	return &Tracer{
		logger: logger,
		quirks: quirks,
	}
}

// Trace logs the instruction at the given address.
func (t *Tracer) Trace(pc, opcode uint16) {
	t.logger.Debug("Executing",
		log.Hex("pc", pc),
		log.Hex("opcode", opcode),
		log.String("instruction", Format(opcode, t.quirks)))
}

// Format renders the opcode as an assembler instruction. Opcodes that do not
// decode to an instruction are rendered as a data word.
// The quirks select the operand form of instructions that depend on them.
func Format(opcode uint16, quirks chip8.Quirks) string {
	ins := chip8.Decode(opcode)
	if ins.Op == chip8.OpUnknown {
		return fmt.Sprintf(".word $%04X", opcode)
	}

	name := ins.Op.String()
	if params := formatParams(ins, quirks); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// formatParams formats the operands of a decoded instruction.
func formatParams(ins chip8.Instruction, quirks chip8.Quirks) string {
	switch ins.Op {
	case chip8.OpCls, chip8.OpRet:
		return ""

	case chip8.OpJp, chip8.OpCall:
		return fmt.Sprintf("$%03X", ins.NNN)

	case chip8.OpJpOffset:
		if quirks.JumpWithVX {
			return fmt.Sprintf("V%X, $%03X", ins.X, ins.NNN)
		}
		return fmt.Sprintf("V0, $%03X", ins.NNN)

	case chip8.OpSeImm, chip8.OpSneImm, chip8.OpLdImm, chip8.OpAddImm, chip8.OpRnd:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)

	case chip8.OpSeReg, chip8.OpSneReg, chip8.OpLdReg, chip8.OpOr, chip8.OpAnd,
		chip8.OpXor, chip8.OpAddReg, chip8.OpSub, chip8.OpSubn:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case chip8.OpShr, chip8.OpShl:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case chip8.OpLdIndex:
		return fmt.Sprintf("I, $%03X", ins.NNN)

	case chip8.OpDrw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)

	case chip8.OpSkp, chip8.OpSknp:
		return fmt.Sprintf("V%X", ins.X)

	case chip8.OpLdDelayToReg:
		return fmt.Sprintf("V%X, DT", ins.X)
	case chip8.OpLdKey:
		return fmt.Sprintf("V%X, K", ins.X)
	case chip8.OpLdRegToDelay:
		return fmt.Sprintf("DT, V%X", ins.X)
	case chip8.OpLdRegToSound:
		return fmt.Sprintf("ST, V%X", ins.X)
	case chip8.OpAddIndex:
		return fmt.Sprintf("I, V%X", ins.X)
	case chip8.OpLdFont:
		return fmt.Sprintf("F, V%X", ins.X)
	case chip8.OpLdBCD:
		return fmt.Sprintf("B, V%X", ins.X)
	case chip8.OpLdRegsToMemory:
		return fmt.Sprintf("[I], V%X", ins.X)
	case chip8.OpLdMemoryToRegs:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}
