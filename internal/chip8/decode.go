package chip8

import (
	"math/bits"
	"strings"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies an instruction variant.
type Op uint8

// Instruction variants, named after the conventional CHIP-8 assembler
// mnemonics with a suffix that separates operand forms.
const (
	OpUnknown      Op = iota
	OpCls             // 00E0
	OpRet             // 00EE
	OpJp              // 1NNN
	OpCall            // 2NNN
	OpSeImm           // 3XNN
	OpSneImm          // 4XNN
	OpSeReg           // 5XY0
	OpLdImm           // 6XNN
	OpAddImm          // 7XNN
	OpLdReg           // 8XY0
	OpOr              // 8XY1
	OpAnd             // 8XY2
	OpXor             // 8XY3
	OpAddReg          // 8XY4
	OpSub             // 8XY5
	OpShr             // 8XY6
	OpSubn            // 8XY7
	OpShl             // 8XYE
	OpSneReg          // 9XY0
	OpLdIndex         // ANNN
	OpJpOffset        // BNNN
	OpRnd             // CXNN
	OpDrw             // DXYN
	OpSkp             // EX9E
	OpSknp            // EXA1
	OpLdDelayToReg    // FX07
	OpLdKey           // FX0A
	OpLdRegToDelay    // FX15
	OpLdRegToSound    // FX18
	OpAddIndex        // FX1E
	OpLdFont          // FX29
	OpLdBCD           // FX33
	OpLdRegsToMemory  // FX55
	OpLdMemoryToRegs  // FX65
)

var opNames = lowerNames([]string{
	OpUnknown:        "unknown",
	OpCls:            cpu.ClsName,
	OpRet:            cpu.RetName,
	OpJp:             cpu.JpName,
	OpCall:           cpu.CallName,
	OpSeImm:          cpu.SeName,
	OpSneImm:         cpu.SneName,
	OpSeReg:          cpu.SeName,
	OpLdImm:          cpu.LdName,
	OpAddImm:         cpu.AddName,
	OpLdReg:          cpu.LdName,
	OpOr:             cpu.OrName,
	OpAnd:            cpu.AndName,
	OpXor:            cpu.XorName,
	OpAddReg:         cpu.AddName,
	OpSub:            cpu.SubName,
	OpShr:            cpu.ShrName,
	OpSubn:           cpu.SubnName,
	OpShl:            cpu.ShlName,
	OpSneReg:         cpu.SneName,
	OpLdIndex:        cpu.LdName,
	OpJpOffset:       cpu.JpName,
	OpRnd:            cpu.RndName,
	OpDrw:            cpu.DrwName,
	OpSkp:            cpu.SkpName,
	OpSknp:           cpu.SknpName,
	OpLdDelayToReg:   cpu.LdName,
	OpLdKey:          cpu.LdName,
	OpLdRegToDelay:   cpu.LdName,
	OpLdRegToSound:   cpu.LdName,
	OpAddIndex:       cpu.AddName,
	OpLdFont:         cpu.LdName,
	OpLdBCD:          cpu.LdName,
	OpLdRegsToMemory: cpu.LdName,
	OpLdMemoryToRegs: cpu.LdName,
})

func lowerNames(names []string) []string {
	for i, name := range names {
		names[i] = strings.ToLower(name)
	}
	return names
}

// String returns the assembler mnemonic of the instruction variant.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// transfersControl returns whether the instruction sets the program counter
// without falling through to the next instruction.
func (o Op) transfersControl() bool {
	return o == OpJp || o == OpJpOffset || o == OpRet
}

// Instruction is a decoded opcode.
type Instruction struct {
	Opcode uint16
	Op     Op

	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // fourth nibble, 4 bit immediate
	NN  uint8  // low byte, 8 bit immediate
	NNN uint16 // low 12 bits, address or 12 bit immediate
}

// Nibbles returns the four nibbles of the opcode, most significant first.
func (i Instruction) Nibbles() [4]uint8 {
	return [4]uint8{
		uint8(i.Opcode >> 12),
		uint8(i.Opcode>>8) & 0x0F,
		uint8(i.Opcode>>4) & 0x0F,
		uint8(i.Opcode) & 0x0F,
	}
}

// Decode splits the opcode into its operand fields and identifies the
// instruction variant. Every opcode decodes, opcodes that match no
// instruction get OpUnknown.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0x0F,
		Y:      uint8(opcode>>4) & 0x0F,
		N:      uint8(opcode) & 0x0F,
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	if op, ok := lookupOpcode(opcode); ok {
		ins.Op = variant(op.Instruction.Name, ins)
	}
	return ins
}

// lookupOpcode returns the entry of the CHIP-8 opcode table that matches
// the opcode. The entry with the most specific mask wins.
func lookupOpcode(opcode uint16) (cpu.Opcode, bool) {
	var (
		match    cpu.Opcode
		bestMask = -1
	)

	for _, op := range cpu.Opcodes[int(opcode>>12)] {
		if op.Instruction == nil || op.Info.Mask&opcode != op.Info.Value {
			continue
		}
		if maskBits := bits.OnesCount16(op.Info.Mask); maskBits > bestMask {
			bestMask = maskBits
			match = op
		}
	}
	return match, bestMask >= 0
}

// variant maps an instruction name of the opcode table and the operand
// nibbles to the instruction variant.
func variant(name string, ins Instruction) Op {
	group := ins.Opcode >> 12

	switch name {
	case cpu.ClsName:
		return OpCls
	case cpu.RetName:
		return OpRet
	case cpu.CallName:
		return OpCall
	case cpu.OrName:
		return OpOr
	case cpu.AndName:
		return OpAnd
	case cpu.XorName:
		return OpXor
	case cpu.SubName:
		return OpSub
	case cpu.SubnName:
		return OpSubn
	case cpu.ShrName:
		return OpShr
	case cpu.ShlName:
		return OpShl
	case cpu.RndName:
		return OpRnd
	case cpu.DrwName:
		return OpDrw
	case cpu.SkpName:
		return OpSkp
	case cpu.SknpName:
		return OpSknp

	case cpu.LdName:
		if group == 0xF {
			return loadVariants[ins.NN]
		}
	}
	return groupVariants[groupKey{name: name, group: group}]
}

type groupKey struct {
	name  string
	group uint16 // first nibble of the opcode
}

// groupVariants are the instructions whose operand form is selected by
// the first nibble of the opcode. Missing entries yield OpUnknown.
var groupVariants = map[groupKey]Op{
	{cpu.JpName, 0x1}:  OpJp,
	{cpu.JpName, 0xB}:  OpJpOffset,
	{cpu.SeName, 0x3}:  OpSeImm,
	{cpu.SeName, 0x5}:  OpSeReg,
	{cpu.SneName, 0x4}: OpSneImm,
	{cpu.SneName, 0x9}: OpSneReg,
	{cpu.AddName, 0x7}: OpAddImm,
	{cpu.AddName, 0x8}: OpAddReg,
	{cpu.AddName, 0xF}: OpAddIndex,
	{cpu.LdName, 0x6}:  OpLdImm,
	{cpu.LdName, 0x8}:  OpLdReg,
	{cpu.LdName, 0xA}:  OpLdIndex,
}

// loadVariants are the FXNN forms of ld, selected by the low byte.
// Missing entries yield OpUnknown.
var loadVariants = map[uint8]Op{
	0x07: OpLdDelayToReg,
	0x0A: OpLdKey,
	0x15: OpLdRegToDelay,
	0x18: OpLdRegToSound,
	0x29: OpLdFont,
	0x33: OpLdBCD,
	0x55: OpLdRegsToMemory,
	0x65: OpLdMemoryToRegs,
}
