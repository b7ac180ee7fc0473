package chip8

import "errors"

var (
	// ErrInvalidOperand is returned when a register index or memory address
	// is outside of the architectural range.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrStackOverflow is returned when a call would exceed MaxStackDepth.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned when returning with an empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrImageTooLarge is returned when a program does not fit into program space.
	ErrImageTooLarge = errors.New("program image too large")

	// ErrUnimplementedOpcode is returned for opcodes that match no instruction.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")

	// ErrUnknownQuirksPreset is returned for an unsupported quirks preset name.
	ErrUnknownQuirksPreset = errors.New("unknown quirks preset")
)
