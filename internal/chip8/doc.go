// Package chip8 implements the CHIP-8 virtual machine core.
//
// # Architecture Overview
//
// CHIP-8 is an interpreted programming language from the 1970s designed for simple
// games on the COSMAC VIP. Programs consist of 2 byte big-endian instructions that
// operate on a small set of machine resources:
//   - 4KB of memory (0x000-MaxAddress)
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - a 16-bit index register I of which the low 12 bits address memory
//   - a call stack of MaxStackDepth return addresses
//   - delay and sound timers that count down at 60 Hz
//   - a 64×32 monochrome display and a 16 key hexadecimal keypad
//
// # Memory Layout
//
//	0x000-0x04F: Reserved interpreter area
//	0x050-0x09F: Hexadecimal font glyphs 0-F, 5 bytes each
//	0x0A0-0x1FF: Reserved interpreter area
//	0x200-0xFFF: Program space (MaxProgramSize bytes)
//
// # Execution
//
// Decode turns an opcode into an Instruction whose Op selects one of the
// instruction variants. Machine.Execute applies it to the machine state and
// Machine.Step combines fetch, decode and execute. Timers are driven separately
// by calling Machine.TickTimers at 60 Hz.
//
// Behaviors that differ between CHIP-8 interpreters are selected by Quirks.
// The zero value shifts Vy into Vx, jumps relative to V0, and leaves I and VF
// untouched by FX1E, FX55, FX65 and the logic instructions.
//
// # Errors
//
// Malformed programs never panic. Out of range registers and addresses, stack
// overflow and underflow, oversized images and unknown opcodes are reported as
// wrapped sentinel errors that can be tested with errors.Is.
package chip8
