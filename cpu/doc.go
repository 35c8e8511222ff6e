// Package cpu implements the decode/execute core and assembler for the
// CHIP-8 style virtual machine.
//
// The CPU consists of a program counter (PC), sixteen 8-bit registers
// (v0-vf), a 16-bit index register (I), delay and sound timers, a 4KB
// memory with a 16-deep call stack, and a 64x32 monochrome framebuffer.
// Register vf doubles as the carry, borrow and sprite collision flag.
//
// The assembler accepts the same mnemonics that Instruction.String
// produces, plus labels, equates, data directives and compile-time
// expression evaluation.
package cpu
