package cpu

import (
	"fmt"
	"iter"

	"github.com/ezrec/chip8/memory"
)

// Opcode represents a line of assembled code with its source location and
// generated bytes.
type Opcode struct {
	LineNo    int
	Addr      uint16
	Words     []string
	Bytes     []byte
	LinkLabel string
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the source line that generated the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && int(addr) < int(op.Addr)+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Binary returns the ROM image of the program.
func (prog *Program) Binary() (rom []byte) {
	for _, op := range prog.Opcodes {
		rom = append(rom, op.Bytes...)
	}

	return
}

// Disassemble walks a ROM image one word at a time from memory.ROM_START,
// yielding the address and assembler text of each word. Words that do not
// decode are shown as data.
func Disassemble(rom []byte) iter.Seq2[uint16, string] {
	return func(yield func(addr uint16, text string) bool) {
		for n := 0; n < len(rom); n += 2 {
			addr := uint16(memory.ROM_START + n)
			if n+1 == len(rom) {
				yield(addr, fmt.Sprintf(".byte 0x%02x", rom[n]))
				return
			}
			word := uint16(rom[n])<<8 | uint16(rom[n+1])
			text := fmt.Sprintf(".word 0x%04x", word)
			ins, ok := Decode(word)
			if ok {
				text = ins.String()
			}
			if !yield(addr, text) {
				return
			}
		}
	}
}
