// Package memory implements the 4KB address space, call stack and
// built-in hexadecimal glyphs of the virtual machine.
package memory

import (
	"fmt"
	"iter"
	"maps"
)

const (
	MEMORY_SIZE   = 0x1000 // Size of the address space.
	ROM_START     = 0x200  // Load address of ROM images.
	ROM_LIMIT     = MEMORY_SIZE - ROM_START
	GLYPH_START   = 0x100 // Base of the built-in glyph table.
	GLYPH_HEIGHT  = 5     // Bytes per glyph.
	GLYPH_COUNT   = 16    // One glyph per hex digit.
	GLYPH_END     = GLYPH_START + GLYPH_HEIGHT*GLYPH_COUNT
	MEMORY_FILLER = 0x00 // Value of never-written memory.
)

var _memory_defines = map[string]string{
	"ROM_START":    fmt.Sprintf("%#x", ROM_START),
	"ROM_LIMIT":    fmt.Sprintf("%#x", ROM_LIMIT),
	"GLYPH_START":  fmt.Sprintf("%#x", GLYPH_START),
	"GLYPH_HEIGHT": fmt.Sprintf("%v", GLYPH_HEIGHT),
	"MEMORY_SIZE":  fmt.Sprintf("%#x", MEMORY_SIZE),
}

var glyphs = [GLYPH_COUNT][GLYPH_HEIGHT]byte{
	{0xf0, 0x90, 0x90, 0x90, 0xf0}, // 0
	{0x20, 0x60, 0x20, 0x20, 0x70}, // 1
	{0xf0, 0x10, 0xf0, 0x80, 0xf0}, // 2
	{0xf0, 0x10, 0xf0, 0x10, 0xf0}, // 3
	{0x90, 0x90, 0xf0, 0x10, 0x10}, // 4
	{0xf0, 0x80, 0xf0, 0x10, 0xf0}, // 5
	{0xf0, 0x80, 0xf0, 0x90, 0xf0}, // 6
	{0xf0, 0x10, 0x20, 0x40, 0x40}, // 7
	{0xf0, 0x90, 0xf0, 0x90, 0xf0}, // 8
	{0xf0, 0x90, 0xf0, 0x10, 0xf0}, // 9
	{0xf0, 0x90, 0xf0, 0x90, 0x90}, // A
	{0xe0, 0x90, 0xe0, 0x90, 0xe0}, // B
	{0xf0, 0x80, 0x80, 0x80, 0xf0}, // C
	{0xe0, 0x90, 0x90, 0x90, 0xe0}, // D
	{0xf0, 0x80, 0xf0, 0x80, 0xf0}, // E
	{0xf0, 0x80, 0xf0, 0x80, 0x80}, // F
}

// Memory is the byte addressed space plus the call stack.
type Memory struct {
	data  [MEMORY_SIZE]byte
	Stack Stack
}

// NewMemory returns a memory with the glyph table installed.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	mem.Reset()
	return
}

// Defines for the memory map.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Reset fills the space, empties the stack and reinstalls the glyphs.
func (mem *Memory) Reset() {
	for n := range mem.data {
		mem.data[n] = MEMORY_FILLER
	}
	mem.Stack.Reset()
	mem.InitGlyphs()
}

// InitGlyphs writes the built-in glyph table.
func (mem *Memory) InitGlyphs() {
	for n, glyph := range glyphs {
		copy(mem.data[GLYPH_START+n*GLYPH_HEIGHT:], glyph[:])
	}
}

// GlyphAddress returns the address of the glyph for the low nibble of digit.
func (mem *Memory) GlyphAddress(digit uint8) uint16 {
	return GLYPH_START + uint16(digit&0xf)*GLYPH_HEIGHT
}

func (mem *Memory) LoadU8(addr uint16) (value uint8, err error) {
	if int(addr) >= len(mem.data) {
		err = ErrIllegalAccess(addr)
		return
	}

	value = mem.data[addr]
	return
}

// LoadU16 reads a big-endian word.
func (mem *Memory) LoadU16(addr uint16) (value uint16, err error) {
	hi, err := mem.LoadU8(addr)
	if err != nil {
		return
	}
	lo, err := mem.LoadU8(addr + 1)
	if err != nil {
		return
	}

	value = uint16(hi)<<8 | uint16(lo)
	return
}

func (mem *Memory) StoreU8(addr uint16, value uint8) (err error) {
	if int(addr) >= len(mem.data) {
		err = ErrIllegalAccess(addr)
		return
	}

	mem.data[addr] = value
	return
}

// LoadRom copies a ROM image to ROM_START.
func (mem *Memory) LoadRom(rom []byte) (err error) {
	if len(rom) > ROM_LIMIT {
		err = ErrRomSize
		return
	}

	copy(mem.data[ROM_START:], rom)
	return
}

// Bytes returns a copy of count bytes at addr.
func (mem *Memory) Bytes(addr uint16, count int) (data []byte, err error) {
	end := int(addr) + count
	if end > len(mem.data) {
		err = ErrIllegalAccess(max(addr, MEMORY_SIZE))
		return
	}

	data = make([]byte, count)
	copy(data, mem.data[addr:end])
	return
}
