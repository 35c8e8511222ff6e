package cpu

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x200, Words: []string{"ld", "v0", "0x10"}, Bytes: []byte{0x60, 0x10}},
			{LineNo: 2, Addr: 0x202, Words: []string{".byte", "1", "2", "3"}, Bytes: []byte{1, 2, 3}},
			{LineNo: 4, Addr: 0x205, Words: []string{"cls"}, Bytes: []byte{0x00, 0xe0}},
		},
	}

	dbg := prog.Debug(0x200)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x201)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x204)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(0x205)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	assert.Equal([]byte{0x60, 0x10, 1, 2, 3, 0x00, 0xe0}, prog.Binary())
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x200, Words: []string{"cls"}, Bytes: []byte{0x00, 0xe0}},
		},
	}

	dbg := prog.Debug(0x202)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x1ff)
	assert.Nil(dbg.Opcode)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	rom := []byte{0x00, 0xe0, 0xa2, 0x0a, 0xff, 0xff, 0xd0, 0x15, 0x12, 0x00, 0x42}

	listing := maps.Collect(Disassemble(rom))
	assert.Equal(map[uint16]string{
		0x200: "cls",
		0x202: "ld i, 0x20a",
		0x204: ".word 0xffff",
		0x206: "drw v0, v1, 5",
		0x208: "jp 0x200",
		0x20a: ".byte 0x42",
	}, listing)

	var addrs []uint16
	for addr := range Disassemble(rom) {
		addrs = append(addrs, addr)
		if addr == 0x202 {
			break
		}
	}
	assert.Equal([]uint16{0x200, 0x202}, addrs)
}

func TestDisassembleReassemble(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"loop: ld v0, 5",
		"  ld f, v0",
		"  drw v1, v2, 5",
		"  add v1, 5",
		"  sne v1, 0x3c",
		"  ld v1, 0",
		"  jp loop",
	)

	var text []string
	for _, line := range Disassemble(prog.Binary()) {
		text = append(text, line)
	}

	again := assemble(t, text...)
	assert.Equal(prog.Binary(), again.Binary())
}
