package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/memory"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%#x", memory.ROM_START), asm.Equate["ROM_START"])
	assert.Equal(fmt.Sprintf("%#x", memory.GLYPH_START), asm.Equate["GLYPH_START"])
}

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for n := range 0x10000 {
		word := uint16(n)
		ins, ok := Decode(word)
		if !ok {
			continue
		}

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(ins.String()))
		if !assert.NoError(err, ins.String()) {
			return
		}
		assert.Equal([]byte{uint8(word >> 8), uint8(word)}, prog.Binary(), ins.String())
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"start:",
		"    ld v0, 0      ; counter",
		"loop: add v0, 1",
		"    se v0, 10",
		"    jp loop",
		"    call sub",
		"    jp start",
		"sub: ret",
	)

	expected := []Opcode{
		{2, 0x200, []string{"ld", "v0", "0"}, []byte{0x60, 0x00}, ""},
		{3, 0x202, []string{"add", "v0", "1"}, []byte{0x70, 0x01}, ""},
		{4, 0x204, []string{"se", "v0", "10"}, []byte{0x30, 0x0a}, ""},
		{5, 0x206, []string{"jp", "loop"}, []byte{0x12, 0x02}, "loop"},
		{6, 0x208, []string{"call", "sub"}, []byte{0x22, 0x0c}, "sub"},
		{7, 0x20a, []string{"jp", "start"}, []byte{0x12, 0x00}, "start"},
		{8, 0x20c, []string{"ret"}, []byte{0x00, 0xee}, ""},
	}

	assert.Equal(expected, prog.Opcodes)
	assert.Equal([]byte{
		0x60, 0x00, 0x70, 0x01, 0x30, 0x0a, 0x12, 0x02,
		0x22, 0x0c, 0x12, 0x00, 0x00, 0xee,
	}, prog.Binary())
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".equ COUNT 5",
		"ld v1, COUNT",
		"ld v2, $(COUNT*2 + 1)",
		"ld i, $(ROM_START + 0x10)",
		".byte 1, 2, $(LINENO)",
		".word 0xbeef",
		"LD V3, -1",
		"start: CLS",
		"ld i, $(start + 2)",
	)

	assert.Equal([]byte{
		0x61, 0x05,
		0x62, 0x0b,
		0xa2, 0x10,
		0x01, 0x02, 0x05,
		0xbe, 0xef,
		0x63, 0xff,
		0x00, 0xe0,
		0xa2, 0x0f,
	}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SPEED", "3")
	asm.Predefine("SPEED", "4")

	prog, err := asm.Parse(strings.NewReader("ld v0, SPEED\nld v1, $(SPEED * 2)"))
	assert.NoError(err)
	assert.Equal([]byte{0x60, 0x04, 0x61, 0x08}, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		lineno  int
		err     error
	}){
		{"ld v0", 1, ErrOpcodeValueMissing},
		{"foo v0", 1, ErrInstructionInvalid},
		{"cls\nld v0, 0x100", 2, ErrValueRange{Value: 0x100, Limit: 0xff}},
		{"jp 0x1000", 1, ErrValueRange{Value: 0x1000, Limit: 0xfff}},
		{"drw v0, v1, 16", 1, ErrValueRange{Value: 16, Limit: 0xf}},
		{"cls\njp nowhere", 2, ErrLabelMissing("nowhere")},
		{"a: cls\na: cls", 2, ErrLabelDuplicate},
		{"v0: cls", 1, ErrLabelInvalid},
		{"dt: cls", 1, ErrLabelInvalid},
		{".equ X", 1, ErrEquateSyntax},
		{".equ X 1\n.equ X 2", 2, ErrEquateDuplicate},
		{"add vg, 1", 1, ErrRegisterInvalid},
		{"ld q, v0", 1, ErrTargetInvalid},
		{"ld dt, 5", 1, ErrRegisterInvalid},
		{"cls v0", 1, ErrOpcodeExtraArgs},
		{"jp v1, 0x300", 1, ErrOpcodeExtraArgs},
		{".byte", 1, ErrOpcodeValueMissing},
		{".byte 0x100", 1, ErrValueRange{Value: 0x100, Limit: 0xff}},
		{"ld v0, zz", 1, ErrParseNumber("zz")},
		{"sys 0x0e0", 1, ErrValueRange{Value: 0xe0, Min: 0x100, Limit: 0xfff}},
		{"cls\nsys 0", 2, ErrValueRange{Value: 0, Min: 0x100, Limit: 0xfff}},
		{"sys 0x0ee", 1, ErrValueRange{Value: 0xee, Min: 0x100, Limit: 0xfff}},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.program))
		assert.ErrorIs(err, entry.err, entry.program)
		var syn *ErrSyntax
		if assert.True(errors.As(err, &syn), entry.program) {
			assert.Equal(entry.lineno, syn.LineNo, entry.program)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("ld v0, $(1 +)"))
	assert.Error(err)

	_, err = asm.Parse(strings.NewReader("ld v0, $('a')"))
	assert.ErrorIs(err, ErrParseExpression("'a'"))
}

func TestAssemblerProgramSize(t *testing.T) {
	assert := assert.New(t)

	lines := make([]string, memory.ROM_LIMIT/2)
	for n := range lines {
		lines[n] = "cls"
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.NoError(err)
	assert.Equal(memory.ROM_LIMIT, len(prog.Binary()))

	lines = append(lines, ".byte 0")
	_, err = asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.ErrorIs(err, ErrProgramSize)
}

func TestAssemblerSysJump(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"sys 0x100",
		"sys 0xfff",
		"sys start",
		"start: cls",
	)
	assert.Equal([]byte{0x01, 0x00, 0x0f, 0xff, 0x02, 0x06, 0x00, 0xe0}, prog.Binary())

	var text []string
	for _, line := range Disassemble(prog.Binary()) {
		text = append(text, line)
	}
	assert.Equal([]string{"sys 0x100", "sys 0xfff", "sys 0x206", "cls"}, text)
}
