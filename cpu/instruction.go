package cpu

import (
	"fmt"
)

// Op is an instruction operation.
type Op int

const (
	OP_SYS_JUMP         = Op(0)  // sys
	OP_CLEAR_SCREEN     = Op(1)  // cls
	OP_RETURN           = Op(2)  // ret
	OP_JUMP             = Op(3)  // jp
	OP_CALL             = Op(4)  // call
	OP_SKIP_EQ_IMM      = Op(5)  // se
	OP_SKIP_NE_IMM      = Op(6)  // sne
	OP_SKIP_EQ_REG      = Op(7)  // se
	OP_LOAD_IMM         = Op(8)  // ld
	OP_ADD_IMM          = Op(9)  // add
	OP_LOAD_REG         = Op(10) // ld
	OP_OR               = Op(11) // or
	OP_AND              = Op(12) // and
	OP_XOR              = Op(13) // xor
	OP_ADD_REG          = Op(14) // add
	OP_SUB              = Op(15) // sub
	OP_SHR              = Op(16) // shr
	OP_SUBN             = Op(17) // subn
	OP_SHL              = Op(18) // shl
	OP_SKIP_NE_REG      = Op(19) // sne
	OP_LOAD_I           = Op(20) // ld
	OP_JUMP_V0          = Op(21) // jp
	OP_RANDOM           = Op(22) // rnd
	OP_DISPLAY_SPRITE   = Op(23) // drw
	OP_SKIP_PRESSED     = Op(24) // skp
	OP_SKIP_NOT_PRESSED = Op(25) // sknp
	OP_LOAD_DELAY       = Op(26) // ld
	OP_READ_KEY         = Op(27) // ld
	OP_SET_DELAY        = Op(28) // ld
	OP_SET_SOUND        = Op(29) // ld
	OP_ADD_I            = Op(30) // add
	OP_LOAD_GLYPH       = Op(31) // ld
	OP_STORE_DECIMAL    = Op(32) // ld
	OP_REG_DUMP         = Op(33) // ld
	OP_REG_LOAD         = Op(34) // ld

	OP_COUNT = 35 // Number of operations.
)

var _op_mnemonic = [OP_COUNT]string{
	"sys", "cls", "ret", "jp", "call",
	"se", "sne", "se", "ld", "add",
	"ld", "or", "and", "xor", "add",
	"sub", "shr", "subn", "shl", "sne",
	"ld", "jp", "rnd", "drw", "skp",
	"sknp", "ld", "ld", "ld", "ld",
	"add", "ld", "ld", "ld", "ld",
}

// String returns the assembler mnemonic.
func (op Op) String() string {
	if op < 0 || int(op) >= OP_COUNT {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return _op_mnemonic[op]
}

// Instruction is a decoded instruction word. Only the operands used by
// Op are meaningful; the rest are zero.
type Instruction struct {
	Op  Op
	X   uint8  // First register index.
	Y   uint8  // Second register index.
	N   uint8  // Nibble immediate (sprite height).
	KK  uint8  // Byte immediate.
	NNN uint16 // Address.
}

// Encode returns the instruction word; the inverse of Decode. A sys
// target below 0x100 has no encoding of its own, and the assembler
// rejects it.
func (ins Instruction) Encode() (word uint16) {
	x := uint16(ins.X&0xf) << 8
	y := uint16(ins.Y&0xf) << 4
	kk := uint16(ins.KK)
	nnn := ins.NNN & 0xfff

	switch ins.Op {
	case OP_SYS_JUMP:
		word = nnn
	case OP_CLEAR_SCREEN:
		word = 0x00e0
	case OP_RETURN:
		word = 0x00ee
	case OP_JUMP:
		word = 0x1000 | nnn
	case OP_CALL:
		word = 0x2000 | nnn
	case OP_SKIP_EQ_IMM:
		word = 0x3000 | x | kk
	case OP_SKIP_NE_IMM:
		word = 0x4000 | x | kk
	case OP_SKIP_EQ_REG:
		word = 0x5000 | x | y
	case OP_LOAD_IMM:
		word = 0x6000 | x | kk
	case OP_ADD_IMM:
		word = 0x7000 | x | kk
	case OP_LOAD_REG:
		word = 0x8000 | x | y | 0x0
	case OP_OR:
		word = 0x8000 | x | y | 0x1
	case OP_AND:
		word = 0x8000 | x | y | 0x2
	case OP_XOR:
		word = 0x8000 | x | y | 0x3
	case OP_ADD_REG:
		word = 0x8000 | x | y | 0x4
	case OP_SUB:
		word = 0x8000 | x | y | 0x5
	case OP_SHR:
		word = 0x8000 | x | y | 0x6
	case OP_SUBN:
		word = 0x8000 | x | y | 0x7
	case OP_SHL:
		word = 0x8000 | x | y | 0xe
	case OP_SKIP_NE_REG:
		word = 0x9000 | x | y
	case OP_LOAD_I:
		word = 0xa000 | nnn
	case OP_JUMP_V0:
		word = 0xb000 | nnn
	case OP_RANDOM:
		word = 0xc000 | x | kk
	case OP_DISPLAY_SPRITE:
		word = 0xd000 | x | y | uint16(ins.N&0xf)
	case OP_SKIP_PRESSED:
		word = 0xe09e | x
	case OP_SKIP_NOT_PRESSED:
		word = 0xe0a1 | x
	case OP_LOAD_DELAY:
		word = 0xf007 | x
	case OP_READ_KEY:
		word = 0xf00a | x
	case OP_SET_DELAY:
		word = 0xf015 | x
	case OP_SET_SOUND:
		word = 0xf018 | x
	case OP_ADD_I:
		word = 0xf01e | x
	case OP_LOAD_GLYPH:
		word = 0xf029 | x
	case OP_STORE_DECIMAL:
		word = 0xf033 | x
	case OP_REG_DUMP:
		word = 0xf055 | x
	case OP_REG_LOAD:
		word = 0xf065 | x
	}

	return
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() (out string) {
	op := ins.Op.String()
	vx := fmt.Sprintf("v%x", ins.X)
	vy := fmt.Sprintf("v%x", ins.Y)
	kk := fmt.Sprintf("0x%02x", ins.KK)
	nnn := fmt.Sprintf("0x%03x", ins.NNN)

	switch ins.Op {
	case OP_CLEAR_SCREEN, OP_RETURN:
		out = op
	case OP_SYS_JUMP, OP_JUMP, OP_CALL:
		out = fmt.Sprintf("%v %v", op, nnn)
	case OP_SKIP_EQ_IMM, OP_SKIP_NE_IMM, OP_LOAD_IMM, OP_ADD_IMM, OP_RANDOM:
		out = fmt.Sprintf("%v %v, %v", op, vx, kk)
	case OP_SKIP_EQ_REG, OP_SKIP_NE_REG, OP_LOAD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
		out = fmt.Sprintf("%v %v, %v", op, vx, vy)
	case OP_LOAD_I:
		out = fmt.Sprintf("%v i, %v", op, nnn)
	case OP_JUMP_V0:
		out = fmt.Sprintf("%v v0, %v", op, nnn)
	case OP_DISPLAY_SPRITE:
		out = fmt.Sprintf("%v %v, %v, %v", op, vx, vy, ins.N)
	case OP_SKIP_PRESSED, OP_SKIP_NOT_PRESSED:
		out = fmt.Sprintf("%v %v", op, vx)
	case OP_LOAD_DELAY:
		out = fmt.Sprintf("%v %v, dt", op, vx)
	case OP_READ_KEY:
		out = fmt.Sprintf("%v %v, k", op, vx)
	case OP_SET_DELAY:
		out = fmt.Sprintf("%v dt, %v", op, vx)
	case OP_SET_SOUND:
		out = fmt.Sprintf("%v st, %v", op, vx)
	case OP_ADD_I:
		out = fmt.Sprintf("%v i, %v", op, vx)
	case OP_LOAD_GLYPH:
		out = fmt.Sprintf("%v f, %v", op, vx)
	case OP_STORE_DECIMAL:
		out = fmt.Sprintf("%v b, %v", op, vx)
	case OP_REG_DUMP:
		out = fmt.Sprintf("%v [i], %v", op, vx)
	case OP_REG_LOAD:
		out = fmt.Sprintf("%v %v, [i]", op, vx)
	default:
		out = op
	}

	return
}
