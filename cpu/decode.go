package cpu

// aluOps maps the low nibble of the 8xyN family.
var aluOps = map[uint8]Op{
	0x0: OP_LOAD_REG,
	0x1: OP_OR,
	0x2: OP_AND,
	0x3: OP_XOR,
	0x4: OP_ADD_REG,
	0x5: OP_SUB,
	0x6: OP_SHR,
	0x7: OP_SUBN,
	0xe: OP_SHL,
}

// miscOps maps the low byte of the FxNN family.
var miscOps = map[uint8]Op{
	0x07: OP_LOAD_DELAY,
	0x0a: OP_READ_KEY,
	0x15: OP_SET_DELAY,
	0x18: OP_SET_SOUND,
	0x1e: OP_ADD_I,
	0x29: OP_LOAD_GLYPH,
	0x33: OP_STORE_DECIMAL,
	0x55: OP_REG_DUMP,
	0x65: OP_REG_LOAD,
}

// Decode an instruction word. ok is false for any word that is not one of
// the 35 assigned encodings.
func Decode(word uint16) (ins Instruction, ok bool) {
	family := uint8(word >> 12)
	x := uint8(word>>8) & 0xf
	y := uint8(word>>4) & 0xf
	n := uint8(word) & 0xf
	kk := uint8(word)
	nnn := word & 0xfff

	switch family {
	case 0x0:
		switch {
		case x != 0:
			ins = Instruction{Op: OP_SYS_JUMP, NNN: nnn}
		case kk == 0xe0:
			ins = Instruction{Op: OP_CLEAR_SCREEN}
		case kk == 0xee:
			ins = Instruction{Op: OP_RETURN}
		default:
			return
		}
	case 0x1:
		ins = Instruction{Op: OP_JUMP, NNN: nnn}
	case 0x2:
		ins = Instruction{Op: OP_CALL, NNN: nnn}
	case 0x3:
		ins = Instruction{Op: OP_SKIP_EQ_IMM, X: x, KK: kk}
	case 0x4:
		ins = Instruction{Op: OP_SKIP_NE_IMM, X: x, KK: kk}
	case 0x5:
		if n != 0 {
			return
		}
		ins = Instruction{Op: OP_SKIP_EQ_REG, X: x, Y: y}
	case 0x6:
		ins = Instruction{Op: OP_LOAD_IMM, X: x, KK: kk}
	case 0x7:
		ins = Instruction{Op: OP_ADD_IMM, X: x, KK: kk}
	case 0x8:
		op, found := aluOps[n]
		if !found {
			return
		}
		ins = Instruction{Op: op, X: x, Y: y}
	case 0x9:
		if n != 0 {
			return
		}
		ins = Instruction{Op: OP_SKIP_NE_REG, X: x, Y: y}
	case 0xa:
		ins = Instruction{Op: OP_LOAD_I, NNN: nnn}
	case 0xb:
		ins = Instruction{Op: OP_JUMP_V0, NNN: nnn}
	case 0xc:
		ins = Instruction{Op: OP_RANDOM, X: x, KK: kk}
	case 0xd:
		ins = Instruction{Op: OP_DISPLAY_SPRITE, X: x, Y: y, N: n}
	case 0xe:
		switch kk {
		case 0x9e:
			ins = Instruction{Op: OP_SKIP_PRESSED, X: x}
		case 0xa1:
			ins = Instruction{Op: OP_SKIP_NOT_PRESSED, X: x}
		default:
			return
		}
	case 0xf:
		op, found := miscOps[kk]
		if !found {
			return
		}
		ins = Instruction{Op: op, X: x}
	}

	ok = true
	return
}
