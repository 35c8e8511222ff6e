// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/memory"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"ROM_START":    fmt.Sprintf("%#x", memory.ROM_START),
	"GLYPH_START":  fmt.Sprintf("%#x", memory.GLYPH_START),
	"GLYPH_HEIGHT": fmt.Sprintf("%v", memory.GLYPH_HEIGHT),
}

// Operand limits.
const (
	limitNibble  = 0xf
	limitByte    = 0xff
	limitWord    = 0xffff
	limitAddress = 0xfff
	minSysJump   = 0x100 // sys targets below this encode as 00E0, 00EE or invalid words.
)

var reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// Reserved operand names that can not be labels.
var reserved = map[string]bool{
	"i": true, "dt": true, "st": true, "k": true, "f": true, "b": true, "[i]": true,
}

// Assembler is a single pass assembler with deferred label linking.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// register parses a v0-vf register name.
func register(word string) (x uint8, ok bool) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		return
	}
	value, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	x = uint8(value)
	ok = true
	return
}

// valueOf returns the value of a number.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// fieldOf returns a number that fits a field of limit, allowing negative
// values in two's complement.
func (asm *Assembler) fieldOf(word string, limit int64) (value uint16, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 > limit || v64 < -(limit+1)/2 {
		err = ErrValueRange{Value: v64, Limit: limit}
		return
	}

	value = uint16(v64 & limit)
	return
}

// addressOf returns an address, or the label to link it to later.
func (asm *Assembler) addressOf(word string) (addr uint16, label string, err error) {
	addr, err = asm.fieldOf(word, limitAddress)
	if err == nil {
		return
	}
	if _, ok := err.(ErrParseNumber); ok && reLabel.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, err := asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		if reLabel.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) || reserved[strings.ToLower(label)] {
			err = ErrLabelInvalid
			return
		}
		if _, is_reg := register(label); is_reg {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = int(asm.currentAddr())
		words = words[1:]
	}

	return
}

// currentAddr gets the address of the next generated byte.
func (asm *Assembler) currentAddr() uint16 {
	if len(asm.Opcode) == 0 {
		return memory.ROM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + uint16(len(last.Bytes))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if addr > limitAddress {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrValueRange{Value: int64(addr), Limit: limitAddress}
			return
		}
		op.Bytes[0] |= uint8(addr>>8) & 0xf
		op.Bytes[1] |= uint8(addr)
	}

	prog = &Program{
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	if len(prog.Binary()) > memory.ROM_LIMIT {
		err = ErrProgramSize
		prog = nil
		return
	}

	return
}

// parseData handles the .byte and .word directives.
func (asm *Assembler) parseData(words []string) (data []byte, err error) {
	if len(words) < 2 {
		err = ErrOpcodeValueMissing
		return
	}

	for _, word := range words[1:] {
		var value uint16
		switch words[0] {
		case ".byte":
			value, err = asm.fieldOf(word, limitByte)
			if err != nil {
				return
			}
			data = append(data, uint8(value))
		case ".word":
			value, err = asm.fieldOf(word, limitWord)
			if err != nil {
				return
			}
			data = append(data, uint8(value>>8), uint8(value))
		default:
			err = ErrDataSyntax
			return
		}
	}

	return
}

// registers parses the vx and optional vy of an instruction.
func registers(args []string, need int) (x, y uint8, err error) {
	if len(args) < need {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}
	x, ok := register(args[0])
	if ok && len(args) == 2 {
		y, ok = register(args[1])
	}
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var ins Instruction
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil {
			return
		}
		if data == nil {
			word := ins.Encode()
			data = []byte{uint8(word >> 8), uint8(word)}
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Bytes: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]
	var arg0, arg1 string
	if len(args) > 0 {
		arg0 = strings.ToLower(args[0])
	}
	if len(args) > 1 {
		arg1 = strings.ToLower(args[1])
	}

	switch mnemonic {
	case ".byte", ".word":
		data, err = asm.parseData(words)
	case "cls", "ret":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		ins.Op = OP_CLEAR_SCREEN
		if mnemonic == "ret" {
			ins.Op = OP_RETURN
		}
	case "sys", "call", "jp":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 || (len(args) == 2 && (mnemonic != "jp" || arg0 != "v0")) {
			err = ErrOpcodeExtraArgs
			return
		}
		switch mnemonic {
		case "sys":
			ins.Op = OP_SYS_JUMP
		case "call":
			ins.Op = OP_CALL
		case "jp":
			ins.Op = OP_JUMP
			if len(args) == 2 {
				ins.Op = OP_JUMP_V0
				args = args[1:]
			}
		}
		ins.NNN, label, err = asm.addressOf(args[0])
		if err == nil && ins.Op == OP_SYS_JUMP && len(label) == 0 && ins.NNN < minSysJump {
			err = ErrValueRange{Value: int64(ins.NNN), Min: minSysJump, Limit: limitAddress}
		}
	case "se", "sne":
		if len(args) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var ok bool
		ins.X, ok = register(arg0)
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		if y, is_reg := register(arg1); is_reg {
			ins.Y = y
			ins.Op = map[string]Op{"se": OP_SKIP_EQ_REG, "sne": OP_SKIP_NE_REG}[mnemonic]
			return
		}
		ins.Op = map[string]Op{"se": OP_SKIP_EQ_IMM, "sne": OP_SKIP_NE_IMM}[mnemonic]
		var kk uint16
		kk, err = asm.fieldOf(args[1], limitByte)
		ins.KK = uint8(kk)
	case "ld":
		ins, label, err = asm.parseLoad(args)
	case "add":
		if len(args) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if arg0 == "i" {
			var ok bool
			ins.Op = OP_ADD_I
			ins.X, ok = register(arg1)
			if !ok {
				err = ErrRegisterInvalid
			}
			return
		}
		var ok bool
		ins.X, ok = register(arg0)
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		if y, is_reg := register(arg1); is_reg {
			ins.Op = OP_ADD_REG
			ins.Y = y
			return
		}
		ins.Op = OP_ADD_IMM
		var kk uint16
		kk, err = asm.fieldOf(args[1], limitByte)
		ins.KK = uint8(kk)
	case "or", "and", "xor", "sub", "subn":
		ins.Op = map[string]Op{
			"or":   OP_OR,
			"and":  OP_AND,
			"xor":  OP_XOR,
			"sub":  OP_SUB,
			"subn": OP_SUBN,
		}[mnemonic]
		ins.X, ins.Y, err = registers(args, 2)
	case "shr", "shl":
		ins.Op = OP_SHR
		if mnemonic == "shl" {
			ins.Op = OP_SHL
		}
		ins.X, ins.Y, err = registers(args, 1)
	case "rnd":
		if len(args) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var ok bool
		ins.Op = OP_RANDOM
		ins.X, ok = register(arg0)
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		var kk uint16
		kk, err = asm.fieldOf(args[1], limitByte)
		ins.KK = uint8(kk)
	case "drw":
		if len(args) != 3 {
			err = ErrOpcodeValueMissing
			return
		}
		ins.Op = OP_DISPLAY_SPRITE
		ins.X, ins.Y, err = registers(args[:2], 2)
		if err != nil {
			return
		}
		var n uint16
		n, err = asm.fieldOf(args[2], limitNibble)
		ins.N = uint8(n)
	case "skp", "sknp":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			return
		}
		ins.Op = OP_SKIP_PRESSED
		if mnemonic == "sknp" {
			ins.Op = OP_SKIP_NOT_PRESSED
		}
		ins.X, _, err = registers(args, 1)
	default:
		err = ErrInstructionInvalid
	}

	return
}

// loadTargets are the ld forms with a special destination.
var loadTargets = map[string]Op{
	"dt":  OP_SET_DELAY,
	"st":  OP_SET_SOUND,
	"f":   OP_LOAD_GLYPH,
	"b":   OP_STORE_DECIMAL,
	"[i]": OP_REG_DUMP,
}

// loadSources are the ld vx forms with a special source.
var loadSources = map[string]Op{
	"dt":  OP_LOAD_DELAY,
	"k":   OP_READ_KEY,
	"[i]": OP_REG_LOAD,
}

// parseLoad decodes the many forms of ld.
func (asm *Assembler) parseLoad(args []string) (ins Instruction, label string, err error) {
	if len(args) < 2 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	dst := strings.ToLower(args[0])
	src := strings.ToLower(args[1])

	if dst == "i" {
		ins.Op = OP_LOAD_I
		ins.NNN, label, err = asm.addressOf(args[1])
		return
	}

	if op, ok := loadTargets[dst]; ok {
		var is_reg bool
		ins.Op = op
		ins.X, is_reg = register(src)
		if !is_reg {
			err = ErrRegisterInvalid
		}
		return
	}

	x, ok := register(dst)
	if !ok {
		err = ErrTargetInvalid
		return
	}
	ins.X = x

	if op, ok := loadSources[src]; ok {
		ins.Op = op
		return
	}

	if y, ok := register(src); ok {
		ins.Op = OP_LOAD_REG
		ins.Y = y
		return
	}

	ins.Op = OP_LOAD_IMM
	var kk uint16
	kk, err = asm.fieldOf(args[1], limitByte)
	ins.KK = uint8(kk)

	return
}
