package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrDataSyntax         = errors.New(f("data syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("opcode missing"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramSize        = errors.New(f("program too large"))
)

// ErrDecode is an instruction word that does not decode.
type ErrDecode uint16

func (ed ErrDecode) Error() string {
	return f("invalid instruction 0x%04x", uint16(ed))
}

func (ed ErrDecode) Is(err error) (ok bool) {
	_, ok = err.(ErrDecode)
	return
}

// ErrOpcode is the instruction that faulted.
type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	ins := Instruction(eo)
	return f("bad opcode 0x%04x %v", ins.Encode(), ins.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrValueRange is a value that does not fit its operand field.
type ErrValueRange struct {
	Value int64
	Min   int64 // Only set when the field has a lower bound.
	Limit int64
}

func (err ErrValueRange) Error() string {
	if err.Min != 0 {
		return f("value %#x outside %#x..%#x", err.Value, err.Min, err.Limit)
	}
	return f("value %#x exceeds %#x", err.Value, err.Limit)
}
