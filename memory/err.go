package memory

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Stack errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))

	// Loader errors
	ErrRomSize = errors.New(f("rom too large"))
)

// ErrIllegalAccess is an access outside of the address space.
type ErrIllegalAccess uint16

func (ea ErrIllegalAccess) Error() string {
	return f("illegal memory access at 0x%04x", uint16(ea))
}

func (ea ErrIllegalAccess) Is(err error) (ok bool) {
	_, ok = err.(ErrIllegalAccess)
	return
}
