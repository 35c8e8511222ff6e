package host

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrWavRate     = errors.New(f("wav sample rate out of range"))
	ErrNotTerminal = errors.New(f("not a terminal"))
)
