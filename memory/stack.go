package memory

import (
	"slices"
)

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack is the fixed depth return address stack.
type Stack struct {
	sp   int
	data [STACK_LIMIT]uint16
}

// Push a return address.
func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackOverflow
		return
	}

	s.data[s.sp] = value
	s.sp++
	return
}

// Pop the most recent return address.
func (s *Stack) Pop() (value uint16, err error) {
	value, err = s.Peek()
	if err != nil {
		return
	}

	s.sp--
	return
}

// Peek reads the top of the stack without consuming it.
func (s *Stack) Peek() (value uint16, err error) {
	if s.Empty() {
		err = ErrStackUnderflow
		return
	}

	value = s.data[s.sp-1]
	return
}

// Sp returns the number of entries on the stack.
func (s *Stack) Sp() int {
	return s.sp
}

func (s *Stack) Empty() bool {
	return s.sp == 0
}

func (s *Stack) Full() bool {
	return s.sp == STACK_LIMIT
}

// Entries returns the live stack entries, oldest first.
func (s *Stack) Entries() []uint16 {
	return slices.Clone(s.data[:s.sp])
}

func (s *Stack) Reset() {
	s.sp = 0
	clear(s.data[:])
}
