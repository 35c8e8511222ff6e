package cpu

import (
	"github.com/ezrec/chip8/memory"
)

const (
	REG_COUNT = 16  // General purpose registers v0-vf.
	REG_FLAG  = 0xf // Carry, borrow and collision flag register.
)

// Registers is the register file.
type Registers struct {
	Pc    uint16           // Program counter.
	V     [REG_COUNT]uint8 // General purpose registers.
	I     uint16           // Index register.
	Delay uint8            // Delay timer.
	Sound uint8            // Sound timer.
}

// Reset sets the program counter to the ROM load address and zeros the rest.
func (regs *Registers) Reset() {
	*regs = Registers{Pc: memory.ROM_START}
}

// DecrementTimers counts both timers down by one, stopping at zero.
func (regs *Registers) DecrementTimers() {
	if regs.Delay > 0 {
		regs.Delay--
	}
	if regs.Sound > 0 {
		regs.Sound--
	}
}

// Tone is true while the sound timer is running.
func (regs *Registers) Tone() bool {
	return regs.Sound > 0
}

// setFlagged stores the flag in vf, then the result in vx. When x is vf
// the result is what remains.
func (regs *Registers) setFlagged(x uint8, result uint8, flag bool) {
	regs.V[REG_FLAG] = 0
	if flag {
		regs.V[REG_FLAG] = 1
	}
	regs.V[x&0xf] = result
}
