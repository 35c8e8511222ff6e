// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/keypad"
)

const (
	FRAME_RATE       = 60 // Host frames per second; timers count at this rate.
	CYCLES_PER_FRAME = 10 // Default instructions executed per frame.
	TAP_FRAMES       = 4  // Frames a tapped key is held down.
)

var _emulator_defines = map[string]string{
	"FRAME_RATE":       fmt.Sprintf("%v", FRAME_RATE),
	"CYCLES_PER_FRAME": fmt.Sprintf("%v", CYCLES_PER_FRAME),
}

// Emulator state. CPU + program listing + scripted keys.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the running ROM, if assembled.

	Rom            []byte      // ROM image loaded on Reset.
	Tape           keypad.Tape // Scripted key input, one symbol per frame.
	CyclesPerFrame int         // Instructions per Frame.
	Frames         int         // Frames since reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:            cpu.NewCpu(),
		Program:        &cpu.Program{},
		CyclesPerFrame: CYCLES_PER_FRAME,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Memory.Defines(),
	)
}

// Load a raw ROM image, and reset.
func (emu *Emulator) Load(rom []byte) (err error) {
	emu.Rom = rom
	emu.Program = &cpu.Program{}

	err = emu.Reset()
	return
}

// LoadProgram loads an assembled program, and resets. Runtime errors
// will report the source line.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Rom = prog.Binary()
	emu.Program = prog

	err = emu.Reset()
	return
}

// Reset the machine to the start of the ROM.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Reset(emu.Rom)
	if err != nil {
		return
	}

	err = emu.Tape.Rewind()
	if err != nil {
		return
	}

	emu.Frames = 0

	return
}

// Ticks returns the total instructions since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	return emu.lineOf(emu.Cpu.Pc)
}

// lineOf returns the source line that generated addr, or 0.
func (emu *Emulator) lineOf(addr uint16) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction.
func (emu *Emulator) Tick() (err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	addr := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Addr: addr, LineNo: emu.lineOf(addr), Err: err}
		}
	}()

	err = emu.Cpu.Step()

	return
}

// Frame runs one host frame: the next tape symbol, CyclesPerFrame
// instructions, tap release and one timer decrement.
func (emu *Emulator) Frame() (err error) {
	key, idle, done := emu.Tape.Next()
	if !idle && !done {
		if emu.Verbose {
			log.Printf("emulator: tape key %X", key)
		}
		emu.Cpu.KeyTap(key, TAP_FRAMES)
	}

	for range emu.CyclesPerFrame {
		if _, waiting := emu.Cpu.Awaiting(); waiting {
			break
		}
		err = emu.Tick()
		if err != nil {
			return
		}
	}

	emu.Cpu.Keypad.Frame()
	emu.Cpu.DecrementTimers()
	emu.Frames++

	return
}
