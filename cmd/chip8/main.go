// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/host"
	"github.com/ezrec/chip8/translate"
)

func main() {
	var compile string
	var disasm bool
	var save string
	var input string
	var frames int
	var cycles int
	var shiftVy bool
	var wavFile string
	var beep bool
	var verbose bool
	var lang string

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.BoolVar(&disasm, "d", false, "Disassemble the ROM, do not execute")
	flag.StringVar(&save, "s", "", "Save the assembled ROM, do not execute")
	flag.StringVar(&input, "i", "", "Key tape input")
	flag.IntVar(&frames, "n", 0, "Run headless for this many frames")
	flag.IntVar(&cycles, "ipf", emulator.CYCLES_PER_FRAME, "Instructions per frame")
	flag.BoolVar(&shiftVy, "shift-vy", false, "Shift by vy rather than by one")
	flag.StringVar(&wavFile, "wav", "", "Record the tone to a .wav file")
	flag.BoolVar(&beep, "beep", false, "Play the tone")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "lang", "", "Message languages, e.g. de-DE,en-US")

	flag.Parse()

	if len(lang) != 0 {
		translate.SetLanguage(strings.Split(lang, ",")...)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.CyclesPerFrame = cycles
	emu.Quirks.ShiftVariable = shiftVy

	var path string
	var rom []byte
	prog := &cpu.Program{}

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}
		path = compile
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		rom = prog.Binary()
	case flag.NArg() == 1:
		path = flag.Arg(0)
		var err error
		rom, err = os.ReadFile(path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	default:
		log.Fatalf("%v: expected a ROM file, or -c file.asm", os.Args[0])
	}

	if len(save) != 0 {
		err := os.WriteFile(save, rom, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if disasm {
		for addr, text := range cpu.Disassemble(rom) {
			fmt.Printf("%03x: %v\n", addr, text)
		}
		return
	}

	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	var err error
	if len(prog.Opcodes) != 0 {
		err = emu.LoadProgram(prog)
	} else {
		err = emu.Load(rom)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	var recorder *host.WavRecorder
	if len(wavFile) != 0 {
		recorder = host.NewWavRecorder(wavFile)
		recorder.Verbose = verbose
		defer func() {
			err := recorder.Close()
			if err != nil {
				log.Printf("%v: %v", wavFile, err)
			}
		}()
	}

	var beeper *host.Beeper
	if beep {
		beeper, err = host.NewBeeper()
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		defer beeper.Close()
	}

	frame := func() (err error) {
		err = emu.Frame()
		if recorder != nil {
			recorder.Frame(emu.Tone())
		}
		if beeper != nil {
			beeper.SetTone(emu.Tone())
		}
		return
	}

	// Headless
	if frames > 0 {
		for range frames {
			err = frame()
			if err != nil {
				break
			}
		}
		fmt.Print(emu.Cpu.Display.String())
		fmt.Print(emu.Cpu.String())
		if err != nil {
			log.Printf("%v: %v", path, err)
		}
		return
	}

	term := host.NewTerminal()
	term.Verbose = verbose
	err = term.Start()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	ticker := time.NewTicker(time.Second / emulator.FRAME_RATE)
	defer ticker.Stop()

	for range ticker.C {
		if term.Poll(func(key uint8) { emu.KeyTap(key, emulator.TAP_FRAMES) }) {
			break
		}
		err = frame()
		if err != nil {
			break
		}
		err = term.Render(&emu.Cpu.Display)
		if err != nil {
			break
		}
	}

	term.Stop()

	if err != nil {
		fmt.Print(emu.Cpu.String())
		log.Printf("%v: %v", path, err)
	}
}
