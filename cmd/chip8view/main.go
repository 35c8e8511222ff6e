package main

import (
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/host"
)

const SCALE = 10 // Window pixels per framebuffer pixel.

var (
	colorOn  = color.RGBA{0xe0, 0xf0, 0xd0, 0xff}
	colorOff = color.RGBA{0x20, 0x28, 0x18, 0xff}
)

// keyMap is the keypad layout on a physical QWERTY keyboard.
var keyMap = map[ebiten.Key]uint8{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xc,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xd,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xe,
	ebiten.KeyZ: 0xa, ebiten.KeyX: 0x0, ebiten.KeyC: 0xb, ebiten.KeyV: 0xf,
}

type Game struct {
	emu    *emulator.Emulator
	beeper *host.Beeper
	down   map[ebiten.Key]bool
	screen *ebiten.Image // reused 64x32 canvas
}

func (g *Game) Update() (err error) {
	for ek, key := range keyMap {
		pressed := ebiten.IsKeyPressed(ek)
		switch {
		case pressed && !g.down[ek]:
			g.emu.KeyDown(key)
		case !pressed && g.down[ek]:
			g.emu.KeyUp(key)
		}
		g.down[ek] = pressed
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		err = ebiten.Termination
		return
	}

	err = g.emu.Frame()
	if err != nil {
		return
	}

	if g.beeper != nil {
		g.beeper.SetTone(g.emu.Tone())
	}

	return
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(display.WIDTH, display.HEIGHT)
	}

	g.screen.WritePixels(g.emu.Cpu.Display.RGBA(colorOn, colorOff))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(SCALE, SCALE)
	screen.DrawImage(g.screen, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.WIDTH * SCALE, display.HEIGHT * SCALE
}

func main() {
	var compile string
	var cycles int
	var shiftVy bool
	var mute bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.IntVar(&cycles, "ipf", emulator.CYCLES_PER_FRAME, "Instructions per frame")
	flag.BoolVar(&shiftVy, "shift-vy", false, "Shift by vy rather than by one")
	flag.BoolVar(&mute, "mute", false, "Do not play the tone")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.CyclesPerFrame = cycles
	emu.Quirks.ShiftVariable = shiftVy

	var path string
	var err error
	switch {
	case len(compile) != 0:
		path = compile
		var inf *os.File
		inf, err = os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		var prog *cpu.Program
		prog, err = asm.Parse(inf)
		inf.Close()
		if err == nil {
			err = emu.LoadProgram(prog)
		}
	case flag.NArg() == 1:
		path = flag.Arg(0)
		var rom []byte
		rom, err = os.ReadFile(path)
		if err == nil {
			err = emu.Load(rom)
		}
	default:
		log.Fatalf("%v: expected a ROM file, or -c file.asm", os.Args[0])
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	game := &Game{
		emu:  emu,
		down: map[ebiten.Key]bool{},
	}

	if !mute {
		game.beeper, err = host.NewBeeper()
		if err != nil {
			log.Printf("%v: %v", os.Args[0], err)
		} else {
			defer game.beeper.Close()
		}
	}

	ebiten.SetWindowSize(display.WIDTH*SCALE, display.HEIGHT*SCALE)
	ebiten.SetWindowTitle("chip8: " + path)
	ebiten.SetTPS(emulator.FRAME_RATE)

	err = ebiten.RunGame(game)
	if err != nil {
		log.Printf("%v: %v", path, err)
		log.Print(emu.Cpu.String())
	}
}
