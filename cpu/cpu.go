package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"
	"time"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/memory"
)

var _cpu_defines = map[string]string{
	"REG_FLAG":      fmt.Sprintf("%#x", REG_FLAG),
	"STACK_LIMIT":   fmt.Sprintf("%v", memory.STACK_LIMIT),
	"SCREEN_WIDTH":  fmt.Sprintf("%v", display.WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%v", display.HEIGHT),
	"KEY_COUNT":     fmt.Sprintf("%v", keypad.KEY_COUNT),
}

// Quirks select between historical behaviours of the instruction set.
type Quirks struct {
	ShiftVariable bool // shr/shl shift vx by vy rather than by one.
}

// Cpu is the execution engine. It exclusively owns the memory, register
// file and framebuffer; it is not safe for concurrent use.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Quirks  Quirks // Instruction set variant.

	Registers
	Memory  *memory.Memory      // Address space and call stack.
	Display display.Framebuffer // Monochrome framebuffer.
	Keypad  keypad.Keypad       // Hexadecimal keypad state.
	Rand    *rand.Rand          // Source for rnd.

	Ticks int // Instructions executed since reset.

	awaiting bool  // Suspended in ld vx, k.
	awaitReg uint8 // Register receiving the awaited key.
}

// NewCpu creates a CPU with empty memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory.NewMemory(),
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	cpu.Registers.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %03X\n", cpu.Pc)
	text += fmt.Sprintf("    i: %03X\n", cpu.I)
	for n := 0; n < REG_COUNT; n += 4 {
		text += fmt.Sprintf("   v%X: %02X  v%X: %02X  v%X: %02X  v%X: %02X\n",
			n, cpu.V[n], n+1, cpu.V[n+1], n+2, cpu.V[n+2], n+3, cpu.V[n+3])
	}
	text += fmt.Sprintf("   dt: %02X\n", cpu.Delay)
	text += fmt.Sprintf("   st: %02X\n", cpu.Sound)
	top, err := cpu.Memory.Stack.Peek()
	if err == nil {
		text += fmt.Sprintf("stack: %03X (%d)\n", top, cpu.Memory.Stack.Sp())
	} else {
		text += "stack: ---\n"
	}
	if cpu.awaiting {
		text += fmt.Sprintf(" wait: v%X\n", cpu.awaitReg)
	}

	return
}

// Reset the CPU state and load a ROM image.
// - Clears the registers, stack, memory, framebuffer and keypad.
// - Installs the glyph table.
// - Copies the ROM to memory.ROM_START and sets the PC to it.
func (cpu *Cpu) Reset(rom []byte) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Memory.Reset()
	cpu.Display.Clear()
	cpu.Keypad.Reset()
	cpu.Ticks = 0
	cpu.awaiting = false
	cpu.awaitReg = 0

	err = cpu.Memory.LoadRom(rom)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %v bytes at %#x", len(rom), memory.ROM_START)
	}

	return
}

// Awaiting reports the register that will receive the next key press,
// if the CPU is suspended on ld vx, k.
func (cpu *Cpu) Awaiting() (reg uint8, ok bool) {
	return cpu.awaitReg, cpu.awaiting
}

// KeyDown delivers a key press, resuming the CPU if it awaits a key.
func (cpu *Cpu) KeyDown(key uint8) {
	cpu.Keypad.Press(key)
	cpu.deliver(key)
}

// KeyTap delivers a key press that releases after frames host frames.
func (cpu *Cpu) KeyTap(key uint8, frames int) {
	cpu.Keypad.Tap(key, frames)
	cpu.deliver(key)
}

// KeyUp delivers a key release.
func (cpu *Cpu) KeyUp(key uint8) {
	cpu.Keypad.Release(key)
}

func (cpu *Cpu) deliver(key uint8) {
	if !cpu.awaiting {
		return
	}

	cpu.V[cpu.awaitReg] = key & 0xf
	cpu.awaiting = false

	if cpu.Verbose {
		log.Printf("cpu: key %X to v%X", key&0xf, cpu.awaitReg)
	}
}

// Fetch reads and decodes the instruction at the PC, advancing the PC.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	word, err := cpu.Memory.LoadU16(cpu.Pc)
	if err != nil {
		return
	}

	cpu.Pc += 2

	ins, ok := Decode(word)
	if !ok {
		err = ErrDecode(word)
		return
	}

	return
}

// Step executes a single instruction. While awaiting a key, Step returns
// immediately without executing anything.
func (cpu *Cpu) Step() (err error) {
	if cpu.awaiting {
		return
	}

	pc := cpu.Pc
	ins, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%03x: %v", pc, ins)
	}

	err = cpu.Execute(ins)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// skipIf advances the PC past the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// indexAddr returns I+offset, faulting rather than wrapping past 0xffff.
func (cpu *Cpu) indexAddr(offset int) (addr uint16, err error) {
	target := int(cpu.I) + offset
	if target > 0xffff {
		err = memory.ErrIllegalAccess(0xffff)
		return
	}

	addr = uint16(target)
	return
}

// storeIndexed writes data to memory at I onwards.
func (cpu *Cpu) storeIndexed(data ...uint8) (err error) {
	for n, value := range data {
		var addr uint16
		addr, err = cpu.indexAddr(n)
		if err != nil {
			return
		}
		err = cpu.Memory.StoreU8(addr, value)
		if err != nil {
			return
		}
	}

	return
}

// shiftCount is the quirk dependent shift distance.
func (cpu *Cpu) shiftCount(y uint8) uint8 {
	if cpu.Quirks.ShiftVariable {
		return cpu.V[y]
	}
	return 1
}

// Execute executes a single decoded instruction. The PC has already been
// advanced past it.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()

	x := ins.X & 0xf
	y := ins.Y & 0xf
	v := &cpu.V

	switch ins.Op {
	case OP_SYS_JUMP:
		// Machine code routines are not supported.
	case OP_CLEAR_SCREEN:
		cpu.Display.Clear()
	case OP_RETURN:
		var pc uint16
		pc, err = cpu.Memory.Stack.Pop()
		if err != nil {
			return
		}
		cpu.Pc = pc
	case OP_JUMP:
		cpu.Pc = ins.NNN
	case OP_CALL:
		err = cpu.Memory.Stack.Push(cpu.Pc)
		if err != nil {
			return
		}
		cpu.Pc = ins.NNN
	case OP_SKIP_EQ_IMM:
		cpu.skipIf(v[x] == ins.KK)
	case OP_SKIP_NE_IMM:
		cpu.skipIf(v[x] != ins.KK)
	case OP_SKIP_EQ_REG:
		cpu.skipIf(v[x] == v[y])
	case OP_SKIP_NE_REG:
		cpu.skipIf(v[x] != v[y])
	case OP_LOAD_IMM:
		v[x] = ins.KK
	case OP_ADD_IMM:
		sum := uint16(v[x]) + uint16(ins.KK)
		cpu.setFlagged(x, uint8(sum), sum > 0xff)
	case OP_LOAD_REG:
		v[x] = v[y]
	case OP_OR:
		v[x] |= v[y]
	case OP_AND:
		v[x] &= v[y]
	case OP_XOR:
		v[x] ^= v[y]
	case OP_ADD_REG:
		sum := uint16(v[x]) + uint16(v[y])
		cpu.setFlagged(x, uint8(sum), sum > 0xff)
	case OP_SUB:
		cpu.setFlagged(x, v[x]-v[y], v[x] >= v[y])
	case OP_SUBN:
		cpu.setFlagged(x, v[y]-v[x], v[y] >= v[x])
	case OP_SHR:
		count := cpu.shiftCount(y)
		value := v[x]
		out := count > 0 && ((value>>(count-1))&1) != 0
		cpu.setFlagged(x, value>>count, out)
	case OP_SHL:
		count := cpu.shiftCount(y)
		value := v[x]
		out := count > 0 && ((value<<(count-1))&0x80) != 0
		cpu.setFlagged(x, value<<count, out)
	case OP_LOAD_I:
		cpu.I = ins.NNN
	case OP_ADD_I:
		cpu.I += uint16(v[x])
	case OP_JUMP_V0:
		cpu.Pc = ins.NNN + uint16(v[0])
	case OP_RANDOM:
		v[x] = uint8(cpu.Rand.Intn(0x100)) & ins.KK
	case OP_DISPLAY_SPRITE:
		var sprite []uint8
		sprite, err = cpu.Memory.Bytes(cpu.I, int(ins.N))
		if err != nil {
			return
		}
		collision := false
		for row, bits := range sprite {
			if cpu.Display.BlitSpriteRow(int(v[x]), int(v[y])+row, bits) {
				collision = true
			}
		}
		v[REG_FLAG] = 0
		if collision {
			v[REG_FLAG] = 1
		}
	case OP_SKIP_PRESSED:
		cpu.skipIf(cpu.Keypad.Pressed(v[x]))
	case OP_SKIP_NOT_PRESSED:
		cpu.skipIf(!cpu.Keypad.Pressed(v[x]))
	case OP_LOAD_DELAY:
		v[x] = cpu.Delay
	case OP_READ_KEY:
		cpu.awaiting = true
		cpu.awaitReg = x
	case OP_SET_DELAY:
		cpu.Delay = v[x]
	case OP_SET_SOUND:
		cpu.Sound = v[x]
	case OP_LOAD_GLYPH:
		cpu.I = cpu.Memory.GlyphAddress(v[x])
	case OP_STORE_DECIMAL:
		value := v[x]
		err = cpu.storeIndexed(value/100, (value/10)%10, value%10)
	case OP_REG_DUMP:
		err = cpu.storeIndexed(v[:x+1]...)
	case OP_REG_LOAD:
		for n := range int(x) + 1 {
			var addr uint16
			addr, err = cpu.indexAddr(n)
			if err != nil {
				return
			}
			var value uint8
			value, err = cpu.Memory.LoadU8(addr)
			if err != nil {
				return
			}
			v[n] = value
		}
	default:
		err = ErrDecode(ins.Encode())
	}

	return
}
