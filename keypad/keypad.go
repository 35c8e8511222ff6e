// Package keypad models the sixteen key hexadecimal keypad, the host
// keyboard layout that drives it, and scripted key input.
package keypad

const (
	KEY_COUNT = 16
)

// Keypad is the pressed state of the sixteen keys.
//
// Hosts that cannot observe key release use Tap, which releases the key
// after a number of calls to Frame.
type Keypad struct {
	down [KEY_COUNT]bool
	hold [KEY_COUNT]int
}

// Pressed reports whether the key (low nibble) is down.
func (kp *Keypad) Pressed(key uint8) bool {
	return kp.down[key&0xf]
}

func (kp *Keypad) Press(key uint8) {
	kp.down[key&0xf] = true
	kp.hold[key&0xf] = 0
}

func (kp *Keypad) Release(key uint8) {
	kp.down[key&0xf] = false
	kp.hold[key&0xf] = 0
}

// Tap presses a key and schedules its release after frames calls to Frame.
func (kp *Keypad) Tap(key uint8, frames int) {
	kp.down[key&0xf] = true
	kp.hold[key&0xf] = max(frames, 1)
}

// Frame advances tap timers, returning the keys released.
func (kp *Keypad) Frame() (released []uint8) {
	for key := range kp.hold {
		if kp.hold[key] == 0 {
			continue
		}
		kp.hold[key]--
		if kp.hold[key] == 0 {
			kp.down[key] = false
			released = append(released, uint8(key))
		}
	}
	return
}

func (kp *Keypad) Reset() {
	clear(kp.down[:])
	clear(kp.hold[:])
}

// Layout maps the conventional QWERTY block to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var Layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// Lookup maps a host rune, either case, to a key.
func Lookup(r rune) (key uint8, ok bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	key, ok = Layout[r]
	return
}
