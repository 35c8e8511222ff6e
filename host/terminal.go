package host

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
)

const (
	KEY_QUIT   = 0x1b // Escape ends the session.
	KEY_CTRL_C = 0x03
)

// Terminal reads raw keys from stdin and draws the framebuffer with ANSI
// escapes. Terminals report no key releases, so keys are delivered as taps.
type Terminal struct {
	Verbose bool
	In      *os.File  // Raw mode key input.
	Out     io.Writer // ANSI output.

	keys    chan byte
	stopped sync.Once
	fd      int
	oldTerm *term.State
}

// NewTerminal creates a terminal host on stdin and stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		In:   os.Stdin,
		Out:  os.Stdout,
		keys: make(chan byte, 64),
	}
}

// Start puts the terminal in raw mode, and begins reading keys in a
// goroutine. Call Stop() to restore the terminal.
func (tm *Terminal) Start() (err error) {
	tm.fd = int(tm.In.Fd())
	if !term.IsTerminal(tm.fd) {
		err = ErrNotTerminal
		return
	}

	width, height, err := term.GetSize(tm.fd)
	if err == nil && (width < display.WIDTH || height < display.HEIGHT/2) {
		log.Printf("terminal: %vx%v is smaller than the %vx%v display", width, height, display.WIDTH, display.HEIGHT/2)
	}

	tm.oldTerm, err = term.MakeRaw(tm.fd)
	if err != nil {
		return
	}

	// Hide the cursor, clear the screen.
	fmt.Fprint(tm.Out, "\x1b[?25l\x1b[2J")

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := tm.In.Read(buf)
			if err != nil {
				close(tm.keys)
				return
			}
			if n > 0 {
				tm.keys <- buf[0]
			}
		}
	}()

	return
}

// Stop restores the terminal.
func (tm *Terminal) Stop() {
	tm.stopped.Do(func() {
		if tm.oldTerm == nil {
			return
		}
		fmt.Fprint(tm.Out, "\x1b[?25h\r\n")
		_ = term.Restore(tm.fd, tm.oldTerm)
		tm.oldTerm = nil
	})
}

// Poll delivers all pending keys to tap, and reports if the user asked to
// quit or the input closed.
func (tm *Terminal) Poll(tap func(key uint8)) (quit bool) {
	for {
		select {
		case c, ok := <-tm.keys:
			if !ok || c == KEY_QUIT || c == KEY_CTRL_C {
				quit = true
				return
			}
			key, ok := keypad.Lookup(rune(c))
			if !ok {
				continue
			}
			if tm.Verbose {
				log.Printf("terminal: %q is key %X", c, key)
			}
			tap(key)
		default:
			return
		}
	}
}

// Render draws the framebuffer at the top left of the terminal.
func (tm *Terminal) Render(fb *display.Framebuffer) (err error) {
	text := strings.ReplaceAll(fb.String(), "\n", "\x1b[K\r\n")
	_, err = fmt.Fprint(tm.Out, "\x1b[H"+text)
	return
}
