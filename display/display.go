// Package display implements the 64x32 monochrome framebuffer.
package display

import (
	"image/color"
	"strings"
)

const (
	WIDTH  = 64
	HEIGHT = 32
)

// Framebuffer is a row-major grid of pixels. Coordinates wrap on both axes.
type Framebuffer struct {
	cells [HEIGHT][WIDTH]bool
}

func wrap(v, limit int) int {
	v %= limit
	if v < 0 {
		v += limit
	}
	return v
}

func (fb *Framebuffer) Width() int {
	return WIDTH
}

func (fb *Framebuffer) Height() int {
	return HEIGHT
}

func (fb *Framebuffer) Get(x, y int) bool {
	return fb.cells[wrap(y, HEIGHT)][wrap(x, WIDTH)]
}

func (fb *Framebuffer) Set(x, y int, value bool) {
	fb.cells[wrap(y, HEIGHT)][wrap(x, WIDTH)] = value
}

// Clear turns off every pixel.
func (fb *Framebuffer) Clear() {
	for y := range fb.cells {
		clear(fb.cells[y][:])
	}
}

// BlitSpriteRow XORs the eight bits of row onto the framebuffer, MSB
// leftmost, starting at (x, y). Columns past the right edge wrap to the
// left edge; rows past the bottom wrap to the top.
//
// collision is set when any pixel was turned off.
func (fb *Framebuffer) BlitSpriteRow(x, y int, row uint8) (collision bool) {
	line := &fb.cells[wrap(y, HEIGHT)]
	for bit := range 8 {
		if (row & (0x80 >> bit)) == 0 {
			continue
		}
		cell := &line[wrap(x+bit, WIDTH)]
		if *cell {
			collision = true
		}
		*cell = !*cell
	}

	return
}

// Lit returns the number of pixels that are on.
func (fb *Framebuffer) Lit() (count int) {
	for y := range fb.cells {
		for _, on := range fb.cells[y] {
			if on {
				count++
			}
		}
	}
	return
}

// RGBA renders the framebuffer as packed 8-bit RGBA pixels, suitable for
// uploading to a texture.
func (fb *Framebuffer) RGBA(on, off color.RGBA) (pixels []byte) {
	pixels = make([]byte, 0, WIDTH*HEIGHT*4)
	for y := range fb.cells {
		for _, lit := range fb.cells[y] {
			c := off
			if lit {
				c = on
			}
			pixels = append(pixels, c.R, c.G, c.B, c.A)
		}
	}
	return
}

// String renders two pixel rows per text line with Unicode half blocks.
func (fb *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((WIDTH*3 + 1) * HEIGHT / 2)

	for y := 0; y < HEIGHT; y += 2 {
		for x := range WIDTH {
			top := fb.cells[y][x]
			bottom := fb.cells[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
