package display

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var glyphZero = []uint8{0xf0, 0x90, 0x90, 0x90, 0xf0}

func blit(fb *Framebuffer, x, y int, sprite []uint8) (collision bool) {
	for n, row := range sprite {
		if fb.BlitSpriteRow(x, y+n, row) {
			collision = true
		}
	}
	return
}

func TestFramebuffer(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}
	assert.Equal(64, fb.Width())
	assert.Equal(32, fb.Height())
	assert.Equal(0, fb.Lit())

	fb.Set(3, 4, true)
	assert.True(fb.Get(3, 4))
	assert.False(fb.Get(4, 3))
	assert.True(fb.Get(3+64, 4+32))
	assert.True(fb.Get(3-64, 4))

	fb.Clear()
	assert.Equal(0, fb.Lit())
}

func TestFramebuffer_Collision(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}

	assert.False(blit(fb, 0, 0, glyphZero))
	assert.Equal(4+2+2+2+4, fb.Lit())
	assert.True(fb.Get(0, 0))
	assert.True(fb.Get(3, 0))
	assert.False(fb.Get(4, 0))
	assert.True(fb.Get(0, 1))
	assert.False(fb.Get(1, 1))
	assert.True(fb.Get(3, 1))

	// XOR of XOR is identity.
	assert.True(blit(fb, 0, 0, glyphZero))
	assert.Equal(0, fb.Lit())
	for y := range 5 {
		for x := range 8 {
			assert.False(fb.Get(x, y))
		}
	}
}

func TestFramebuffer_PartialCollision(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}

	assert.False(fb.BlitSpriteRow(10, 10, 0b1000_0000))
	// Overlaps only on the second sprite bit.
	assert.False(fb.BlitSpriteRow(8, 11, 0b1111_1111))
	assert.True(fb.BlitSpriteRow(9, 10, 0b0100_0000))
	assert.False(fb.Get(10, 10))
	assert.Equal(8, fb.Lit())
}

func TestFramebuffer_Wrap(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}

	assert.False(fb.BlitSpriteRow(60, 0, 0xff))
	for x := 60; x < 64; x++ {
		assert.True(fb.Get(x, 0), "x=%d", x)
	}
	for x := 0; x < 4; x++ {
		assert.True(fb.Get(x, 0), "x=%d", x)
	}
	assert.False(fb.Get(4, 0))
	assert.False(fb.Get(59, 0))
	assert.Equal(8, fb.Lit())

	fb.Clear()

	// Rows past the bottom edge wrap to the top.
	assert.False(blit(fb, 0, 30, glyphZero))
	assert.True(fb.Get(0, 30))
	assert.True(fb.Get(0, 31))
	assert.True(fb.Get(0, 0))
	assert.True(fb.Get(0, 2))
	assert.True(fb.Get(1, 2))
	assert.False(fb.Get(0, 3))
}

func TestFramebuffer_RGBA(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}
	fb.Set(1, 0, true)

	on := color.RGBA{0xff, 0xff, 0xff, 0xff}
	off := color.RGBA{0x00, 0x00, 0x00, 0xff}
	pixels := fb.RGBA(on, off)

	assert.Equal(64*32*4, len(pixels))
	assert.Equal([]byte{0, 0, 0, 0xff}, pixels[0:4])
	assert.Equal([]byte{0xff, 0xff, 0xff, 0xff}, pixels[4:8])
}

func TestFramebuffer_String(t *testing.T) {
	assert := assert.New(t)

	fb := &Framebuffer{}
	fb.Set(0, 0, true)
	fb.Set(1, 1, true)
	fb.Set(2, 0, true)
	fb.Set(2, 1, true)

	lines := strings.Split(fb.String(), "\n")
	assert.Equal(17, len(lines))
	assert.True(strings.HasPrefix(lines[0], "▀▄█ "))
	assert.Equal(64, len([]rune(lines[1])))
}
