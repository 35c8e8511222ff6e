package keypad

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	assert.False(kp.Pressed(0x5))

	kp.Press(0x5)
	assert.True(kp.Pressed(0x5))
	assert.True(kp.Pressed(0x15))

	kp.Release(0x5)
	assert.False(kp.Pressed(0x5))
}

func TestKeypad_Tap(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	kp.Tap(0xa, 2)
	kp.Press(0x1)

	assert.Empty(kp.Frame())
	assert.True(kp.Pressed(0xa))
	assert.Equal([]uint8{0xa}, kp.Frame())
	assert.False(kp.Pressed(0xa))
	assert.True(kp.Pressed(0x1))
	assert.Empty(kp.Frame())

	kp.Reset()
	assert.False(kp.Pressed(0x1))
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		r   rune
		key uint8
		ok  bool
	}{
		{'1', 0x1, true},
		{'4', 0xc, true},
		{'W', 0x5, true},
		{'x', 0x0, true},
		{'v', 0xf, true},
		{'p', 0, false},
	}

	for _, entry := range table {
		key, ok := Lookup(entry.r)
		assert.Equal(entry.ok, ok, string(entry.r))
		assert.Equal(entry.key, key, string(entry.r))
	}
	assert.Equal(KEY_COUNT, len(Layout))
}

func TestTape(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1 . a# comment F\nB")}

	key, idle, done := tape.Next()
	assert.Equal(uint8(1), key)
	assert.False(idle)
	assert.False(done)

	_, idle, done = tape.Next()
	assert.True(idle)
	assert.False(done)

	key, _, _ = tape.Next()
	assert.Equal(uint8(0xa), key)

	key, _, done = tape.Next()
	assert.Equal(uint8(0xb), key)
	assert.False(done)

	_, _, done = tape.Next()
	assert.True(done)

	assert.NoError(tape.Rewind())
	key, _, done = tape.Next()
	assert.Equal(uint8(1), key)
	assert.False(done)

	empty := &Tape{}
	_, _, done = empty.Next()
	assert.True(done)
}

var errSeek = errors.New("seek failed")

// brokenSeeker reads normally, but can not seek.
type brokenSeeker struct {
	io.Reader
}

func (bs brokenSeeker) Seek(offset int64, whence int) (int64, error) {
	return 0, errSeek
}

func TestTape_Rewind(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: brokenSeeker{strings.NewReader("12")}}

	key, _, done := tape.Next()
	assert.Equal(uint8(1), key)
	assert.False(done)

	assert.ErrorIs(tape.Rewind(), errSeek)
	_, _, done = tape.Next()
	assert.True(done)

	// Non-seekable input is not an error.
	tape = &Tape{Input: io.MultiReader(strings.NewReader("3"))}
	assert.NoError(tape.Rewind())
	key, _, done = tape.Next()
	assert.Equal(uint8(3), key)
	assert.False(done)
}
