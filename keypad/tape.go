package keypad

import (
	"bufio"
	"io"
)

// Tape replays a scripted key stream.
//
// Each hexadecimal digit taps that key, '.' idles for one frame, and
// whitespace and anything after '#' on a line are ignored.
type Tape struct {
	Input io.Reader

	reader  *bufio.Reader
	comment bool
	done    bool
}

// Next returns the next key to tap. idle is set for a '.' frame, and done
// once the input is exhausted.
func (tc *Tape) Next() (key uint8, idle bool, done bool) {
	if tc.done || tc.Input == nil {
		done = true
		return
	}
	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	for {
		c, err := tc.reader.ReadByte()
		if err != nil {
			tc.done = true
			done = true
			return
		}
		if tc.comment {
			tc.comment = c != '\n'
			continue
		}
		switch {
		case c == '#':
			tc.comment = true
		case c == '.':
			idle = true
			return
		case c >= '0' && c <= '9':
			key = c - '0'
			return
		case c >= 'a' && c <= 'f':
			key = c - 'a' + 10
			return
		case c >= 'A' && c <= 'F':
			key = c - 'A' + 10
			return
		}
	}
}

// Rewind restarts seekable input; other input is left where it is. If the
// seek fails the tape is finished.
func (tc *Tape) Rewind() (err error) {
	seeker, ok := tc.Input.(io.Seeker)
	if !ok {
		return
	}

	_, err = seeker.Seek(0, io.SeekStart)
	if err != nil {
		tc.done = true
		return
	}

	tc.reader = nil
	tc.comment = false
	tc.done = false

	return
}
