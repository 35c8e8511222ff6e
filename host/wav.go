package host

import (
	"io"
	"log"
	"math"
	"os"

	"github.com/youpy/go-wav"

	"github.com/ezrec/chip8/emulator"
)

// WavRecorder captures the tone of each emulated frame, and writes it as
// an 8-bit mono WAV file on Close. Audio is buffered in memory until then.
type WavRecorder struct {
	Verbose  bool
	Filename string
	Rate     int // Samples per second.

	square Square
	buffer []wav.Sample
}

// NewWavRecorder creates a recorder for filename.
func NewWavRecorder(filename string) (wr *WavRecorder) {
	wr = &WavRecorder{
		Filename: filename,
		Rate:     SAMPLE_RATE,
		square:   Square{Rate: SAMPLE_RATE, Hz: TONE_HZ},
	}

	return
}

// Frame records one emulated frame of audio.
func (wr *WavRecorder) Frame(tone bool) {
	wr.square.Rate = wr.Rate
	for range wr.Rate / emulator.FRAME_RATE {
		w := wav.Sample{}
		w.Values[0] = 0x80 + 0x40*wr.square.Next(tone)
		wr.buffer = append(wr.buffer, w)
	}
}

// Samples returns the number of recorded samples.
func (wr *WavRecorder) Samples() int {
	return len(wr.buffer)
}

// WriteTo encodes the recording.
func (wr *WavRecorder) WriteTo(w io.Writer) (n int64, err error) {
	if wr.Rate < emulator.FRAME_RATE || int64(wr.Rate) > math.MaxUint32 {
		err = ErrWavRate
		return
	}

	enc := wav.NewWriter(w, uint32(len(wr.buffer)), 1, uint32(wr.Rate), 8)

	err = enc.WriteSamples(wr.buffer)
	if err != nil {
		return
	}

	n = int64(len(wr.buffer))
	return
}

// Close writes the recording to Filename.
func (wr *WavRecorder) Close() (err error) {
	ouf, err := os.Create(wr.Filename)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	if wr.Verbose {
		log.Printf("wav: writing %v samples to %v", len(wr.buffer), wr.Filename)
	}

	_, err = wr.WriteTo(ouf)
	return
}
