package host

const (
	SAMPLE_RATE = 44100 // Audio samples per second.
	TONE_HZ     = 440   // Pitch of the sound timer tone.
)

// Square is a square wave oscillator, silent while off.
type Square struct {
	Rate  int // Samples per second.
	Hz    int // Tone frequency.
	phase int
}

// Next returns the next sample, +1 or -1 while on, and 0 while off. The
// phase restarts each time the tone turns off.
func (sq *Square) Next(on bool) (level int) {
	if !on {
		sq.phase = 0
		return
	}

	period := 2
	if sq.Hz > 0 {
		period = max(sq.Rate/sq.Hz, 2)
	}

	level = 1
	if sq.phase >= period/2 {
		level = -1
	}
	sq.phase = (sq.phase + 1) % period

	return
}
