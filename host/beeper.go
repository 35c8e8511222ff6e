package host

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const BEEP_VOLUME = 0.25 // Peak amplitude of the beeper.

// Beeper plays the sound timer tone on the host audio device.
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player
	on     atomic.Bool
	square Square     // Only used by the audio goroutine.
	mutex  sync.Mutex // Only for setup/control operations
}

// NewBeeper opens the audio device, and starts a silent stream.
func NewBeeper() (bp *Beeper, err error) {
	op := &oto.NewContextOptions{
		SampleRate:   SAMPLE_RATE,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return
	}
	<-ready

	bp = &Beeper{
		ctx:    ctx,
		square: Square{Rate: SAMPLE_RATE, Hz: TONE_HZ},
	}
	bp.player = ctx.NewPlayer(bp)
	bp.player.Play()

	return
}

// SetTone turns the tone on or off.
func (bp *Beeper) SetTone(on bool) {
	bp.on.Store(on)
}

// Read supplies float32 samples to the audio device.
func (bp *Beeper) Read(p []byte) (n int, err error) {
	on := bp.on.Load()
	for n+4 <= len(p) {
		sample := float32(bp.square.Next(on)) * BEEP_VOLUME
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(sample))
		n += 4
	}

	return
}

// Close stops the audio stream.
func (bp *Beeper) Close() (err error) {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	if bp.player != nil {
		err = bp.player.Close()
		bp.player = nil
	}

	return
}
