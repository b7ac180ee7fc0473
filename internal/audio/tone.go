// Package audio generates the square wave tone that is played while the
// sound timer is running.
package audio

import (
	"encoding/binary"
	"sync/atomic"
)

// Output format of the tone: signed 16 bit little endian mono samples.
const (
	SampleRate     = 44100
	ChannelCount   = 1
	BytesPerSample = 2

	// Frequency of the tone in Hz.
	Frequency = 440

	amplitude = 0x1800
)

// Tone is an io.Reader producing a square wave while active and silence
// otherwise. SetActive can be called concurrently with Read.
type Tone struct {
	active atomic.Bool

	period int // samples per wave period
	phase  int // position inside the current period, only accessed by Read
}

// NewTone returns an inactive tone of the given frequency.
func NewTone(sampleRate, frequency int) *Tone {
	return &Tone{
		period: max(sampleRate/frequency, 2),
	}
}

// SetActive starts or stops the tone.
func (t *Tone) SetActive(active bool) {
	t.active.Store(active)
}

// Active returns whether the tone is playing.
func (t *Tone) Active() bool {
	return t.active.Load()
}

// Read fills p with whole samples. It never fails.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) - len(p)%BytesPerSample
	if !t.active.Load() {
		clear(p[:n])
		t.phase = 0
		return n, nil
	}

	half := t.period / 2
	for i := 0; i < n; i += BytesPerSample {
		sample := int16(amplitude)
		if t.phase >= half {
			sample = -amplitude
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))
		t.phase = (t.phase + 1) % t.period
	}
	return n, nil
}
