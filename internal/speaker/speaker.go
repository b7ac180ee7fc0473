// Package speaker plays the sound timer tone on the host audio device.
package speaker

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrogolib/log"
)

const bufferSize = 50 * time.Millisecond

// Speaker plays a tone while active.
type Speaker struct {
	logger *log.Logger
	tone   *audio.Tone
	player *oto.Player
}

// New opens the audio device and starts a silent player.
func New(logger *log.Logger) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: audio.ChannelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	tone := audio.NewTone(audio.SampleRate, audio.Frequency)
	player := ctx.NewPlayer(tone)
	player.Play()

	logger.Debug("Audio output started", log.Int("sample_rate", audio.SampleRate))
	return &Speaker{
		logger: logger,
		tone:   tone,
		player: player,
	}, nil
}

// SetActive starts or stops the tone.
func (s *Speaker) SetActive(active bool) {
	s.tone.SetActive(active)
}

// Close stops the playback.
func (s *Speaker) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
