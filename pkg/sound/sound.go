// Package sound plays the cabinet's table-switch cue through SDL_mixer.
package sound

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/mix"
)

// Player holds the loaded transition chunk. A zero-value-like Player with a
// nil chunk is valid and silent, so a cabinet without audio still runs.
type Player struct {
	log        zerolog.Logger
	transition *mix.Chunk
	opened     bool
}

// NewPlayer opens the audio device and loads the transition cue from path.
// Any failure degrades to a silent player rather than an error: audio is
// never worth refusing to boot over.
func NewPlayer(path string, log zerolog.Logger) *Player {
	p := &Player{log: log}

	if path == "" {
		log.Debug().Msg("no transition sound configured")
		return p
	}
	if _, err := os.Stat(path); err != nil {
		log.Info().Str("path", path).Err(err).Msg("transition sound unavailable")
		return p
	}
	if err := mix.OpenAudio(mix.DEFAULT_FREQUENCY, mix.DEFAULT_FORMAT, mix.DEFAULT_CHANNELS, 1024); err != nil {
		log.Warn().Err(err).Msg("audio device unavailable; running silent")
		return p
	}
	p.opened = true

	chunk, err := mix.LoadWAV(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("failed to load transition sound")
		return p
	}
	p.transition = chunk
	return p
}

// PlayTransition plays the table-switch cue on any free channel. Silent
// players no-op.
func (p *Player) PlayTransition() {
	if p.transition == nil {
		return
	}
	if _, err := p.transition.Play(-1, 0); err != nil {
		p.log.Debug().Err(err).Msg("transition sound playback failed")
	}
}

// Close frees the chunk and closes the audio device.
func (p *Player) Close() {
	if p.transition != nil {
		p.transition.Free()
		p.transition = nil
	}
	if p.opened {
		mix.CloseAudio()
		p.opened = false
	}
}
