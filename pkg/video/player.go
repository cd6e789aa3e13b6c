package video

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"
)

// VideoPlayer owns one DecodeContext and its decoder, bridging the decoder's
// push-model frame delivery into a once-per-render-frame texture upload.
// Exactly one owner holds a player at a time; the asset manager moves players
// between its current and old slots by pointer, never by copy.
type VideoPlayer struct {
	log zerolog.Logger
	ctx *DecodeContext
	dec Decoder

	started   bool
	closeOnce sync.Once
}

// NewPlayer opens path with the FFmpeg decoder and prepares a streaming
// texture at width×height on renderer. Playback does not start until Play.
// On failure every resource acquired so far is released in reverse order; a
// half-initialized player is never handed back.
func NewPlayer(renderer *sdl.Renderer, path string, width, height int32, log zerolog.Logger) (*VideoPlayer, error) {
	dec, err := NewFFmpegDecoder(path, width, height, log)
	if err != nil {
		return nil, err
	}
	p, err := NewPlayerWithDecoder(renderer, dec, width, height, log)
	if err != nil {
		return nil, fmt.Errorf("video player for %s: %w", path, err)
	}
	return p, nil
}

// NewPlayerWithDecoder wires an already-open decoder to a fresh decode
// context. Tests substitute a stub decoder through this constructor.
func NewPlayerWithDecoder(renderer *sdl.Renderer, dec Decoder, width, height int32, log zerolog.Logger) (*VideoPlayer, error) {
	ctx, err := newDecodeContext(renderer, width, height)
	if err != nil {
		dec.Close()
		return nil, err
	}
	return &VideoPlayer{log: log, ctx: ctx, dec: dec}, nil
}

// Play starts the decoder. No-op when already playing or when the player has
// no decode context; a decoder start failure is logged and leaves prior
// state untouched.
func (p *VideoPlayer) Play() {
	if p == nil || p.ctx == nil || p.dec == nil || p.started {
		return
	}
	if err := p.dec.Start(p.ctx); err != nil {
		p.log.Error().Err(err).Msg("failed to start video playback")
		return
	}
	p.started = true
}

// Stop halts the decoder. Idempotent, and safe without a prior Play.
func (p *VideoPlayer) Stop() {
	if p == nil || p.dec == nil {
		return
	}
	p.dec.Stop()
	p.started = false
}

// Update pushes the most recent decoded frame into the streaming texture.
// Called once per render frame. A player that has never received a frame is
// left untouched so an unpainted texture does not flicker stale memory.
// Upload failures are logged and skipped; playback can self-heal next frame.
func (p *VideoPlayer) Update() {
	if p == nil || p.ctx == nil || !p.ctx.Streaming() {
		return
	}
	if err := p.ctx.upload(); err != nil {
		p.log.Error().Err(err).Msg("frame upload failed")
	}
}

// Texture returns the player's streaming texture, nil when absent.
func (p *VideoPlayer) Texture() *sdl.Texture {
	if p == nil || p.ctx == nil {
		return nil
	}
	return p.ctx.Texture()
}

// IsPlaying reports whether the decoder has delivered at least one frame.
func (p *VideoPlayer) IsPlaying() bool {
	return p != nil && p.ctx != nil && p.ctx.Streaming()
}

// WaitUntilStopped polls until the decoder reports it is no longer running,
// sleeping interval between checks and giving up after max. It returns
// whether the decoder quiesced within the bound. Blocks the calling thread,
// bounded by max.
func (p *VideoPlayer) WaitUntilStopped(interval, max time.Duration) bool {
	if p == nil || p.dec == nil {
		return true
	}
	deadline := time.Now().Add(max)
	for p.dec.Running() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
	return true
}

// Close releases the decoder, then the texture and pixel buffer. Tolerates
// partial construction and repeated calls.
func (p *VideoPlayer) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		if p.dec != nil {
			p.dec.Close()
		}
		if p.ctx != nil {
			p.ctx.destroy()
		}
	})
}
