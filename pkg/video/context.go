package video

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"
)

// FrameSink is the capability a decoder uses to deliver frames from its own
// thread. The decoder brackets every frame write with LockPixels/UnlockPixels
// and calls FrameDisplayed once the frame is considered presented.
//
// LockPixels may return nil when the sink is tearing down; in that case the
// decoder must skip the frame and must not call UnlockPixels.
type FrameSink interface {
	LockPixels() []byte
	UnlockPixels()
	FrameDisplayed()
}

// DecodeContext is the mutable shared state behind one playing video: the
// persistent pixel buffer the decoder writes into, the mutex guarding it, and
// the streaming texture the render thread uploads to. The buffer, mutex and
// texture are allocated together at construction and released together by
// destroy.
type DecodeContext struct {
	renderer *sdl.Renderer // not owned
	width    int32
	height   int32
	pitch    int

	texture *sdl.Texture // owned

	mu        sync.Mutex
	pixels    []byte // owned, pitch*height bytes of RGBA32
	streaming atomic.Bool
}

// newDecodeContext allocates the streaming texture and pixel buffer for a
// width×height RGBA32 video. A nil renderer yields a context without a
// texture, which uploads then skip; the decoder path is unaffected.
func newDecodeContext(renderer *sdl.Renderer, width, height int32) (*DecodeContext, error) {
	c := &DecodeContext{
		renderer: renderer,
		width:    width,
		height:   height,
		pitch:    int(width) * 4,
	}

	if renderer != nil {
		tex, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to create streaming texture: %w", err)
		}
		c.texture = tex
	}

	c.pixels = make([]byte, c.pitch*int(height))
	return c, nil
}

// LockPixels acquires the buffer mutex and returns the persistent pixel
// buffer as the write target for the next decoded frame. Returns nil (with
// the mutex released) once the context has been torn down, leaving the
// previous frame in place.
func (c *DecodeContext) LockPixels() []byte {
	c.mu.Lock()
	if c.pixels == nil {
		c.mu.Unlock()
		return nil
	}
	return c.pixels
}

// UnlockPixels releases the buffer mutex. There is no guarantee the frame
// content differs from the prior frame; decoders may write duplicates around
// pause and loop boundaries.
func (c *DecodeContext) UnlockPixels() {
	c.mu.Unlock()
}

// FrameDisplayed marks the context as actively streaming the first time any
// frame lands, distinguishing "texture allocated but never painted" from
// live playback.
func (c *DecodeContext) FrameDisplayed() {
	c.streaming.Store(true)
}

// Streaming reports whether at least one decoded frame has been delivered.
func (c *DecodeContext) Streaming() bool {
	return c.streaming.Load()
}

// Texture returns the streaming texture, nil when absent.
func (c *DecodeContext) Texture() *sdl.Texture {
	return c.texture
}

// upload copies the pixel buffer into the streaming texture under the buffer
// mutex. Only the render thread calls this; the decoder thread never touches
// the texture.
func (c *DecodeContext) upload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.texture == nil || c.pixels == nil {
		return nil
	}

	px, _, err := c.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("failed to lock texture: %w", err)
	}
	copy(px, c.pixels)
	c.texture.Unlock()
	return nil
}

// destroy releases the pixel buffer and texture together. Safe in any state,
// including mid-playback: a decoder blocked in LockPixels observes the nil
// buffer and skips its frame.
func (c *DecodeContext) destroy() {
	c.mu.Lock()
	c.pixels = nil
	c.mu.Unlock()

	c.streaming.Store(false)

	if c.texture != nil {
		_ = c.texture.Destroy()
		c.texture = nil
	}
}
