package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestPollFiresOncePerPress(t *testing.T) {
	c := NewCarousel()
	keyState := make([]uint8, sdl.NUM_SCANCODES)

	keyState[sdl.SCANCODE_RSHIFT] = 1
	assert.Equal(t, []Action{ActionNext}, c.Poll(keyState))
	assert.Empty(t, c.Poll(keyState), "a held flipper must not repeat")

	keyState[sdl.SCANCODE_RSHIFT] = 0
	assert.Empty(t, c.Poll(keyState))

	keyState[sdl.SCANCODE_RSHIFT] = 1
	assert.Equal(t, []Action{ActionNext}, c.Poll(keyState), "re-press after release fires again")
}

func TestPollMapsFlipperAndArrowKeys(t *testing.T) {
	c := NewCarousel()
	keyState := make([]uint8, sdl.NUM_SCANCODES)

	keyState[sdl.SCANCODE_LSHIFT] = 1
	keyState[sdl.SCANCODE_RIGHT] = 1
	assert.ElementsMatch(t, []Action{ActionPrev, ActionNext}, c.Poll(keyState))

	keyState[sdl.SCANCODE_LSHIFT] = 0
	keyState[sdl.SCANCODE_RIGHT] = 0
	assert.Empty(t, c.Poll(keyState))
}

func TestPollNilKeyStateReleasesHeldKeys(t *testing.T) {
	c := NewCarousel()
	keyState := make([]uint8, sdl.NUM_SCANCODES)

	keyState[sdl.SCANCODE_LEFT] = 1
	assert.Equal(t, []Action{ActionPrev}, c.Poll(keyState))

	assert.Empty(t, c.Poll(nil))
	assert.Equal(t, []Action{ActionPrev}, c.Poll(keyState),
		"suspending input releases the key; the next press fires again")
}
