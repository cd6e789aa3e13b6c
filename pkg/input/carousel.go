package input

import "github.com/veandco/go-sdl2/sdl"

// Action is a navigation command produced by the cabinet's buttons.
type Action int

const (
	// ActionPrev selects the previous table.
	ActionPrev Action = iota
	// ActionNext selects the next table.
	ActionNext
)

type binding struct {
	scancode sdl.Scancode
	action   Action
}

// Carousel turns SDL's level-triggered keyboard state into edge-triggered
// navigation actions, so a held flipper button moves exactly one table per
// press. Flipper buttons arrive as the shift keys on cabinet keyboard
// encoders; the arrow keys are the desktop equivalents.
type Carousel struct {
	bindings []binding
	held     map[sdl.Scancode]bool
}

// NewCarousel creates a carousel with the default cabinet bindings.
func NewCarousel() *Carousel {
	return &Carousel{
		bindings: []binding{
			{sdl.SCANCODE_LSHIFT, ActionPrev},
			{sdl.SCANCODE_LEFT, ActionPrev},
			{sdl.SCANCODE_RSHIFT, ActionNext},
			{sdl.SCANCODE_RIGHT, ActionNext},
		},
		held: make(map[sdl.Scancode]bool),
	}
}

// Poll returns the actions newly pressed on this frame, in binding order.
// keyState is the slice from sdl.GetKeyboardState; nil marks every key as
// released so input can be suspended without sticking a press.
func (c *Carousel) Poll(keyState []uint8) []Action {
	if keyState == nil {
		for k := range c.held {
			c.held[k] = false
		}
		return nil
	}

	var actions []Action
	for _, b := range c.bindings {
		down := keyState[b.scancode] != 0
		if down && !c.held[b.scancode] {
			actions = append(actions, b.action)
		}
		c.held[b.scancode] = down
	}
	return actions
}
