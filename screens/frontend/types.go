package frontend

import (
	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"

	"pincab-frame/pkg/assets"
	"pincab-frame/pkg/config"
	"pincab-frame/pkg/input"
	"pincab-frame/pkg/tables"
	"pincab-frame/pkg/transition"
)

// Screen is the table carousel: it owns which table is selected, turns
// flipper presses into cross-faded table switches, and draws the playfield
// on the primary renderer and the backglass plus DMD on the secondary.
type Screen struct {
	log zerolog.Logger
	cfg config.Config

	tables  []tables.Table
	current int
	pending int // target index while a switch is in flight, else == current

	assets *assets.Manager
	trans  *transition.Manager

	primary   *sdl.Renderer // not owned
	secondary *sdl.Renderer // not owned

	keys *input.Carousel

	err error
}

// Slot order used for transition capture and snapshot drawing.
const (
	slotPlayfield = iota
	slotBackglass
	slotDMD
)
