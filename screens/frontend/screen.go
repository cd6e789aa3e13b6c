package frontend

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"

	"pincab-frame/pkg/assets"
	"pincab-frame/pkg/config"
	"pincab-frame/pkg/input"
	"pincab-frame/pkg/tables"
	"pincab-frame/pkg/transition"
	"pincab-frame/ui"
)

// NewScreen builds the carousel and loads the first table's media.
func NewScreen(primary, secondary *sdl.Renderer, tableList []tables.Table, assetMgr *assets.Manager, trans *transition.Manager, cfg config.Config, log zerolog.Logger) (*Screen, error) {
	if len(tableList) == 0 {
		return nil, errors.New("no tables found; nothing to display")
	}

	s := &Screen{
		log:       log,
		cfg:       cfg,
		tables:    tableList,
		assets:    assetMgr,
		trans:     trans,
		primary:   primary,
		secondary: secondary,
		keys:      input.NewCarousel(),
	}
	if err := s.assets.LoadTableAssets(0, s.tables); err != nil {
		return nil, err
	}
	return s, nil
}

// Update advances one frame: decode uploads, input, and the transition state
// machine. keyState is the slice from sdl.GetKeyboardState; nil suppresses
// input for this frame.
func (s *Screen) Update(keyState []uint8) error {
	s.assets.UpdateVideos()
	s.handleInput(keyState)

	s.trans.Update()
	s.trans.LoadNewContent(s.applyPendingTable)

	return s.err
}

// handleInput feeds the keyboard state through the carousel bindings.
func (s *Screen) handleInput(keyState []uint8) {
	for _, action := range s.keys.Poll(keyState) {
		switch action {
		case input.ActionNext:
			s.requestSwitch(1)
		case input.ActionPrev:
			s.requestSwitch(-1)
		}
	}
}

// requestSwitch starts a cross-fade to the table delta steps away, wrapping
// at both ends. Presses during an active fade are dropped.
func (s *Screen) requestSwitch(delta int) {
	if s.trans.IsActive() {
		s.log.Debug().Msg("navigation ignored during transition")
		return
	}

	n := len(s.tables)
	s.pending = ((s.current+delta)%n + n) % n
	if s.pending == s.current {
		return
	}
	s.log.Info().Str("from", s.tables[s.current].Name).Str("to", s.tables[s.pending].Name).Msg("switching table")

	s.trans.Start([]transition.CaptureSlot{
		slotPlayfield: {Renderer: s.primary, Player: s.assets.PlayfieldPlayer()},
		slotBackglass: {Renderer: s.secondary, Player: s.assets.BackglassPlayer()},
		slotDMD:       {Renderer: s.secondary, Player: s.assets.DMDPlayer()},
	})
}

// applyPendingTable is the transition midpoint callback: the screen sits at
// the floor alpha and the swap happens under the mask frame.
func (s *Screen) applyPendingTable() {
	if err := s.assets.LoadTableAssets(s.pending, s.tables); err != nil {
		s.err = err
		return
	}
	s.current = s.pending
}

// DrawPrimary renders the playfield window. During the mask frame nothing
// but the clear color is presented.
func (s *Screen) DrawPrimary(renderer *sdl.Renderer, screenWidth, screenHeight int32) error {
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.Clear()
	if s.trans.MaskFrameActive() {
		return nil
	}

	if tex := s.assets.PlayfieldDrawable(); tex != nil {
		if err := renderer.Copy(tex, nil, nil); err != nil {
			return err
		}
	} else {
		ui.DrawVerticalGradient(renderer, 0, 0, screenWidth, screenHeight,
			sdl.Color{R: 24, G: 24, B: 48}, sdl.Color{R: 8, G: 8, B: 16})
	}

	if snap := s.trans.Snapshot(slotPlayfield); snap != nil {
		if err := renderer.Copy(snap, nil, nil); err != nil {
			return err
		}
	}

	if wheel := s.assets.WheelTexture(); wheel != nil {
		size := screenWidth / 5
		dst := sdl.Rect{X: (screenWidth - size) / 2, Y: screenHeight - size - 40, W: size, H: size}
		if err := renderer.Copy(wheel, nil, &dst); err != nil {
			return err
		}
	}
	if nameTex, nameRect := s.assets.NameTexture(); nameTex != nil {
		if err := renderer.Copy(nameTex, nil, &nameRect); err != nil {
			return err
		}
	}
	return nil
}

// DrawSecondary renders the backglass window with the DMD strip along the
// bottom.
func (s *Screen) DrawSecondary(renderer *sdl.Renderer, screenWidth, screenHeight int32) error {
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.Clear()
	if s.trans.MaskFrameActive() {
		return nil
	}

	dmdHeight := screenHeight / 5
	backglassDst := sdl.Rect{X: 0, Y: 0, W: screenWidth, H: screenHeight - dmdHeight}
	dmdDst := sdl.Rect{X: 0, Y: screenHeight - dmdHeight, W: screenWidth, H: dmdHeight}

	if tex := s.assets.BackglassDrawable(); tex != nil {
		if err := renderer.Copy(tex, nil, &backglassDst); err != nil {
			return err
		}
	}
	if snap := s.trans.Snapshot(slotBackglass); snap != nil {
		if err := renderer.Copy(snap, nil, &backglassDst); err != nil {
			return err
		}
	}

	if tex := s.assets.DMDDrawable(); tex != nil {
		if err := renderer.Copy(tex, nil, &dmdDst); err != nil {
			return err
		}
	}
	if snap := s.trans.Snapshot(slotDMD); snap != nil {
		if err := renderer.Copy(snap, nil, &dmdDst); err != nil {
			return err
		}
	}
	return nil
}

// CurrentTable returns the selected table.
func (s *Screen) CurrentTable() tables.Table {
	return s.tables[s.current]
}

// CurrentIndex returns the selected table's position in the scanned list.
func (s *Screen) CurrentIndex() int {
	return s.current
}
