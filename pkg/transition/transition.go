package transition

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"
)

// State is the phase of the cross-fade state machine.
type State int

const (
	// Idle means no transition is in flight; content draws at full opacity.
	Idle State = iota
	// FadingOut dims the captured outgoing frames toward the floor alpha.
	FadingOut
	// FadingIn brightens the freshly loaded content back to full opacity.
	FadingIn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case FadingOut:
		return "FADING_OUT"
	case FadingIn:
		return "FADING_IN"
	default:
		return "UNKNOWN"
	}
}

// ContentAssets is the slice of asset manager behaviour the transition
// drives: dimming the live content and retiring the previous table's
// players once the fade has fully completed.
type ContentAssets interface {
	SetDisplayAlpha(alpha uint8)
	ClearOldVideoPlayers()
}

// SoundPlayer plays the table-switch cue. May be nil.
type SoundPlayer interface {
	PlayTransition()
}

// LivePlayer is the view of a video player needed to snapshot its last
// frame and stop it.
type LivePlayer interface {
	Texture() *sdl.Texture
	IsPlaying() bool
	Stop()
}

// CaptureSlot names one display surface to freeze at the start of a fade:
// the renderer it lives on and the player whose last frame gets copied.
type CaptureSlot struct {
	Renderer *sdl.Renderer
	Player   LivePlayer
}

// MaxSlots is the number of display surfaces a transition can capture:
// playfield, backglass, DMD.
const MaxSlots = 3

// Manager runs the IDLE -> FADING_OUT -> FADING_IN -> IDLE cross-fade for a
// table switch. On Start it snapshots the last frame of each playing video
// into a GPU texture and stops the players; the snapshots dim with the
// outgoing content, the new content loads exactly once at the midpoint via
// LoadNewContent — which ends the snapshots' visible life — and the fade-in
// brightens only the new content. Old players are retired at a single point:
// the first Update tick back in Idle.
type Manager struct {
	log    zerolog.Logger
	assets ContentAssets
	sound  SoundPlayer

	duration   time.Duration
	floorAlpha uint8

	state     State
	startTime time.Time
	alpha     uint8

	snapshots [MaxSlots]*sdl.Texture

	loadPending   bool
	maskFrame     bool
	retirePending bool

	now func() time.Time
}

// NewManager builds an idle transition manager. duration is the full fade
// (out plus in); floorAlpha is the dimmest the screen gets at the midpoint,
// where 255 degenerates to a hard cut.
func NewManager(assets ContentAssets, sound SoundPlayer, duration time.Duration, floorAlpha uint8, log zerolog.Logger) *Manager {
	return &Manager{
		log:        log,
		assets:     assets,
		sound:      sound,
		duration:   duration,
		floorAlpha: floorAlpha,
		state:      Idle,
		alpha:      255,
		now:        time.Now,
	}
}

// Start begins a cross-fade, freezing the given display surfaces. Calling
// Start while a transition is active is ignored; the in-flight fade keeps
// its timeline.
func (m *Manager) Start(slots []CaptureSlot) {
	if m.state != Idle {
		m.log.Warn().Stringer("state", m.state).Msg("transition start ignored while active")
		return
	}

	m.destroySnapshots()
	for i, slot := range slots {
		if i >= MaxSlots {
			break
		}
		m.snapshots[i] = m.captureSnapshot(slot)
	}
	// Stop only after every capture: a stopping decoder must never race a
	// pending snapshot copy.
	for _, slot := range slots {
		if slot.Player != nil {
			slot.Player.Stop()
		}
	}

	if m.sound != nil {
		m.sound.PlayTransition()
	}

	m.startTime = m.now()
	m.alpha = 255
	m.loadPending = true
	m.maskFrame = false
	m.retirePending = false
	m.state = FadingOut
	m.log.Debug().Dur("duration", m.duration).Uint8("floor", m.floorAlpha).Msg("transition started")
}

// captureSnapshot copies the player's current frame into a render-target
// texture so the outgoing image survives the player's teardown. Slots with
// no playing video yield nil and simply are not drawn during the fade.
func (m *Manager) captureSnapshot(slot CaptureSlot) *sdl.Texture {
	if slot.Renderer == nil || slot.Player == nil || !slot.Player.IsPlaying() {
		return nil
	}
	src := slot.Player.Texture()
	if src == nil {
		return nil
	}

	format, _, w, h, err := src.Query()
	if err != nil {
		m.log.Error().Err(err).Msg("snapshot source query failed")
		return nil
	}
	snap, err := slot.Renderer.CreateTexture(format, sdl.TEXTUREACCESS_TARGET, w, h)
	if err != nil {
		m.log.Error().Err(err).Msg("snapshot texture creation failed")
		return nil
	}

	prev := slot.Renderer.GetRenderTarget()
	if err := slot.Renderer.SetRenderTarget(snap); err != nil {
		m.log.Error().Err(err).Msg("snapshot render target switch failed")
		_ = snap.Destroy()
		return nil
	}
	copyErr := slot.Renderer.Copy(src, nil, nil)
	_ = slot.Renderer.SetRenderTarget(prev)
	if copyErr != nil {
		m.log.Error().Err(copyErr).Msg("snapshot copy failed")
		_ = snap.Destroy()
		return nil
	}

	_ = snap.SetBlendMode(sdl.BLENDMODE_BLEND)
	return snap
}

// Update advances the fade by wall-clock time. Call once per render frame,
// in every state: the Idle tick after a fade completes is where the previous
// table's players are finally released.
func (m *Manager) Update() {
	switch m.state {
	case Idle:
		if m.retirePending {
			m.retirePending = false
			m.assets.ClearOldVideoPlayers()
			m.destroySnapshots()
		}
		// A load callback that never ran must not leave a stale mask.
		m.maskFrame = false

	case FadingOut:
		half := m.duration / 2
		elapsed := m.now().Sub(m.startTime)
		if elapsed >= half {
			m.alpha = m.floorAlpha
			m.maskFrame = true
			m.state = FadingIn
		} else {
			m.alpha = fadeAlpha(255, m.floorAlpha, elapsed, half)
		}
		m.applyAlpha()

	case FadingIn:
		half := m.duration / 2
		elapsed := m.now().Sub(m.startTime) - half
		if elapsed >= half {
			m.alpha = 255
			m.maskFrame = false
			m.state = Idle
			m.retirePending = true
			m.log.Debug().Msg("transition finished")
		} else {
			m.alpha = fadeAlpha(m.floorAlpha, 255, elapsed, half)
		}
		m.applyAlpha()
	}
}

// LoadNewContent runs the load callback exactly once per transition, at the
// midpoint, while the screen sits at the floor alpha. The mask frame hides
// the single frame on which the swap happens; it lifts as soon as load
// returns. The swap is the end of the snapshots' visible life: they are
// destroyed here so the fade-in never brightens the outgoing frames over the
// new content, and the freshly loaded textures are pinned to the current
// alpha so they enter the fade-in at the floor instead of popping opaque.
func (m *Manager) LoadNewContent(load func()) {
	if m.state != FadingIn || !m.loadPending {
		return
	}
	m.loadPending = false
	if load != nil {
		load()
	}
	m.destroySnapshots()
	m.assets.SetDisplayAlpha(m.alpha)
	m.maskFrame = false
}

// applyAlpha dims the current content on every fading tick. Snapshots only
// track the ramp while fading out; once the midpoint swap has happened the
// fade-in belongs to the new content alone.
func (m *Manager) applyAlpha() {
	if m.state == FadingOut {
		for _, snap := range m.snapshots {
			if snap != nil {
				_ = snap.SetAlphaMod(m.alpha)
			}
		}
	}
	m.assets.SetDisplayAlpha(m.alpha)
}

// fadeAlpha interpolates linearly between from and to over total, clamped.
func fadeAlpha(from, to uint8, elapsed, total time.Duration) uint8 {
	if total <= 0 || elapsed >= total {
		return to
	}
	if elapsed < 0 {
		return from
	}
	t := float64(elapsed) / float64(total)
	return uint8(float64(from) + (float64(to)-float64(from))*t)
}

// State returns the current fade phase.
func (m *Manager) State() State { return m.state }

// Alpha returns the opacity currently applied to the display.
func (m *Manager) Alpha() uint8 { return m.alpha }

// IsActive reports whether a fade is in flight.
func (m *Manager) IsActive() bool { return m.state != Idle }

// MaskFrameActive reports whether the current frame should be blanked to
// hide the content swap.
func (m *Manager) MaskFrameActive() bool { return m.maskFrame }

// Snapshot returns the frozen outgoing frame for slot i, nil when that slot
// had nothing to capture or once the content swap has passed.
func (m *Manager) Snapshot(i int) *sdl.Texture {
	if i < 0 || i >= MaxSlots {
		return nil
	}
	return m.snapshots[i]
}

// Close releases any remaining snapshots.
func (m *Manager) Close() {
	m.destroySnapshots()
}

func (m *Manager) destroySnapshots() {
	for i, snap := range m.snapshots {
		if snap != nil {
			_ = snap.Destroy()
			m.snapshots[i] = nil
		}
	}
}
