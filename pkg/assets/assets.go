package assets

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"pincab-frame/pkg/config"
	"pincab-frame/pkg/tables"
	"pincab-frame/ui"
)

// Player is the slice of video player behaviour the asset manager needs
// from a slot. *video.VideoPlayer satisfies it.
type Player interface {
	Play()
	Stop()
	Update()
	Texture() *sdl.Texture
	IsPlaying() bool
	WaitUntilStopped(interval, max time.Duration) bool
	Close()
}

// PlayerFactory constructs a video player on renderer for path at the
// slot's configured dimensions. An error means the media is absent or
// undecodable; the manager treats that slot as empty.
type PlayerFactory func(renderer *sdl.Renderer, path string, width, height int32) (Player, error)

// Manager owns the full media set for the currently displayed table across
// the two renderer contexts: playfield assets on the primary renderer,
// backglass and DMD assets on the secondary. During a table switch the
// previous video players move into "old" slots until the transition manager
// retires them via ClearOldVideoPlayers.
type Manager struct {
	log zerolog.Logger
	cfg config.Config

	primary   *sdl.Renderer // not owned
	secondary *sdl.Renderer // not owned
	font      *ttf.Font     // not owned

	newPlayer PlayerFactory

	playfieldTex *sdl.Texture
	wheelTex     *sdl.Texture
	backglassTex *sdl.Texture
	dmdTex       *sdl.Texture
	nameTex      *sdl.Texture
	nameRect     sdl.Rect

	playfieldPlayer Player
	backglassPlayer Player
	dmdPlayer       Player

	// Non-nil only while a transition is in flight.
	oldPlayfieldPlayer Player
	oldBackglassPlayer Player
	oldDMDPlayer       Player
}

// NewManager wires an asset manager to the two renderers. font may be nil,
// in which case table names are not rendered.
func NewManager(primary, secondary *sdl.Renderer, font *ttf.Font, cfg config.Config, factory PlayerFactory, log zerolog.Logger) *Manager {
	return &Manager{
		log:       log,
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		font:      font,
		newPlayer: factory,
	}
}

// LoadTableAssets replaces the displayed media set with the assets of
// tableList[index]: static textures, the rendered table name, and up to
// three video players started immediately. Players of the previous table are
// stopped, drained with a bounded poll, and moved into the old slots so the
// transition's frame capture never races a half-stopped decoder. Missing
// media is logged and leaves the slot empty; it is never an error.
func (m *Manager) LoadTableAssets(index int, tableList []tables.Table) error {
	if index < 0 || index >= len(tableList) {
		return fmt.Errorf("table index %d out of range (%d tables)", index, len(tableList))
	}
	t := tableList[index]
	m.log.Debug().Str("table", t.Name).Msg("loading table assets")

	m.destroyStaticTextures()

	m.playfieldTex = m.loadImage(m.primary, t.PlayfieldImage)
	m.wheelTex = m.loadImage(m.primary, t.WheelImage)
	m.backglassTex = m.loadImage(m.secondary, t.BackglassImage)
	m.dmdTex = m.loadImage(m.secondary, t.DMDImage)

	m.renderTableName(t.Name)

	m.oldPlayfieldPlayer = m.retire(m.playfieldPlayer, m.oldPlayfieldPlayer)
	m.playfieldPlayer = nil
	m.oldBackglassPlayer = m.retire(m.backglassPlayer, m.oldBackglassPlayer)
	m.backglassPlayer = nil
	m.oldDMDPlayer = m.retire(m.dmdPlayer, m.oldDMDPlayer)
	m.dmdPlayer = nil

	m.playfieldPlayer = m.startPlayer(m.primary, t.PlayfieldVideo, m.cfg.PlayfieldWidth, m.cfg.PlayfieldHeight)
	m.backglassPlayer = m.startPlayer(m.secondary, t.BackglassVideo, m.cfg.BackglassWidth, m.cfg.BackglassHeight)
	m.dmdPlayer = m.startPlayer(m.secondary, t.DMDVideo, m.cfg.DMDWidth, m.cfg.DMDHeight)

	return nil
}

// retire stops a live player and hands it over for an old slot once its
// decoder has quiesced. A stale occupant of the old slot (a caller switched
// tables without finishing the previous transition) is closed first so it
// cannot leak.
func (m *Manager) retire(current, old Player) Player {
	if old != nil {
		m.log.Warn().Msg("old video player slot still occupied; releasing it")
		old.Close()
	}
	if current == nil {
		return nil
	}
	current.Stop()
	if !current.WaitUntilStopped(m.cfg.StopPollInterval, m.cfg.StopPollMax) {
		m.log.Error().Msg("decoder did not stop within the poll bound; retiring anyway")
	}
	return current
}

// startPlayer builds and starts one video slot. An empty path or a failed
// construction leaves the slot nil, which simply is not drawn.
func (m *Manager) startPlayer(renderer *sdl.Renderer, path string, width, height int32) Player {
	if path == "" {
		return nil
	}
	p, err := m.newPlayer(renderer, path, width, height)
	if err != nil {
		m.log.Info().Str("path", path).Err(err).Msg("video asset unavailable")
		return nil
	}
	p.Play()
	return p
}

// loadImage loads one static texture, treating missing files as intentional
// absence.
func (m *Manager) loadImage(renderer *sdl.Renderer, path string) *sdl.Texture {
	if path == "" {
		return nil
	}
	tex, err := ui.LoadTexture(renderer, path)
	if err != nil {
		m.log.Debug().Str("path", path).Err(err).Msg("image asset unavailable")
		return nil
	}
	return tex
}

// renderTableName renders the display name centered horizontally and pinned
// near the top of the playfield.
func (m *Manager) renderTableName(name string) {
	if m.font == nil || m.primary == nil {
		return
	}
	tex, rect, err := ui.RenderTextTexture(m.primary, m.font, name, sdl.Color{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		m.log.Debug().Str("table", name).Err(err).Msg("table name render failed")
		return
	}
	rect.X = (m.cfg.PlayfieldWidth - rect.W) / 2
	rect.Y = 24
	m.nameTex = tex
	m.nameRect = rect
}

// ClearOldVideoPlayers releases every occupied old slot. No-op when no
// transition is pending; this is the only path that nils the old slots.
func (m *Manager) ClearOldVideoPlayers() {
	for _, slot := range []*Player{&m.oldPlayfieldPlayer, &m.oldBackglassPlayer, &m.oldDMDPlayer} {
		if *slot != nil {
			(*slot).Close()
			*slot = nil
		}
	}
}

// SetDisplayAlpha sets the displayed opacity of every current drawable:
// static textures and video textures alike. Blend mode is enabled on each,
// since freshly created streaming textures default to opaque blending.
func (m *Manager) SetDisplayAlpha(alpha uint8) {
	for _, tex := range []*sdl.Texture{m.playfieldTex, m.wheelTex, m.backglassTex, m.dmdTex, m.nameTex} {
		setTextureAlpha(tex, alpha)
	}
	for _, p := range []Player{m.playfieldPlayer, m.backglassPlayer, m.dmdPlayer} {
		if p != nil {
			setTextureAlpha(p.Texture(), alpha)
		}
	}
}

func setTextureAlpha(tex *sdl.Texture, alpha uint8) {
	if tex == nil {
		return
	}
	_ = tex.SetBlendMode(sdl.BLENDMODE_BLEND)
	_ = tex.SetAlphaMod(alpha)
}

// UpdateVideos pushes the latest decoded frame of each live slot into its
// texture. Called once per render frame.
func (m *Manager) UpdateVideos() {
	for _, p := range []Player{m.playfieldPlayer, m.backglassPlayer, m.dmdPlayer} {
		if p != nil {
			p.Update()
		}
	}
}

// PlayfieldDrawable returns the texture to present on the playfield: the
// live video frame when streaming, else the static image. May be nil.
func (m *Manager) PlayfieldDrawable() *sdl.Texture {
	return drawable(m.playfieldPlayer, m.playfieldTex)
}

// BackglassDrawable returns the backglass texture to present. May be nil.
func (m *Manager) BackglassDrawable() *sdl.Texture {
	return drawable(m.backglassPlayer, m.backglassTex)
}

// DMDDrawable returns the DMD texture to present. May be nil.
func (m *Manager) DMDDrawable() *sdl.Texture {
	return drawable(m.dmdPlayer, m.dmdTex)
}

func drawable(p Player, static *sdl.Texture) *sdl.Texture {
	if p != nil && p.IsPlaying() {
		if tex := p.Texture(); tex != nil {
			return tex
		}
	}
	return static
}

// WheelTexture returns the wheel badge texture, nil when absent.
func (m *Manager) WheelTexture() *sdl.Texture { return m.wheelTex }

// NameTexture returns the rendered table name and its placement.
func (m *Manager) NameTexture() (*sdl.Texture, sdl.Rect) { return m.nameTex, m.nameRect }

// PlayfieldPlayer returns the live playfield video player, nil when absent.
func (m *Manager) PlayfieldPlayer() Player { return m.playfieldPlayer }

// BackglassPlayer returns the live backglass video player, nil when absent.
func (m *Manager) BackglassPlayer() Player { return m.backglassPlayer }

// DMDPlayer returns the live DMD video player, nil when absent.
func (m *Manager) DMDPlayer() Player { return m.dmdPlayer }

// Close releases everything the manager owns, including any old slots still
// pending retirement.
func (m *Manager) Close() {
	m.ClearOldVideoPlayers()
	for _, slot := range []*Player{&m.playfieldPlayer, &m.backglassPlayer, &m.dmdPlayer} {
		if *slot != nil {
			(*slot).Stop()
			(*slot).Close()
			*slot = nil
		}
	}
	m.destroyStaticTextures()
}

func (m *Manager) destroyStaticTextures() {
	for _, tex := range []**sdl.Texture{&m.playfieldTex, &m.wheelTex, &m.backglassTex, &m.dmdTex, &m.nameTex} {
		if *tex != nil {
			_ = (*tex).Destroy()
			*tex = nil
		}
	}
	m.nameRect = sdl.Rect{}
}
