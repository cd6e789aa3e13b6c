package transition

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

// newDummyRenderer brings SDL up on the dummy video driver with a software
// renderer so snapshot capture runs without a display. Skips when SDL cannot
// initialize on the host.
func newDummyRenderer(t *testing.T) *sdl.Renderer {
	t.Helper()
	runtime.LockOSThread()

	os.Setenv("SDL_VIDEODRIVER", "dummy")
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		t.Skipf("SDL unavailable: %v", err)
	}
	t.Cleanup(sdl.Quit)

	window, err := sdl.CreateWindow("transition-test", 0, 0, 64, 64, sdl.WINDOW_HIDDEN)
	if err != nil {
		t.Skipf("window unavailable: %v", err)
	}
	t.Cleanup(func() { window.Destroy() })

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		t.Skipf("software renderer unavailable: %v", err)
	}
	t.Cleanup(func() { renderer.Destroy() })
	return renderer
}

type texturePlayer struct {
	tex     *sdl.Texture
	playing bool
	stopped bool
}

func (p *texturePlayer) Texture() *sdl.Texture { return p.tex }
func (p *texturePlayer) IsPlaying() bool       { return p.playing }
func (p *texturePlayer) Stop()                 { p.playing = false; p.stopped = true }

func TestSnapshotLifecycleAcrossFade(t *testing.T) {
	renderer := newDummyRenderer(t)

	src, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_TARGET, 8, 8)
	require.NoError(t, err)
	defer src.Destroy()

	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 128)
	player := &texturePlayer{tex: src, playing: true}

	m.Start([]CaptureSlot{{Renderer: renderer, Player: player}})
	require.NotNil(t, m.Snapshot(0), "a playing texture must be captured")
	assert.True(t, player.stopped, "the captured player stops once its frame is frozen")

	// Mid fade-out the snapshot dims with the content.
	clock.advance(100 * time.Millisecond)
	m.Update()
	snapAlpha, err := m.Snapshot(0).GetAlphaMod()
	require.NoError(t, err)
	assert.Equal(t, m.Alpha(), snapAlpha)

	clock.advance(100 * time.Millisecond)
	m.Update()
	require.Equal(t, FadingIn, m.State())
	require.NotNil(t, m.Snapshot(0), "the snapshot covers the screen until the swap")

	// The swap ends the snapshot's life; the fade-in brightens only the new
	// content.
	m.LoadNewContent(func() {})
	assert.Nil(t, m.Snapshot(0), "snapshot must not survive the content swap")
	assert.EqualValues(t, 128, assets.lastAlpha(t), "new content enters the fade-in at the floor")

	clock.advance(200 * time.Millisecond)
	m.Update()
	require.Equal(t, Idle, m.State())
	m.Update() // idle retirement tick
	assert.Nil(t, m.Snapshot(0))
	assert.Equal(t, 1, assets.clearCalls)
}

func TestSnapshotsDestroyedAtIdleWhenLoadNeverRan(t *testing.T) {
	renderer := newDummyRenderer(t)

	src, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_TARGET, 8, 8)
	require.NoError(t, err)
	defer src.Destroy()

	m, _, _, clock := newTestManager(t, 400*time.Millisecond, 128)
	m.Start([]CaptureSlot{{Renderer: renderer, Player: &texturePlayer{tex: src, playing: true}}})
	require.NotNil(t, m.Snapshot(0))

	// Run the whole fade without LoadNewContent ever being called.
	clock.advance(400 * time.Millisecond)
	m.Update()
	m.Update()
	require.Equal(t, Idle, m.State())
	m.Update() // idle retirement tick
	assert.Nil(t, m.Snapshot(0), "idle retirement must release snapshots even without a swap")
}

func TestCaptureSkipsStoppedPlayers(t *testing.T) {
	renderer := newDummyRenderer(t)

	src, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_TARGET, 8, 8)
	require.NoError(t, err)
	defer src.Destroy()

	m, _, _, _ := newTestManager(t, 400*time.Millisecond, 128)
	m.Start([]CaptureSlot{{Renderer: renderer, Player: &texturePlayer{tex: src, playing: false}}})

	assert.Nil(t, m.Snapshot(0), "a slot with no playing video has nothing to freeze")
}
