package transition

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

type fakeAssets struct {
	alphas     []uint8
	clearCalls int
}

func (f *fakeAssets) SetDisplayAlpha(alpha uint8) { f.alphas = append(f.alphas, alpha) }
func (f *fakeAssets) ClearOldVideoPlayers()       { f.clearCalls++ }

func (f *fakeAssets) lastAlpha(t *testing.T) uint8 {
	t.Helper()
	require.NotEmpty(t, f.alphas)
	return f.alphas[len(f.alphas)-1]
}

type fakeSound struct{ plays int }

func (f *fakeSound) PlayTransition() { f.plays++ }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, duration time.Duration, floor uint8) (*Manager, *fakeAssets, *fakeSound, *fakeClock) {
	t.Helper()
	assets := &fakeAssets{}
	sound := &fakeSound{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewManager(assets, sound, duration, floor, zerolog.Nop())
	m.now = clock.now
	return m, assets, sound, clock
}

func TestInitialStateIsIdleAtFullOpacity(t *testing.T) {
	m, _, _, _ := newTestManager(t, 400*time.Millisecond, 128)
	assert.Equal(t, Idle, m.State())
	assert.EqualValues(t, 255, m.Alpha())
	assert.False(t, m.IsActive())
	assert.False(t, m.MaskFrameActive())
}

func TestStartEntersFadingOutAndPlaysSound(t *testing.T) {
	m, _, sound, _ := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)

	assert.Equal(t, FadingOut, m.State())
	assert.True(t, m.IsActive())
	assert.Equal(t, 1, sound.plays)
}

func TestStartWhileActiveIsIgnored(t *testing.T) {
	m, _, sound, clock := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)
	start := m.startTime

	clock.advance(50 * time.Millisecond)
	m.Start(nil)

	assert.Equal(t, start, m.startTime, "a second Start must not restart the timeline")
	assert.Equal(t, 1, sound.plays)
}

func TestFadeOutInterpolatesTowardFloor(t *testing.T) {
	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 55)

	m.Start(nil)
	clock.advance(100 * time.Millisecond) // half of the out-phase
	m.Update()

	assert.Equal(t, FadingOut, m.State())
	got := assets.lastAlpha(t)
	assert.InDelta(t, 155, int(got), 2, "midway through fade-out alpha should sit between 255 and 55")
	assert.Less(t, got, uint8(255))
	assert.Greater(t, got, uint8(55))
}

func TestMidpointPinsFloorAndArmsMaskFrame(t *testing.T) {
	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)
	clock.advance(200 * time.Millisecond)
	m.Update()

	assert.Equal(t, FadingIn, m.State())
	assert.EqualValues(t, 128, m.Alpha())
	assert.EqualValues(t, 128, assets.lastAlpha(t))
	assert.True(t, m.MaskFrameActive())
}

func TestLoadNewContentRunsExactlyOnceAtMidpoint(t *testing.T) {
	m, _, _, clock := newTestManager(t, 400*time.Millisecond, 128)

	loads := 0
	load := func() { loads++ }

	// Before the midpoint the callback must not run.
	m.Start(nil)
	m.LoadNewContent(load)
	clock.advance(100 * time.Millisecond)
	m.Update()
	m.LoadNewContent(load)
	assert.Zero(t, loads)

	clock.advance(100 * time.Millisecond)
	m.Update()
	require.Equal(t, FadingIn, m.State())

	m.LoadNewContent(load)
	assert.Equal(t, 1, loads)
	assert.False(t, m.MaskFrameActive(), "mask frame lifts once the load callback returns")

	m.LoadNewContent(load)
	assert.Equal(t, 1, loads, "load callback must not run twice in one transition")
}

func TestLoadNewContentAppliesFloorAlphaToNewContent(t *testing.T) {
	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)
	clock.advance(200 * time.Millisecond)
	m.Update()
	require.Equal(t, FadingIn, m.State())

	assets.alphas = nil
	m.LoadNewContent(func() {})

	assert.EqualValues(t, 128, assets.lastAlpha(t),
		"freshly loaded textures must enter the fade-in at the floor, not at full opacity")
}

func TestLoadNewContentOutsideFadeIsNoOp(t *testing.T) {
	m, _, _, _ := newTestManager(t, 400*time.Millisecond, 128)

	loads := 0
	m.LoadNewContent(func() { loads++ })
	assert.Zero(t, loads)
}

func TestFadeInReturnsToIdleAtFullOpacity(t *testing.T) {
	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)
	clock.advance(200 * time.Millisecond)
	m.Update()
	m.LoadNewContent(func() {})

	clock.advance(100 * time.Millisecond)
	m.Update()
	assert.Equal(t, FadingIn, m.State())
	got := assets.lastAlpha(t)
	assert.Greater(t, got, uint8(128))
	assert.Less(t, got, uint8(255))

	clock.advance(100 * time.Millisecond)
	m.Update()
	assert.Equal(t, Idle, m.State())
	assert.EqualValues(t, 255, m.Alpha())
	assert.EqualValues(t, 255, assets.lastAlpha(t))
	assert.False(t, m.MaskFrameActive())
}

func TestRetirementHappensOnFirstIdleTickOnly(t *testing.T) {
	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)
	clock.advance(200 * time.Millisecond)
	m.Update()
	m.LoadNewContent(func() {})
	clock.advance(200 * time.Millisecond)
	m.Update()
	require.Equal(t, Idle, m.State())
	assert.Zero(t, assets.clearCalls, "retirement waits for the Idle tick")

	m.Update()
	assert.Equal(t, 1, assets.clearCalls)

	m.Update()
	m.Update()
	assert.Equal(t, 1, assets.clearCalls, "retirement runs once per transition")
}

func TestIdleUpdateWithoutTransitionDoesNotRetire(t *testing.T) {
	m, assets, _, _ := newTestManager(t, 400*time.Millisecond, 128)

	m.Update()
	m.Update()
	assert.Zero(t, assets.clearCalls)
	assert.Empty(t, assets.alphas, "idle updates must not touch display alpha")
}

func TestFloorAlpha255IsAHardCut(t *testing.T) {
	m, assets, _, clock := newTestManager(t, 400*time.Millisecond, 255)

	m.Start(nil)
	clock.advance(100 * time.Millisecond)
	m.Update()
	assert.EqualValues(t, 255, assets.lastAlpha(t), "with floor 255 the screen never dims")

	clock.advance(100 * time.Millisecond)
	m.Update()
	assert.Equal(t, FadingIn, m.State())
	assert.EqualValues(t, 255, m.Alpha())
}

func TestMaskFrameClearsEvenIfLoadNeverRuns(t *testing.T) {
	m, _, _, clock := newTestManager(t, 400*time.Millisecond, 128)

	m.Start(nil)
	clock.advance(200 * time.Millisecond)
	m.Update()
	require.True(t, m.MaskFrameActive())

	clock.advance(200 * time.Millisecond)
	m.Update() // back to Idle without LoadNewContent ever being called
	m.Update()
	assert.False(t, m.MaskFrameActive())
}

func TestZeroDurationTransitionCompletesImmediately(t *testing.T) {
	m, _, _, _ := newTestManager(t, 0, 128)

	m.Start(nil)
	m.Update() // out-phase elapses instantly
	assert.Equal(t, FadingIn, m.State())
	m.LoadNewContent(func() {})
	m.Update()
	assert.Equal(t, Idle, m.State())
	assert.EqualValues(t, 255, m.Alpha())
}

func TestSnapshotOutOfRangeIsNil(t *testing.T) {
	m, _, _, _ := newTestManager(t, 400*time.Millisecond, 128)
	assert.Nil(t, m.Snapshot(-1))
	assert.Nil(t, m.Snapshot(MaxSlots))
	assert.Nil(t, m.Snapshot(0))
}

func TestStartStopsCapturedPlayers(t *testing.T) {
	m, _, _, _ := newTestManager(t, 400*time.Millisecond, 128)

	p := &stubLivePlayer{playing: true}
	// No renderer means nothing to snapshot, but the player must still stop.
	m.Start([]CaptureSlot{{Player: p}})

	assert.True(t, p.stopped)
	assert.Nil(t, m.Snapshot(0))
}

type stubLivePlayer struct {
	playing bool
	stopped bool
}

func (s *stubLivePlayer) Texture() *sdl.Texture { return nil }
func (s *stubLivePlayer) IsPlaying() bool       { return s.playing }
func (s *stubLivePlayer) Stop()                 { s.playing = false; s.stopped = true }
