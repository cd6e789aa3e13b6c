package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()

	assert.Equal(t, "tables", c.TablesDir)
	assert.Equal(t, "media", c.MediaDir)
	assert.Equal(t, 400*time.Millisecond, c.FadeDuration)
	assert.EqualValues(t, 128, c.FadeFloorAlpha)
	assert.Equal(t, 500*time.Millisecond, c.StopPollMax)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PINCAB_TABLES_DIR", "/cab/tables")
	t.Setenv("PINCAB_FADE_DURATION_MS", "750")
	t.Setenv("PINCAB_FADE_FLOOR_ALPHA", "255")
	t.Setenv("PINCAB_PLAYFIELD_WIDTH", "3840")

	c := Load()

	assert.Equal(t, "/cab/tables", c.TablesDir)
	assert.Equal(t, 750*time.Millisecond, c.FadeDuration)
	assert.EqualValues(t, 255, c.FadeFloorAlpha, "hard-cut floor must stay valid")
	assert.EqualValues(t, 3840, c.PlayfieldWidth)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PINCAB_FADE_DURATION_MS", "soon")
	t.Setenv("PINCAB_PLAYFIELD_WIDTH", "-20")

	c := Load()

	assert.Equal(t, defaults.FadeDuration, c.FadeDuration)
	assert.Equal(t, defaults.PlayfieldWidth, c.PlayfieldWidth)
}
