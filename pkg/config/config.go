package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the frontend's runtime configuration. Values come from the
// environment (main loads .env via godotenv before calling Load); anything
// missing or malformed falls back to a default so the frontend can always
// start.
type Config struct {
	TablesDir string
	MediaDir  string

	PlayfieldWidth  int32
	PlayfieldHeight int32
	BackglassWidth  int32
	BackglassHeight int32
	DMDWidth        int32
	DMDHeight       int32

	// Cross-fade settings for table switches. A floor alpha of 255
	// degenerates to a hard cut, which stays a valid configuration.
	FadeDuration   time.Duration
	FadeFloorAlpha uint8

	// Bounds for the decoder-stop poll during the current→old handoff.
	StopPollInterval time.Duration
	StopPollMax      time.Duration

	FontPath string
	FontSize int

	// Optional S3 bucket holding table media; empty disables media sync.
	MediaBucket string

	// Optional sound effect fired when a transition starts.
	TransitionSound string
}

var defaults = Config{
	TablesDir: "tables",
	MediaDir:  "media",

	PlayfieldWidth:  1080,
	PlayfieldHeight: 1920,
	BackglassWidth:  1024,
	BackglassHeight: 768,
	DMDWidth:        1024,
	DMDHeight:       256,

	FadeDuration:   400 * time.Millisecond,
	FadeFloorAlpha: 128,

	StopPollInterval: 5 * time.Millisecond,
	StopPollMax:      500 * time.Millisecond,

	FontSize: 36,
}

// Load builds a Config from the environment with defaults for anything
// unset. It never fails; a broken value is simply ignored.
func Load() Config {
	c := defaults

	c.TablesDir = envStr("PINCAB_TABLES_DIR", c.TablesDir)
	c.MediaDir = envStr("PINCAB_MEDIA_DIR", c.MediaDir)

	c.PlayfieldWidth = envInt32("PINCAB_PLAYFIELD_WIDTH", c.PlayfieldWidth)
	c.PlayfieldHeight = envInt32("PINCAB_PLAYFIELD_HEIGHT", c.PlayfieldHeight)
	c.BackglassWidth = envInt32("PINCAB_BACKGLASS_WIDTH", c.BackglassWidth)
	c.BackglassHeight = envInt32("PINCAB_BACKGLASS_HEIGHT", c.BackglassHeight)
	c.DMDWidth = envInt32("PINCAB_DMD_WIDTH", c.DMDWidth)
	c.DMDHeight = envInt32("PINCAB_DMD_HEIGHT", c.DMDHeight)

	c.FadeDuration = envMillis("PINCAB_FADE_DURATION_MS", c.FadeDuration)
	c.FadeFloorAlpha = envAlpha("PINCAB_FADE_FLOOR_ALPHA", c.FadeFloorAlpha)

	c.StopPollInterval = envMillis("PINCAB_STOP_POLL_INTERVAL_MS", c.StopPollInterval)
	c.StopPollMax = envMillis("PINCAB_STOP_POLL_MAX_MS", c.StopPollMax)

	c.FontPath = envStr("PINCAB_FONT_PATH", c.FontPath)
	c.FontSize = int(envInt32("PINCAB_FONT_SIZE", int32(c.FontSize)))

	c.MediaBucket = envStr("PINCAB_MEDIA_BUCKET", c.MediaBucket)
	c.TransitionSound = envStr("PINCAB_TRANSITION_SOUND", c.TransitionSound)

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt32(key string, def int32) int32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		return def
	}
	return int32(n)
}

func envMillis(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}

func envAlpha(key string, def uint8) uint8 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return def
	}
	return uint8(n)
}
