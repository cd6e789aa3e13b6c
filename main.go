package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"pincab-frame/pkg/assets"
	"pincab-frame/pkg/config"
	"pincab-frame/pkg/mediasync"
	"pincab-frame/pkg/sound"
	"pincab-frame/pkg/tables"
	"pincab-frame/pkg/transition"
	"pincab-frame/pkg/video"
	"pincab-frame/screens/frontend"
	"pincab-frame/ui"
)

const targetFPS = 60

func main() {
	// SDL and the decoder's texture uploads must stay on the main thread.
	runtime.LockOSThread()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not found")
	}
	cfg := config.Load()

	if _, err := mediasync.FetchMissing(cfg.MediaBucket, cfg.MediaDir, log); err != nil {
		log.Warn().Err(err).Msg("media sync failed; continuing with local media")
	}

	tableList, err := tables.Scan(cfg.TablesDir, cfg.MediaDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to scan tables")
	}

	if err := initializeSDL(log); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SDL")
	}
	defer sdl.Quit()

	if err := img.Init(img.INIT_PNG | img.INIT_JPG); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image loading")
	}
	defer img.Quit()

	playfieldWin, playfieldRen, err := createDisplay("Playfield", 0, cfg.PlayfieldWidth, cfg.PlayfieldHeight, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create playfield display")
	}
	defer playfieldWin.Destroy()
	defer playfieldRen.Destroy()

	backglassWin, backglassRen, err := createDisplay("Backglass", 1, cfg.BackglassWidth, cfg.BackglassHeight+cfg.DMDHeight, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create backglass display")
	}
	defer backglassWin.Destroy()
	defer backglassRen.Destroy()

	font, err := ui.LoadFont(cfg.FontPath, cfg.FontSize)
	if err != nil {
		log.Warn().Err(err).Msg("no font available; table names disabled")
	}

	sounds := sound.NewPlayer(cfg.TransitionSound, log)
	defer sounds.Close()

	factory := func(renderer *sdl.Renderer, path string, width, height int32) (assets.Player, error) {
		return video.NewPlayer(renderer, path, width, height, log)
	}
	assetMgr := assets.NewManager(playfieldRen, backglassRen, font, cfg, factory, log)
	defer assetMgr.Close()

	trans := transition.NewManager(assetMgr, sounds, cfg.FadeDuration, cfg.FadeFloorAlpha, log)
	defer trans.Close()

	screen, err := frontend.NewScreen(playfieldRen, backglassRen, tableList, assetMgr, trans, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create frontend")
	}

	log.Info().Int("tables", len(tableList)).Msg("frontend started")
	runLoop(screen, playfieldRen, backglassRen, cfg, log)
	log.Info().Msg("shutting down")
}

// initializeSDL tries video drivers in order of preference until one comes
// up, honoring an explicit SDL_VIDEODRIVER first.
func initializeSDL(log zerolog.Logger) error {
	drivers := []string{"kmsdrm", "drm", "wayland", "x11", "software", "dummy"}
	if env := os.Getenv("SDL_VIDEODRIVER"); env != "" {
		drivers = append([]string{env}, drivers...)
	}

	for _, driver := range drivers {
		os.Setenv("SDL_VIDEODRIVER", driver)
		sdl.Quit()

		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			log.Debug().Str("driver", driver).Err(err).Msg("video driver failed")
			continue
		}
		name, _ := sdl.GetCurrentVideoDriver()
		log.Info().Str("driver", name).Msg("SDL initialized")

		if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			log.Warn().Err(err).Msg("audio subsystem unavailable")
		}
		return nil
	}
	return fmt.Errorf("all SDL video drivers failed")
}

// createDisplay creates one window and its renderer, preferring hardware
// acceleration and falling back to the software renderer.
func createDisplay(title string, displayIndex int, width, height int32, log zerolog.Logger) (*sdl.Window, *sdl.Renderer, error) {
	x := sdl.WINDOWPOS_CENTERED_MASK | int32(displayIndex)
	window, err := sdl.CreateWindow(title, x, x, width, height, sdl.WINDOW_SHOWN|sdl.WINDOW_BORDERLESS)
	if err != nil {
		return nil, nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		log.Warn().Str("display", title).Err(err).Msg("hardware renderer failed, using software")
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE|sdl.RENDERER_TARGETTEXTURE)
		if err != nil {
			window.Destroy()
			return nil, nil, err
		}
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return window, renderer, nil
}

// runLoop drives the frontend at the target frame rate until quit or Escape.
func runLoop(screen *frontend.Screen, playfieldRen, backglassRen *sdl.Renderer, cfg config.Config, log zerolog.Logger) {
	frameTime := time.Second / targetFPS
	running := true

	for running {
		frameStart := time.Now()

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					running = false
				}
			}
		}

		if err := screen.Update(sdl.GetKeyboardState()); err != nil {
			log.Error().Err(err).Msg("frontend update failed")
			break
		}

		if err := screen.DrawPrimary(playfieldRen, cfg.PlayfieldWidth, cfg.PlayfieldHeight); err != nil {
			log.Error().Err(err).Msg("playfield draw failed")
			break
		}
		playfieldRen.Present()

		if err := screen.DrawSecondary(backglassRen, cfg.BackglassWidth, cfg.BackglassHeight+cfg.DMDHeight); err != nil {
			log.Error().Err(err).Msg("backglass draw failed")
			break
		}
		backglassRen.Present()

		if elapsed := time.Since(frameStart); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
}
