package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/ttf"
)

// fallbackFontPaths are tried when no font is configured or the configured
// one fails to open.
var fallbackFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// LoadFont initializes TTF and opens the configured font at the given size,
// falling back to common system fonts when it is unavailable.
func LoadFont(configured string, size int) (*ttf.Font, error) {
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize TTF: %v", err)
	}

	paths := fallbackFontPaths
	if configured != "" {
		paths = append([]string{configured}, fallbackFontPaths...)
	}

	var err error
	for _, path := range paths {
		var font *ttf.Font
		font, err = ttf.OpenFont(path, size)
		if err == nil {
			return font, nil
		}
	}
	return nil, fmt.Errorf("no usable font found: %v", err)
}
