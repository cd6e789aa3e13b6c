package ui

import (
	"os"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

// LoadTexture loads an image file into a texture on renderer. A missing or
// unreadable file returns an error; callers treat that as an absent asset,
// never as fatal.
func LoadTexture(renderer *sdl.Renderer, path string) (*sdl.Texture, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return img.LoadTexture(renderer, path)
}
