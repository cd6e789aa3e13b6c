package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

// RenderTextTexture renders text into a new texture owned by the caller and
// returns it with its bounds at origin. Callers treat a nil texture as an
// absent asset.
func RenderTextTexture(renderer *sdl.Renderer, font *ttf.Font, text string, color sdl.Color) (*sdl.Texture, sdl.Rect, error) {
	if font == nil {
		return nil, sdl.Rect{}, fmt.Errorf("font not available")
	}

	surface, err := font.RenderUTF8Blended(text, color)
	if err != nil {
		return nil, sdl.Rect{}, err
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, sdl.Rect{}, err
	}

	return texture, sdl.Rect{W: surface.W, H: surface.H}, nil
}
