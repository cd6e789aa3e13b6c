package ui

import "github.com/veandco/go-sdl2/sdl"

// DrawVerticalGradient fills a rectangle with a top-to-bottom blend between
// two colors. Used as the playfield backdrop when a table has no media.
func DrawVerticalGradient(renderer *sdl.Renderer, x, y, width, height int32, top, bottom sdl.Color) {
	if height <= 1 {
		return
	}
	for i := int32(0); i < height; i++ {
		t := float64(i) / float64(height-1)

		r := uint8(float64(top.R)*(1-t) + float64(bottom.R)*t)
		g := uint8(float64(top.G)*(1-t) + float64(bottom.G)*t)
		b := uint8(float64(top.B)*(1-t) + float64(bottom.B)*t)

		renderer.SetDrawColor(r, g, b, 255)
		renderer.DrawLine(x, y+i, x+width-1, y+i)
	}
}
