// Package render draws grid snapshots as text, images, or a live terminal view.
package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lawnchairsociety/wfcgen/internal/catalog"
)

// OpenGlyph is drawn for cells that have not collapsed yet
const OpenGlyph = '.'

// fallbackGlyphs are handed out by tile ID when the catalog has no glyph
const fallbackGlyphs = "#@%&*+=~oxOX$?!"

// Palette maps tile IDs to a glyph and a display color
type Palette struct {
	glyphs []rune
	colors []colorful.Color
}

// NewPalette builds a palette for every tile in the catalog. Colors are spread
// evenly around the hue wheel so neighboring IDs stay distinguishable.
func NewPalette(cat *catalog.Catalog) *Palette {
	n := len(cat.Tiles)
	p := &Palette{
		glyphs: make([]rune, n),
		colors: make([]colorful.Color, n),
	}

	fallback := []rune(fallbackGlyphs)
	for i := 0; i < n; i++ {
		g := cat.Glyph(i)
		if g == 0 {
			g = fallback[i%len(fallback)]
		}
		p.glyphs[i] = g

		// Golden-angle stepping keeps consecutive IDs apart
		hue := float64(i) * 137.508
		for hue >= 360 {
			hue -= 360
		}
		p.colors[i] = colorful.Hsv(hue, 0.65, 0.9)
	}
	return p
}

// Glyph returns the rune for a tile ID, or OpenGlyph for anything unknown
func (p *Palette) Glyph(id int) rune {
	if id < 0 || id >= len(p.glyphs) {
		return OpenGlyph
	}
	return p.glyphs[id]
}

// Color returns the display color for a tile ID
func (p *Palette) Color(id int) colorful.Color {
	if id < 0 || id >= len(p.colors) {
		return colorful.Color{R: 0.3, G: 0.3, B: 0.3}
	}
	return p.colors[id]
}

// NRGBA returns the display color of a tile as an opaque 8-bit color
func (p *Palette) NRGBA(id int) color.NRGBA {
	r, g, b := p.Color(id).RGB255()
	return color.NRGBA{r, g, b, 255}
}

// Len returns the number of tiles the palette covers
func (p *Palette) Len() int {
	return len(p.glyphs)
}
