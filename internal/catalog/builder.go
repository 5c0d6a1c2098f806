package catalog

import (
	"fmt"
	"image"

	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

// Catalog is the finished, read-only tile list plus optional artwork
type Catalog struct {
	Tiles  []*wfc.Tile
	Images []image.Image // Indexed by tile ID; nil entries for tiles without art
	Glyphs []rune        // Indexed by tile ID; 0 when unset
	Table  *EdgeTable
}

// Image returns the artwork for a tile, or nil
func (c *Catalog) Image(id int) image.Image {
	if id < 0 || id >= len(c.Images) {
		return nil
	}
	return c.Images[id]
}

// Glyph returns the display rune for a tile, or 0 if none was configured
func (c *Catalog) Glyph(id int) rune {
	if id < 0 || id >= len(c.Glyphs) {
		return 0
	}
	return c.Glyphs[id]
}

// Builder assembles a catalog against a single edge table
type Builder struct {
	table  *EdgeTable
	tiles  []*wfc.Tile
	images []image.Image
	glyphs []rune
	size   int // Side of the first image; all images must share it
	built  bool
}

// NewBuilder creates a builder that resolves edges through table
func NewBuilder(table *EdgeTable) *Builder {
	return &Builder{table: table}
}

// AddImage adds every distinct orientation of img and returns how many were kept.
// Orientations whose four edge codes repeat an earlier orientation are dropped.
func (b *Builder) AddImage(name string, img image.Image) (int, error) {
	if b.built {
		return 0, ErrTableFrozen
	}
	if r := img.Bounds(); r.Dx() != r.Dy() || r.Dx() == 0 {
		return 0, fmt.Errorf("catalog: %s is %dx%d, tiles must be square", name, r.Dx(), r.Dy())
	}
	side := img.Bounds().Dx()
	if b.size != 0 && side != b.size {
		return 0, fmt.Errorf("catalog: %s is %dpx, other tiles are %dpx", name, side, b.size)
	}
	b.size = side

	var kept []*wfc.Tile
	for _, o := range AllOrientations() {
		variant := Orient(img, o)

		var codes [4]int
		for side, edge := range Edges(variant) {
			code, err := b.table.Resolve(edge)
			if err != nil {
				return 0, fmt.Errorf("catalog: %s [%s]: %w", name, o, err)
			}
			codes[side] = code
		}

		if containsCodes(kept, codes) {
			continue
		}

		tile := &wfc.Tile{
			ID:        len(b.tiles),
			Name:      fmt.Sprintf("%s [%s]", name, o),
			EdgeCodes: codes,
		}
		kept = append(kept, tile)
		b.tiles = append(b.tiles, tile)
		b.images = append(b.images, variant)
		b.glyphs = append(b.glyphs, 0)
	}

	for _, t := range kept {
		t.Rotations = len(kept)
	}
	return len(kept), nil
}

// AddTile adds a tile whose edge codes are already known
func (b *Builder) AddTile(name string, codes [4]int, glyph rune) *wfc.Tile {
	tile := &wfc.Tile{
		ID:        len(b.tiles),
		Name:      name,
		EdgeCodes: codes,
		Rotations: 1,
	}
	b.tiles = append(b.tiles, tile)
	b.images = append(b.images, nil)
	b.glyphs = append(b.glyphs, glyph)
	return tile
}

// AddRotations adds the distinct clockwise rotations of an edge-code tile
func (b *Builder) AddRotations(name string, codes [4]int, glyph rune) []*wfc.Tile {
	var kept []*wfc.Tile
	current := codes
	for quarter := 0; quarter < 4; quarter++ {
		if !containsCodes(kept, current) {
			kept = append(kept, b.AddTile(fmt.Sprintf("%s [rot%d]", name, quarter*90), current, glyph))
		}
		// The old left edge becomes the new top
		current = [4]int{current[3], current[0], current[1], current[2]}
	}
	for _, t := range kept {
		t.Rotations = len(kept)
	}
	return kept
}

// Build freezes the edge table and returns the catalog
func (b *Builder) Build() (*Catalog, error) {
	if len(b.tiles) == 0 {
		return nil, wfc.ErrEmptyCatalog
	}
	b.table.Freeze()
	b.built = true

	return &Catalog{
		Tiles:  b.tiles,
		Images: b.images,
		Glyphs: b.glyphs,
		Table:  b.table,
	}, nil
}

func containsCodes(tiles []*wfc.Tile, codes [4]int) bool {
	for _, t := range tiles {
		if t.EdgeCodes == codes {
			return true
		}
	}
	return false
}
