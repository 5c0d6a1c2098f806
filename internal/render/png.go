package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/lawnchairsociety/wfcgen/internal/catalog"
	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

// DefaultCellSize is used when the catalog has no artwork to size cells by
const DefaultCellSize = 8

var openColor = color.NRGBA{40, 40, 40, 255}

// Compose lays out the artwork of every collapsed cell into one image.
// Tiles without artwork are filled with their palette color and open cells
// are left dark.
func Compose(snap wfc.Snapshot, cat *catalog.Catalog, palette *Palette) (*image.NRGBA, error) {
	if snap.Width <= 0 || snap.Height <= 0 {
		return nil, errors.New("render: empty snapshot")
	}

	size := cellSize(cat)
	out := image.NewNRGBA(image.Rect(0, 0, snap.Width*size, snap.Height*size))

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			rect := image.Rect(x*size, y*size, (x+1)*size, (y+1)*size)
			cell := snap.At(x, y)

			if !cell.Collapsed {
				draw.Draw(out, rect, image.NewUniform(openColor), image.Point{}, draw.Src)
				continue
			}
			if art := cat.Image(cell.TileID); art != nil {
				draw.Draw(out, rect, art, art.Bounds().Min, draw.Src)
				continue
			}
			draw.Draw(out, rect, image.NewUniform(palette.NRGBA(cell.TileID)), image.Point{}, draw.Src)
		}
	}
	return out, nil
}

// PNG composes the snapshot and encodes it to w
func PNG(w io.Writer, snap wfc.Snapshot, cat *catalog.Catalog, palette *Palette) error {
	img, err := Compose(snap, cat, palette)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// cellSize is the side of the first tile image, which the catalog guarantees
// is shared by all tiles loaded from one directory
func cellSize(cat *catalog.Catalog) int {
	for _, img := range cat.Images {
		if img != nil {
			return img.Bounds().Dx()
		}
	}
	return DefaultCellSize
}
