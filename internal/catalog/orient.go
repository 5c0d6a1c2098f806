package catalog

import (
	"image"
	"image/color"
)

// Orientation is one of the rigid transforms applied to a source tile
type Orientation int

const (
	Identity Orientation = iota
	Rotate90
	Rotate180
	Rotate270
	FlipX
	FlipY
)

// AllOrientations returns every orientation in the order variants are generated
func AllOrientations() []Orientation {
	return []Orientation{Identity, Rotate90, Rotate180, Rotate270, FlipX, FlipY}
}

// String returns the string representation of an Orientation
func (o Orientation) String() string {
	switch o {
	case Identity:
		return "identity"
	case Rotate90:
		return "rot90"
	case Rotate180:
		return "rot180"
	case Rotate270:
		return "rot270"
	case FlipX:
		return "flipx"
	case FlipY:
		return "flipy"
	default:
		return "unknown"
	}
}

// Orient returns a copy of img transformed by o. Rotations are clockwise.
func Orient(img image.Image, o Orientation) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := w, h
	if o == Rotate90 || o == Rotate270 {
		dw, dh = h, w
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			var dx, dy int
			switch o {
			case Rotate90:
				dx, dy = h-1-y, x
			case Rotate180:
				dx, dy = w-1-x, h-1-y
			case Rotate270:
				dx, dy = y, w-1-x
			case FlipX:
				dx, dy = w-1-x, y
			case FlipY:
				dx, dy = x, h-1-y
			default:
				dx, dy = x, y
			}
			dst.SetNRGBA(dx, dy, c)
		}
	}
	return dst
}

// Edges extracts the four border runs in top, right, bottom, left order.
// Rows run left to right and columns top to bottom, so facing edges of two
// neighbors line up pixel for pixel.
func Edges(img *image.NRGBA) [4]Edge {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var edges [4]Edge
	edges[0] = make(Edge, w)
	edges[2] = make(Edge, w)
	for x := 0; x < w; x++ {
		edges[0][x] = img.NRGBAAt(b.Min.X+x, b.Min.Y)
		edges[2][x] = img.NRGBAAt(b.Min.X+x, b.Max.Y-1)
	}

	edges[1] = make(Edge, h)
	edges[3] = make(Edge, h)
	for y := 0; y < h; y++ {
		edges[1][y] = img.NRGBAAt(b.Max.X-1, b.Min.Y+y)
		edges[3][y] = img.NRGBAAt(b.Min.X, b.Min.Y+y)
	}
	return edges
}
