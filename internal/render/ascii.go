package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

// ASCIIOptions controls text output
type ASCIIOptions struct {
	Color    bool // Wrap glyphs in ANSI colors
	MaxWidth int  // Crop rows to this many columns (0 = no limit)
	Status   bool // Append a summary line
}

var (
	colorOpen   = color.Style{color.FgGray}
	colorStatus = color.Style{color.FgCyan}
	colorDone   = color.Style{color.FgGreen, color.OpBold}
	colorStuck  = color.Style{color.FgYellow, color.OpBold}
)

// ASCII writes the snapshot one row per line, one glyph per cell
func ASCII(w io.Writer, snap wfc.Snapshot, palette *Palette, opts ASCIIOptions) error {
	bw := bufio.NewWriter(w)

	cols := snap.Width
	if opts.MaxWidth > 0 && cols > opts.MaxWidth {
		cols = opts.MaxWidth
	}

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < cols; x++ {
			bw.WriteString(cellString(snap.At(x, y), palette, opts.Color))
		}
		bw.WriteByte('\n')
	}

	if opts.Status {
		line := fmt.Sprintf("%dx%d %s placements=%d repairs=%d", snap.Width, snap.Height, snap.State, snap.Placements, snap.Repairs)
		if cols < snap.Width {
			line += fmt.Sprintf(" (cropped to %d columns)", cols)
		}
		if opts.Color {
			style := colorStuck
			if snap.Done() {
				style = colorDone
			}
			line = style.Sprint(line)
		}
		bw.WriteString(line)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func cellString(c wfc.CellState, palette *Palette, useColor bool) string {
	if !c.Collapsed {
		if useColor {
			return colorOpen.Sprint(string(OpenGlyph))
		}
		return string(OpenGlyph)
	}

	glyph := string(palette.Glyph(c.TileID))
	if !useColor {
		return glyph
	}
	r, g, b := palette.Color(c.TileID).RGB255()
	return color.RGB(r, g, b).Sprint(glyph)
}

// StatusLine returns a colored one-line progress summary
func StatusLine(snap wfc.Snapshot) string {
	return colorStatus.Sprintf("%3.0f%% placements=%d repairs=%d", snap.Progress()*100, snap.Placements, snap.Repairs)
}

// TerminalWidth returns the width of the terminal on stdout, or 0 when stdout
// is not a terminal
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
