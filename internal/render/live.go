package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

// DefaultRefresh is how often the live view polls for a new snapshot
const DefaultRefresh = 30 * time.Millisecond

// ErrQuit is returned by Live.Run when the user closes the view
var ErrQuit = errors.New("render: live view closed")

// SnapshotSource is anything that can hand out grid snapshots
type SnapshotSource interface {
	Snapshot() wfc.Snapshot
}

// Live redraws a terminal screen whenever the source's snapshot changes.
// It only reads snapshots, so it can run alongside the generator.
type Live struct {
	screen   tcell.Screen
	source   SnapshotSource
	palette  *Palette
	interval time.Duration

	lastVersion uint64
	drawn       bool
}

// NewLive creates a live view on an initialized screen. The caller owns the
// screen and must call Fini on it.
func NewLive(screen tcell.Screen, source SnapshotSource, palette *Palette, interval time.Duration) *Live {
	if interval <= 0 {
		interval = DefaultRefresh
	}
	return &Live{
		screen:   screen,
		source:   source,
		palette:  palette,
		interval: interval,
	}
}

// Run polls and redraws until ctx is done or the user presses Esc or Ctrl-C,
// in which case it returns ErrQuit. The final snapshot is always drawn.
func (l *Live) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 8)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.Refresh()
	for {
		select {
		case <-ctx.Done():
			l.Refresh()
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return ErrQuit
				}
			case *tcell.EventResize:
				l.screen.Sync()
				l.drawn = false
				l.Refresh()
			}
		case <-ticker.C:
			l.Refresh()
		}
	}
}

// Refresh draws the current snapshot if its version moved since the last draw
func (l *Live) Refresh() {
	snap := l.source.Snapshot()
	if l.drawn && snap.Version == l.lastVersion {
		return
	}
	l.Draw(snap)
	l.lastVersion = snap.Version
	l.drawn = true
}

// Draw renders a snapshot, cropped to the screen, with a status row underneath
func (l *Live) Draw(snap wfc.Snapshot) {
	l.screen.Clear()
	width, height := l.screen.Size()

	rows := snap.Height
	if rows > height-1 {
		rows = height - 1
	}
	cols := snap.Width
	if cols > width {
		cols = width
	}

	openStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := snap.At(x, y)
			if !cell.Collapsed {
				l.screen.SetContent(x, y, OpenGlyph, nil, openStyle)
				continue
			}
			r, g, b := l.palette.Color(cell.TileID).RGB255()
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
			l.screen.SetContent(x, y, l.palette.Glyph(cell.TileID), nil, style)
		}
	}

	if height > 0 {
		status := fmt.Sprintf("%s %3.0f%% placements=%d repairs=%d  [esc] quit",
			snap.State, snap.Progress()*100, snap.Placements, snap.Repairs)
		statusStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if snap.Done() {
			statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
		}
		drawText(l.screen, 0, rows, width, status, statusStyle)
	}

	l.screen.Show()
}

func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxWidth {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
