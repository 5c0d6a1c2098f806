package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lawnchairsociety/wfcgen/internal/catalog"
	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.ParseYAML([]byte(`
tiles:
  - name: black
    edges: [0, 1, 2, 3]
    glyph: "#"
  - name: white
    edges: [2, 3, 0, 1]
    glyph: "o"
`))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	return cat
}

// testSnapshot is a 3x2 grid: "#o#" over "o.."
func testSnapshot() wfc.Snapshot {
	open := wfc.CellState{TileID: wfc.NoTile, Entropy: 2}
	return wfc.Snapshot{
		Width:      3,
		Height:     2,
		Version:    7,
		State:      wfc.Running,
		Placements: 4,
		Cells: []wfc.CellState{
			{Collapsed: true, TileID: 0}, {Collapsed: true, TileID: 1}, {Collapsed: true, TileID: 0},
			{Collapsed: true, TileID: 1}, open, open,
		},
	}
}

func TestPaletteGlyphs(t *testing.T) {
	cat := testCatalog(t)
	p := NewPalette(cat)

	if p.Len() != 2 {
		t.Errorf("Len = %d, want 2", p.Len())
	}
	if p.Glyph(0) != '#' || p.Glyph(1) != 'o' {
		t.Errorf("glyphs = %q %q, want '#' 'o'", p.Glyph(0), p.Glyph(1))
	}
	if p.Glyph(wfc.NoTile) != OpenGlyph {
		t.Errorf("Glyph(NoTile) = %q, want %q", p.Glyph(wfc.NoTile), OpenGlyph)
	}
	if p.Color(0) == p.Color(1) {
		t.Error("adjacent tile IDs should get different colors")
	}
}

func TestPaletteFallbackGlyphs(t *testing.T) {
	cat, err := catalog.ParseYAML([]byte("tiles:\n  - edges: [0, 0, 0, 0]\n  - edges: [1, 1, 1, 1]\n"))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	p := NewPalette(cat)

	if p.Glyph(0) == p.Glyph(1) {
		t.Errorf("fallback glyphs should differ, both are %q", p.Glyph(0))
	}
}

func TestASCII(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name string
		opts ASCIIOptions
		want string
	}{
		{"plain", ASCIIOptions{}, "#o#\no..\n"},
		{"cropped", ASCIIOptions{MaxWidth: 2}, "#o\no.\n"},
		{"width larger than grid", ASCIIOptions{MaxWidth: 80}, "#o#\no..\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ASCII(&buf, testSnapshot(), NewPalette(cat), tc.opts); err != nil {
				t.Fatalf("ASCII failed: %v", err)
			}
			if buf.String() != tc.want {
				t.Errorf("ASCII = %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestASCIIStatus(t *testing.T) {
	var buf bytes.Buffer
	err := ASCII(&buf, testSnapshot(), NewPalette(testCatalog(t)), ASCIIOptions{Status: true, MaxWidth: 2})
	if err != nil {
		t.Fatalf("ASCII failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	status := lines[2]
	for _, want := range []string{"3x2", "running", "placements=4", "cropped to 2"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}
}

func TestComposeFallsBackToPalette(t *testing.T) {
	cat := testCatalog(t)
	palette := NewPalette(cat)

	img, err := Compose(testSnapshot(), cat, palette)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if img.Bounds().Dx() != 3*DefaultCellSize || img.Bounds().Dy() != 2*DefaultCellSize {
		t.Errorf("size = %v, want %dx%d", img.Bounds().Size(), 3*DefaultCellSize, 2*DefaultCellSize)
	}

	if got, want := img.NRGBAAt(DefaultCellSize+1, 1), palette.NRGBA(1); got != want {
		t.Errorf("tile 1 pixel = %v, want %v", got, want)
	}
	if got := img.NRGBAAt(2*DefaultCellSize, DefaultCellSize); got != openColor {
		t.Errorf("open pixel = %v, want %v", got, openColor)
	}
}

func TestPNGEncodes(t *testing.T) {
	cat := testCatalog(t)

	var buf bytes.Buffer
	if err := PNG(&buf, testSnapshot(), cat, NewPalette(cat)); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != 3*DefaultCellSize {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), 3*DefaultCellSize)
	}
}

func TestComposeEmpty(t *testing.T) {
	cat := testCatalog(t)
	if _, err := Compose(wfc.Snapshot{}, cat, NewPalette(cat)); err == nil {
		t.Error("Compose should reject an empty snapshot")
	}
}

// fakeSource hands out a snapshot whose version can be bumped
type fakeSource struct {
	mu    sync.Mutex
	snap  wfc.Snapshot
	calls int
}

func (f *fakeSource) Snapshot() wfc.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.snap
}

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(20, 5)
	t.Cleanup(screen.Fini)
	return screen
}

func TestLiveDraw(t *testing.T) {
	screen := newTestScreen(t)
	live := NewLive(screen, &fakeSource{}, NewPalette(testCatalog(t)), 0)

	live.Draw(testSnapshot())

	want := []string{"#o#", "o.."}
	for y, row := range want {
		for x, r := range row {
			got, _, _, _ := screen.GetContent(x, y)
			if got != r {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, r)
			}
		}
	}

	// Status row sits right under the grid
	got, _, _, _ := screen.GetContent(0, 2)
	if got != 'r' {
		t.Errorf("status starts with %q, want 'r' (running)", got)
	}
}

func TestLiveRefreshSkipsUnchangedVersion(t *testing.T) {
	screen := newTestScreen(t)
	source := &fakeSource{snap: testSnapshot()}
	live := NewLive(screen, source, NewPalette(testCatalog(t)), 0)

	live.Refresh()
	screen.SetContent(0, 0, 'Z', nil, tcell.StyleDefault)

	live.Refresh()
	if got, _, _, _ := screen.GetContent(0, 0); got != 'Z' {
		t.Errorf("unchanged version redrew the screen, got %q", got)
	}

	source.mu.Lock()
	source.snap.Version++
	source.mu.Unlock()

	live.Refresh()
	if got, _, _, _ := screen.GetContent(0, 0); got != '#' {
		t.Errorf("new version was not drawn, got %q", got)
	}
}

func TestLiveRunStopsOnContext(t *testing.T) {
	screen := newTestScreen(t)
	source := &fakeSource{snap: testSnapshot()}
	live := NewLive(screen, source, NewPalette(testCatalog(t)), 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := live.Run(ctx); err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}

	source.mu.Lock()
	calls := source.calls
	source.mu.Unlock()
	if calls < 2 {
		t.Errorf("source polled %d times, want several", calls)
	}
}

func TestLiveRunQuitsOnEscape(t *testing.T) {
	screen := newTestScreen(t)
	live := NewLive(screen, &fakeSource{snap: testSnapshot()}, NewPalette(testCatalog(t)), 5*time.Millisecond)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := live.Run(ctx); !errors.Is(err, ErrQuit) {
		t.Errorf("Run returned %v, want %v", err, ErrQuit)
	}
}
