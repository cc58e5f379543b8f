// Package wordbuild is the letter-tile workspace: tiles are dragged around a
// tray and dropped onto a sheet of paper to spell words.
package wordbuild

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Area is a rectangle in workspace coordinates.
type Area struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

func (a Area) Contains(x, y float32) bool {
	return x >= a.X && x <= a.X+a.Width &&
		y >= a.Y && y <= a.Y+a.Height
}

func (a Area) Overlaps(b Area) bool {
	return !(a.X+a.Width <= b.X || b.X+b.Width <= a.X ||
		a.Y+a.Height <= b.Y || b.Y+b.Height <= a.Y)
}

// Tile is one letter or letter pattern ("sh", "igh").
type Tile struct {
	ID      string
	Letters string
	X       float32
	Y       float32
	OnPaper bool
}

func (t Tile) Area(size float32) Area {
	return Area{X: t.X, Y: t.Y, Width: size, Height: size}
}

// Workspace holds the tiles. Later tiles are drawn above earlier ones.
type Workspace struct {
	mu       sync.RWMutex
	bounds   Area
	paper    Area
	tileSize float32
	tiles    []Tile
	drag     drag
}

// drag is where the pointer has taken the tile being dragged, before the
// tile is clamped to the bounds.
type drag struct {
	id   string
	x, y float32
}

func NewWorkspace(bounds, paper Area, tileSize float32) *Workspace {
	return &Workspace{bounds: bounds, paper: paper, tileSize: tileSize}
}

func (w *Workspace) Paper() Area       { return w.paper }
func (w *Workspace) Bounds() Area      { return w.bounds }
func (w *Workspace) TileSize() float32 { return w.tileSize }

// AddTile places a tile at x, y or, when that spot is taken, at the first
// free spot beside it. It returns false when nothing nearby is free.
func (w *Workspace) AddTile(letters string, x, y float32) (Tile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := Area{X: x, Y: y, Width: w.tileSize, Height: w.tileSize}
	at, ok := w.freeSpot(want)
	if !ok {
		return Tile{}, false
	}
	t := Tile{ID: uuid.NewString(), Letters: letters, X: at.X, Y: at.Y}
	t.OnPaper = w.onPaper(t)
	w.tiles = append(w.tiles, t)
	return t, true
}

// TileAt returns the topmost tile under x, y.
func (w *Workspace) TileAt(x, y float32) (Tile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for i := len(w.tiles) - 1; i >= 0; i-- {
		if w.tiles[i].Area(w.tileSize).Contains(x, y) {
			return w.tiles[i], true
		}
	}
	return Tile{}, false
}

// Move drags a tile by dx, dy and raises it to the top. The tile stays
// inside the workspace bounds but keeps following the pointer offset, so
// after hitting an edge it comes back when the drag does.
func (w *Workspace) Move(id string, dx, dy float32) (Tile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.index(id)
	if i < 0 {
		return Tile{}, false
	}
	t := w.tiles[i]
	if w.drag.id != id {
		w.drag = drag{id: id, x: t.X, y: t.Y}
	}
	w.drag.x += dx
	w.drag.y += dy
	t.X = clamp(w.drag.x, w.bounds.X, w.bounds.X+w.bounds.Width-w.tileSize)
	t.Y = clamp(w.drag.y, w.bounds.Y, w.bounds.Y+w.bounds.Height-w.tileSize)
	w.tiles = append(append(w.tiles[:i:i], w.tiles[i+1:]...), t)
	return t, true
}

// Drop ends a drag. A tile whose centre lands on the paper is on it.
func (w *Workspace) Drop(id string) (Tile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.index(id)
	if i < 0 {
		return Tile{}, false
	}
	w.tiles[i].OnPaper = w.onPaper(w.tiles[i])
	if w.drag.id == id {
		w.drag = drag{}
	}
	return w.tiles[i], true
}

func (w *Workspace) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.index(id)
	if i < 0 {
		return false
	}
	w.tiles = append(w.tiles[:i], w.tiles[i+1:]...)
	if w.drag.id == id {
		w.drag = drag{}
	}
	return true
}

// Word spells the tiles on the paper from left to right.
func (w *Workspace) Word() string {
	w.mu.RLock()
	on := make([]Tile, 0, len(w.tiles))
	for _, t := range w.tiles {
		if t.OnPaper {
			on = append(on, t)
		}
	}
	w.mu.RUnlock()

	sort.SliceStable(on, func(i, j int) bool {
		if on[i].X != on[j].X {
			return on[i].X < on[j].X
		}
		return on[i].Y < on[j].Y
	})
	var b strings.Builder
	for _, t := range on {
		b.WriteString(t.Letters)
	}
	return b.String()
}

// Matches reports which of words, ignoring case, the paper currently spells.
func (w *Workspace) Matches(words []string) (string, bool) {
	got := w.Word()
	if got == "" {
		return "", false
	}
	for _, word := range words {
		if strings.EqualFold(word, got) {
			return word, true
		}
	}
	return got, false
}

func (w *Workspace) Tiles() []Tile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Tile(nil), w.tiles...)
}

func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tiles = nil
	w.drag = drag{}
}

func (w *Workspace) index(id string) int {
	for i, t := range w.tiles {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) onPaper(t Tile) bool {
	half := w.tileSize / 2
	return w.paper.Contains(t.X+half, t.Y+half)
}

func (w *Workspace) occupied(a Area) bool {
	for _, t := range w.tiles {
		if a.Overlaps(t.Area(w.tileSize)) {
			return true
		}
	}
	return false
}

func (w *Workspace) inBounds(a Area) bool {
	return a.X >= w.bounds.X && a.Y >= w.bounds.Y &&
		a.X+a.Width <= w.bounds.X+w.bounds.Width && a.Y+a.Height <= w.bounds.Y+w.bounds.Height
}

func (w *Workspace) freeSpot(want Area) (Area, bool) {
	if w.inBounds(want) && !w.occupied(want) {
		return want, true
	}
	gap := w.tileSize + 10
	// walk outwards: right, below, left, above
	for ring := float32(1); ring <= 8; ring++ {
		for _, off := range []struct{ dx, dy float32 }{
			{ring * gap, 0}, {0, ring * gap}, {-ring * gap, 0}, {0, -ring * gap},
		} {
			alt := want
			alt.X += off.dx
			alt.Y += off.dy
			if w.inBounds(alt) && !w.occupied(alt) {
				return alt, true
			}
		}
	}
	return Area{}, false
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
