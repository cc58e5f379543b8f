package ui

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DecodingDen/internal/board"
	"DecodingDen/internal/phoneme"
	"DecodingDen/internal/settings"
	"DecodingDen/internal/state"
	"DecodingDen/internal/wordbuild"
)

func sampleStrokes() []state.Stroke {
	return []state.Stroke{{
		ID:        "s1",
		Tool:      state.Tool{Kind: state.Pen, Color: "red", Size: 4},
		Points:    []state.Point{{X: 10, Y: 10}, {X: 60, Y: 40}},
		CreatedAt: time.Unix(100, 0).UTC(),
	}}
}

func TestWriteBoard_Formats(t *testing.T) {
	strokes := sampleStrokes()
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))

	var js bytes.Buffer
	require.NoError(t, writeBoard(&js, ".json", strokes, img, "board"))
	decoded, err := state.DecodeStrokes(js.Bytes())
	require.NoError(t, err)
	assert.Len(t, decoded, 1)

	var pngOut bytes.Buffer
	require.NoError(t, writeBoard(&pngOut, ".PNG", strokes, img, "board"))
	_, err = png.Decode(&pngOut)
	assert.NoError(t, err)

	var pdfOut bytes.Buffer
	require.NoError(t, writeBoard(&pdfOut, ".pdf", strokes, img, "board"))
	assert.True(t, bytes.HasPrefix(pdfOut.Bytes(), []byte("%PDF")))

	assert.Error(t, writeBoard(&bytes.Buffer{}, ".txt", strokes, img, "board"))
}

func TestBoardWidget_MouseDrawsStroke(t *testing.T) {
	test.NewTempApp(t)
	b := board.New(200, 100, board.WithSeed(1))
	w := NewBoardWidget(b, false)
	w.Resize(fyne.NewSize(400, 200))

	w.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}, Button: desktop.MouseButtonPrimary})
	require.True(t, b.Drawing())
	w.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)}, Dragged: fyne.NewDelta(80, 80)})
	w.DragEnd()

	strokes := b.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, []state.Point{{X: 10, Y: 10}, {X: 50, Y: 50}}, strokes[0].Points)
	assert.False(t, b.Drawing())
}

func TestBoardWidget_MouseOutSealsStroke(t *testing.T) {
	test.NewTempApp(t)
	b := board.New(200, 100, board.WithSeed(1))
	w := NewBoardWidget(b, false)
	w.Resize(fyne.NewSize(200, 100))

	w.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}, Button: desktop.MouseButtonPrimary})
	w.MouseOut()

	assert.False(t, b.Drawing())
	assert.Len(t, b.Strokes(), 1)
}

func TestBoardWidget_ReadOnlyIgnoresInput(t *testing.T) {
	test.NewTempApp(t)
	b := board.New(200, 100)
	w := NewBoardWidget(b, true)
	w.Resize(fyne.NewSize(200, 100))

	w.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}, Button: desktop.MouseButtonPrimary})
	w.DragEnd()

	assert.False(t, b.Drawing())
	assert.Empty(t, b.Strokes())
}

func TestTileArea_DragOntoPaper(t *testing.T) {
	test.NewTempApp(t)
	ws := wordbuild.NewWorkspace(
		wordbuild.Area{Width: 400, Height: 300},
		wordbuild.Area{Y: 200, Width: 400, Height: 100},
		40,
	)
	tile, ok := ws.AddTile("sh", 10, 10)
	require.True(t, ok)

	a := newTileArea(ws)
	dropped := 0
	a.OnDrop = func() { dropped++ }

	a.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(35, 35)}, Dragged: fyne.NewDelta(5, 5)})
	a.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(35, 235)}, Dragged: fyne.NewDelta(0, 200)})
	a.DragEnd()

	got, ok := ws.TileAt(35, 235)
	require.True(t, ok)
	assert.Equal(t, tile.ID, got.ID)
	assert.True(t, got.OnPaper)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "sh", ws.Word())
}

func TestTileArea_DragOnEmptySpaceDoesNothing(t *testing.T) {
	test.NewTempApp(t)
	ws := wordbuild.NewWorkspace(wordbuild.Area{Width: 400, Height: 300}, wordbuild.Area{Y: 200, Width: 400, Height: 100}, 40)
	a := newTileArea(ws)
	a.OnDrop = func() { t.Fatal("drop without a tile") }

	a.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(300, 100)}, Dragged: fyne.NewDelta(1, 1)})
	a.DragEnd()
	assert.Empty(t, ws.Tiles())
}

func TestWordBuilder_LessonAndMatch(t *testing.T) {
	a := test.NewTempApp(t)
	u := &UI{
		app:      a,
		settings: settings.NewManager(a.Preferences()),
		opts:     Options{Board: board.New(100, 100)},
	}
	v := newWordBuilderView(u)
	v.build()

	v.setLesson(&phoneme.Document{
		Phoneme:   "sh",
		Graphemes: []phoneme.Grapheme{{Spelling: "sh", Position: "any"}},
		WordLists: []phoneme.WordList{{Title: "sh words", Words: []string{"ship", "shop"}}},
	})
	assert.Len(t, v.letters.Objects, 27)
	assert.Equal(t, []string{"ship", "shop"}, v.words)

	for _, l := range []string{"sh", "i", "p"} {
		v.addTile(l)
	}
	for _, tile := range v.ws.Tiles() {
		_, ok := v.ws.Move(tile.ID, 0, 230)
		require.True(t, ok)
		v.ws.Drop(tile.ID)
	}
	v.check()
	assert.Contains(t, v.result.Text, `"ship"`)
	assert.Contains(t, v.result.Text, "Owl")
}

func TestWordBuilder_NilLessonUsesStarterWords(t *testing.T) {
	a := test.NewTempApp(t)
	u := &UI{app: a, settings: settings.NewManager(a.Preferences()), opts: Options{Board: board.New(100, 100)}}
	v := newWordBuilderView(u)
	v.build()

	assert.Equal(t, starterWords, v.words)
	assert.Len(t, v.letters.Objects, 26)
	assert.Contains(t, v.targets.Text, "fish")
}
