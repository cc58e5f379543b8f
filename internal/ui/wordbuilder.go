package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DecodingDen/internal/phoneme"
	"DecodingDen/internal/wordbuild"
)

const (
	tileSize    = 44
	trayWidth   = 800
	trayHeight  = 420
	paperTop    = 220
	paperMargin = 40
)

var starterWords = []string{"cat", "sun", "ship", "chip", "fish", "shop"}

// tileArea draws the workspace and lets tiles be dragged around it.
type tileArea struct {
	widget.BaseWidget
	ws       *wordbuild.Workspace
	layer    *fyne.Container
	dragging string
	OnDrop   func()
}

var _ fyne.Draggable = (*tileArea)(nil)

func newTileArea(ws *wordbuild.Workspace) *tileArea {
	a := &tileArea{ws: ws, layer: container.NewWithoutLayout()}
	a.ExtendBaseWidget(a)
	return a
}

func (a *tileArea) Dragged(e *fyne.DragEvent) {
	if a.dragging == "" {
		start := e.Position.Subtract(e.Dragged)
		t, ok := a.ws.TileAt(start.X, start.Y)
		if !ok {
			return
		}
		a.dragging = t.ID
	}
	a.ws.Move(a.dragging, e.Dragged.DX, e.Dragged.DY)
	a.Refresh()
}

func (a *tileArea) DragEnd() {
	if a.dragging == "" {
		return
	}
	a.ws.Drop(a.dragging)
	a.dragging = ""
	a.Refresh()
	if a.OnDrop != nil {
		a.OnDrop()
	}
}

func (a *tileArea) Refresh() {
	paper := a.ws.Paper()
	sheet := canvas.NewRectangle(color.NRGBA{R: 0xff, G: 0xfb, B: 0xe6, A: 0xff})
	sheet.StrokeColor = color.NRGBA{R: 0xc8, G: 0xb8, B: 0x8a, A: 0xff}
	sheet.StrokeWidth = 2
	sheet.Move(fyne.NewPos(paper.X, paper.Y))
	sheet.Resize(fyne.NewSize(paper.Width, paper.Height))
	objs := []fyne.CanvasObject{sheet}

	size := a.ws.TileSize()
	for _, t := range a.ws.Tiles() {
		bg := canvas.NewRectangle(theme.Color(theme.ColorNamePrimary))
		bg.CornerRadius = 6
		bg.Move(fyne.NewPos(t.X, t.Y))
		bg.Resize(fyne.NewSize(size, size))

		label := canvas.NewText(t.Letters, color.White)
		label.TextSize = 20
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.Alignment = fyne.TextAlignCenter
		ts := label.MinSize()
		label.Move(fyne.NewPos(t.X, t.Y+(size-ts.Height)/2))
		label.Resize(fyne.NewSize(size, ts.Height))
		objs = append(objs, bg, label)
	}
	a.layer.Objects = objs
	a.layer.Refresh()
	a.BaseWidget.Refresh()
}

func (a *tileArea) MinSize() fyne.Size {
	b := a.ws.Bounds()
	return fyne.NewSize(b.Width, b.Height)
}

func (a *tileArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.layer)
}

// wordBuilderView is the tile workspace plus the letters and target words
// of the current lesson.
type wordBuilderView struct {
	ui      *UI
	ws      *wordbuild.Workspace
	area    *tileArea
	letters *fyne.Container
	targets *widget.Label
	result  *widget.Label
	words   []string
	next    int
}

func newWordBuilderView(u *UI) *wordBuilderView {
	ws := wordbuild.NewWorkspace(
		wordbuild.Area{Width: trayWidth, Height: trayHeight},
		wordbuild.Area{X: paperMargin, Y: paperTop, Width: trayWidth - 2*paperMargin, Height: trayHeight - paperTop - 20},
		tileSize,
	)
	return &wordBuilderView{ui: u, ws: ws, words: starterWords}
}

func (v *wordBuilderView) build() fyne.CanvasObject {
	v.area = newTileArea(v.ws)
	v.area.OnDrop = v.check
	v.letters = container.NewGridWrap(fyne.NewSize(44, 36))
	v.targets = widget.NewLabel("")
	v.targets.Wrapping = fyne.TextWrapWord
	v.result = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	clearBtn := widget.NewButtonWithIcon("Clear tiles", theme.DeleteIcon(), func() {
		v.ws.Clear()
		v.next = 0
		v.area.Refresh()
		v.result.SetText("")
	})

	v.setLesson(nil)
	v.area.Refresh()
	top := container.NewVBox(v.targets, v.letters)
	bottom := container.NewBorder(nil, nil, nil, clearBtn, v.result)
	return container.NewBorder(top, bottom, nil, nil, container.NewScroll(v.area))
}

// setLesson offers the graphemes and word lists of doc. A nil doc falls
// back to single letters and a starter word list.
func (v *wordBuilderView) setLesson(doc *phoneme.Document) {
	var pieces []string
	words := starterWords
	if doc != nil {
		for _, g := range doc.Graphemes {
			pieces = append(pieces, g.Spelling)
		}
		var lesson []string
		for _, l := range doc.WordLists {
			lesson = append(lesson, l.Words...)
		}
		if len(lesson) > 0 {
			words = lesson
		}
	}
	for r := 'a'; r <= 'z'; r++ {
		pieces = append(pieces, string(r))
	}
	v.words = words

	v.letters.RemoveAll()
	for _, p := range pieces {
		p := p
		v.letters.Add(widget.NewButton(p, func() { v.addTile(p) }))
	}
	v.targets.SetText("Build a word: " + strings.Join(words, ", "))
	v.result.SetText("")
	v.ws.Clear()
	v.next = 0
	if v.area != nil {
		v.area.Refresh()
	}
}

func (v *wordBuilderView) addTile(letters string) {
	x := float32(20 + (v.next%14)*(tileSize+10))
	y := float32(20 + (v.next/14%3)*(tileSize+10))
	v.next++
	if _, ok := v.ws.AddTile(letters, x, y); !ok {
		v.result.SetText("No room for more tiles. Clear some first.")
		return
	}
	v.area.Refresh()
}

func (v *wordBuilderView) check() {
	word, ok := v.ws.Matches(v.words)
	switch {
	case word == "":
		v.result.SetText("")
	case ok:
		v.result.SetText(fmt.Sprintf("%s says: you built %q!", mascotName(v.ui.settings.Get().Mascot), word))
		v.ui.cheer()
	default:
		v.result.SetText("On the paper: " + word)
	}
}

func mascotName(m string) string {
	if m == "" {
		return "Owl"
	}
	return strings.ToUpper(m[:1]) + m[1:]
}
