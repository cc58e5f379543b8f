package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"DecodingDen/internal/board"
	"DecodingDen/internal/render"
)

// BoardWidget shows a board's bitmap and turns mouse input into strokes.
// The bitmap keeps its own resolution and is scaled to fit the widget.
type BoardWidget struct {
	widget.BaseWidget
	board    *board.Board
	readOnly bool
	img      *canvas.Image
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board, readOnly bool) *BoardWidget {
	w := &BoardWidget{board: b, readOnly: readOnly}
	w.img = canvas.NewImageFromImage(b.Image())
	w.img.FillMode = canvas.ImageFillContain
	w.img.ScaleMode = canvas.ImageScaleFastest
	w.ExtendBaseWidget(w)
	return w
}

// viewport is the area the bitmap occupies inside the widget.
func (w *BoardWidget) viewport() render.Viewport {
	size := w.Size()
	bw, bh := w.board.Size()
	if size.Width <= 0 || size.Height <= 0 || bw == 0 || bh == 0 {
		return render.Viewport{}
	}
	scale := min(float64(size.Width)/float64(bw), float64(size.Height)/float64(bh))
	dw, dh := float64(bw)*scale, float64(bh)*scale
	return render.Viewport{
		Left:   (float64(size.Width) - dw) / 2,
		Top:    (float64(size.Height) - dh) / 2,
		Width:  dw,
		Height: dh,
	}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if w.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	p, ok := w.board.Mapper().Map(float64(e.Position.X), float64(e.Position.Y), w.viewport())
	if !ok {
		return
	}
	w.board.PointerDown(p)
	w.Refresh()
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	if w.readOnly || !w.board.Drawing() {
		return
	}
	p, ok := w.board.Mapper().Map(float64(e.Position.X), float64(e.Position.Y), w.viewport())
	if !ok {
		return
	}
	w.board.PointerMove(p)
	w.Refresh()
}

func (w *BoardWidget) DragEnd() {
	w.release()
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.release()
	}
}

// MouseOut seals a stroke that leaves the board so it is never lost.
func (w *BoardWidget) MouseOut() {
	if w.readOnly || !w.board.Drawing() {
		return
	}
	w.board.PointerLeave()
	w.Refresh()
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (w *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (w *BoardWidget) release() {
	if w.readOnly || !w.board.Drawing() {
		return
	}
	w.board.PointerUp()
	w.Refresh()
}

// Refresh redraws the bitmap. It must run on the fyne goroutine.
func (w *BoardWidget) Refresh() {
	w.img.Image = w.board.Image()
	w.img.Refresh()
	w.BaseWidget.Refresh()
}

func (w *BoardWidget) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	return widget.NewSimpleRenderer(container.NewStack(bg, w.img))
}
