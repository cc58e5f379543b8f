package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DecodingDen/internal/render"
	"DecodingDen/internal/settings"
	"DecodingDen/internal/state"
)

const noEffect = "none"

// colorSwatch is a tappable square of one palette colour.
type colorSwatch struct {
	widget.BaseWidget
	name     string
	fill     color.Color
	OnTapped func(name string)
}

func newColorSwatch(name string, tapped func(string)) *colorSwatch {
	c := render.ParseColor(name)
	s := &colorSwatch{name: name, fill: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.fill)
	rect.SetMinSize(fyne.NewSize(26, 26))
	rect.CornerRadius = 4

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	border.CornerRadius = 4

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.name)
	}
}

// toolbar is the whiteboard control strip.
type toolbar struct {
	ui     *UI
	kinds  map[state.ToolKind]*widget.Button
	undo   *widget.Button
	redo   *widget.Button
	effect *widget.Select
	size   *widget.Slider
}

func newToolbar(u *UI) *toolbar {
	return &toolbar{ui: u, kinds: map[state.ToolKind]*widget.Button{}}
}

func (t *toolbar) build() fyne.CanvasObject {
	b := t.ui.opts.Board

	kindButton := func(label string, icon fyne.Resource, k state.ToolKind) *widget.Button {
		btn := widget.NewButtonWithIcon(label, icon, func() {
			b.SelectKind(k)
			t.sync()
		})
		t.kinds[k] = btn
		return btn
	}
	kinds := container.NewHBox(
		kindButton("Pen", theme.DocumentCreateIcon(), state.Pen),
		kindButton("Highlighter", theme.ColorPaletteIcon(), state.Highlighter),
		kindButton("Eraser", theme.ContentClearIcon(), state.Eraser),
	)

	onColor := func(name string) {
		b.SetColor(name)
		if b.Tool().Kind == state.Eraser {
			b.SelectKind(state.Pen)
		}
		t.ui.settings.Update(func(s *settings.Settings) { s.Color = name })
		t.sync()
	}
	swatches := container.NewHBox()
	for _, name := range render.PaletteOrder {
		swatches.Add(newColorSwatch(name, onColor))
	}

	options := []string{noEffect}
	for _, e := range state.Effects {
		options = append(options, string(e))
	}
	t.effect = widget.NewSelect(options, func(v string) {
		e := state.Effect(v)
		if v == noEffect {
			e = state.EffectNone
		}
		if b.StoredTool().Effect == e {
			return
		}
		b.SetEffect(e)
		t.ui.settings.Update(func(s *settings.Settings) { s.Effect = string(e) })
	})

	t.size = widget.NewSlider(state.MinSize, state.MaxSize)
	t.size.Step = 1
	t.size.OnChanged = func(v float64) { b.SetSize(int(v)) }
	t.size.OnChangeEnded = func(v float64) {
		t.ui.settings.Update(func(s *settings.Settings) { s.Size = int(v) })
	}
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 36)), t.size)

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { b.Undo() })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { b.Redo() })
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() { b.Clear() })

	t.sync()
	return container.NewHBox(
		kinds,
		widget.NewSeparator(),
		swatches,
		widget.NewSeparator(),
		t.effect,
		widget.NewLabel("Size"),
		sizeBox,
		widget.NewSeparator(),
		t.undo, t.redo, clearBtn,
		layout.NewSpacer(),
	)
}

// sync reflects board state in the controls. Runs on the fyne goroutine.
func (t *toolbar) sync() {
	b := t.ui.opts.Board
	tool := b.StoredTool()
	for k, btn := range t.kinds {
		if k == tool.Kind {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
	if t.effect != nil {
		sel := string(tool.Effect)
		if sel == "" {
			sel = noEffect
		}
		if t.effect.Selected != sel {
			t.effect.SetSelected(sel)
		}
		if tool.Kind == state.Pen {
			t.effect.Enable()
		} else {
			t.effect.Disable()
		}
	}
	if t.size != nil && int(t.size.Value) != tool.Size {
		t.size.SetValue(float64(tool.Size))
	}
	setEnabled(t.undo, b.CanUndo())
	setEnabled(t.redo, b.CanRedo())
}

func setEnabled(w fyne.Disableable, on bool) {
	if w == nil {
		return
	}
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}
