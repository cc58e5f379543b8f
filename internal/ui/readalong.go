package ui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DecodingDen/internal/readalong"
)

// readAlongView speaks a passage word by word and highlights the word
// being spoken.
type readAlongView struct {
	ui      *UI
	seq     *readalong.Sequencer
	words   []readalong.Word
	input   *widget.Entry
	text    *widget.RichText
	status  *widget.Label
	play    *widget.Button
	pause   *widget.Button
	stopBtn *widget.Button
}

func newReadAlongView(u *UI) *readAlongView {
	v := &readAlongView{ui: u}
	v.seq = readalong.NewSequencer(u.opts.Speaker, u.opts.Fallback, u.log)
	v.seq.OnWord(func(i int, _ readalong.Word) {
		fyne.Do(func() { v.highlight(i) })
	})
	v.seq.OnState(func(s readalong.State) {
		fyne.Do(func() { v.setState(s) })
	})
	return v
}

func (v *readAlongView) build() fyne.CanvasObject {
	v.input = widget.NewMultiLineEntry()
	v.input.SetPlaceHolder("Paste a story or sentence to read along with")
	v.input.Wrapping = fyne.TextWrapWord
	v.input.SetMinRowsVisible(3)
	useBtn := widget.NewButtonWithIcon("Use this text", theme.ConfirmIcon(), func() { v.load(v.input.Text) })

	v.text = widget.NewRichText()
	v.text.Wrapping = fyne.TextWrapWord
	v.status = widget.NewLabel(readalong.Idle.String())

	v.play = widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), func() {
		if err := v.seq.Play(); errors.Is(err, readalong.ErrNothingToRead) {
			v.status.SetText("Add some text first")
		}
	})
	v.pause = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), v.seq.Pause)
	v.stopBtn = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), func() {
		v.seq.Stop()
		v.highlight(-1)
	})
	v.setState(readalong.Idle)

	controls := container.NewHBox(v.play, v.pause, v.stopBtn, v.status)
	top := container.NewVBox(v.input, useBtn, controls)
	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(v.text))
}

// load replaces the passage and resets reading to the first word.
func (v *readAlongView) load(text string) {
	v.words = readalong.Tokenize(text)
	v.seq.Load(v.words)
	if v.input.Text != text {
		v.input.SetText(text)
	}
	v.highlight(-1)
}

func (v *readAlongView) highlight(current int) {
	segs := make([]widget.RichTextSegment, 0, len(v.words))
	for i, w := range v.words {
		style := widget.RichTextStyleInline
		if i == current {
			style.ColorName = theme.ColorNamePrimary
			style.TextStyle = fyne.TextStyle{Bold: true}
		}
		segs = append(segs, &widget.TextSegment{Text: w.Text + " ", Style: style})
	}
	v.text.Segments = segs
	v.text.Refresh()
}

func (v *readAlongView) setState(s readalong.State) {
	v.status.SetText(s.String())
	switch s {
	case readalong.Speaking:
		v.play.Disable()
		v.pause.Enable()
		v.stopBtn.Enable()
	case readalong.Paused:
		v.play.Enable()
		v.pause.Disable()
		v.stopBtn.Enable()
	default:
		v.play.Enable()
		v.pause.Disable()
		v.stopBtn.Disable()
	}
	if s == readalong.Complete {
		v.highlight(-1)
	}
}
