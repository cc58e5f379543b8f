package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"DecodingDen/internal/phoneme"
)

// phonemeView searches for a phoneme and lays its lesson out section by
// section.
type phonemeView struct {
	ui      *UI
	entry   *widget.Entry
	heading *widget.Label
	note    *widget.Label
	body    *fyne.Container
	cancel  context.CancelFunc
}

func newPhonemeView(u *UI) *phonemeView {
	return &phonemeView{ui: u}
}

func (v *phonemeView) build() fyne.CanvasObject {
	v.entry = widget.NewEntry()
	v.entry.SetPlaceHolder("Type a sound, e.g. sh, ch, igh")
	v.entry.OnSubmitted = v.search
	searchBtn := widget.NewButtonWithIcon("Find", theme.SearchIcon(), func() { v.search(v.entry.Text) })

	v.heading = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.note = widget.NewLabel("")
	v.body = container.NewVBox()

	top := container.NewVBox(
		container.NewBorder(nil, nil, nil, searchBtn, v.entry),
		v.heading,
		v.note,
	)
	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(v.body))
}

func (v *phonemeView) search(query string) {
	client := v.ui.opts.Phonemes
	if client == nil {
		v.note.SetText("Lessons are not available.")
		return
	}
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.note.SetText("Looking up " + phoneme.Normalize(query) + "...")

	go func() {
		res, err := client.Fetch(ctx, query)
		if ctx.Err() != nil {
			return
		}
		fyne.Do(func() {
			if err != nil {
				v.showError(query, err)
				return
			}
			v.show(res)
		})
	}()
}

func (v *phonemeView) showError(query string, err error) {
	v.heading.SetText("")
	v.body.RemoveAll()
	switch {
	case errors.Is(err, phoneme.ErrEmptyQuery):
		v.note.SetText("Type a sound to look up.")
	case errors.Is(err, phoneme.ErrNotFound):
		v.note.SetText(fmt.Sprintf("We don't have a lesson for %q yet.", phoneme.Normalize(query)))
	default:
		v.ui.log.Warn().Err(err).Str("query", query).Msg("phoneme lookup failed")
		v.note.SetText("Could not load the lesson. Check the connection and try again.")
	}
}

func (v *phonemeView) show(res phoneme.Result) {
	doc := res.Document
	heading := "/" + doc.Phoneme + "/"
	if doc.Level > 0 {
		heading += fmt.Sprintf("  Level %d", doc.Level)
	}
	v.heading.SetText(heading)
	if res.Cached {
		v.note.SetText("Offline: showing the copy saved on this computer.")
	} else {
		v.note.SetText("")
	}

	v.body.RemoveAll()
	acc := widget.NewAccordion()
	for _, s := range phoneme.Sections(doc) {
		acc.Append(widget.NewAccordionItem(s.Title, v.section(s)))
	}
	if len(acc.Items) > 0 {
		acc.Open(0)
	}
	v.body.Add(acc)
	v.body.Add(widget.NewButtonWithIcon("Build these words", theme.ContentAddIcon(), func() {
		v.ui.words.setLesson(doc)
		v.ui.tabs.SelectIndex(tabWords)
	}))
	v.body.Refresh()
}

func (v *phonemeView) section(s phoneme.Section) fyne.CanvasObject {
	box := container.NewVBox()
	for _, line := range s.Lines {
		l := widget.NewLabel(line)
		l.Wrapping = fyne.TextWrapWord
		if s.Pending {
			l.TextStyle = fyne.TextStyle{Italic: true}
		}
		box.Add(l)
	}
	if !s.Pending {
		text := s.ReadAloud()
		box.Add(widget.NewButtonWithIcon("Read along", theme.MediaPlayIcon(), func() {
			v.ui.reader.load(text)
			v.ui.tabs.SelectIndex(tabReadAlong)
		}))
	}
	return box
}
