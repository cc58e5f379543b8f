package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"DecodingDen/internal/audio"
	"DecodingDen/internal/board"
	"DecodingDen/internal/phoneme"
	"DecodingDen/internal/readalong"
	"DecodingDen/internal/settings"
	"DecodingDen/internal/state"
	"DecodingDen/internal/store"
)

const appID = "org.decodingden.app"

const (
	tabBoard = iota
	tabPhonemes
	tabReadAlong
	tabWords
)

// Options carries everything the window needs. Only Board is required.
type Options struct {
	Board    *board.Board
	Feedback *audio.Feedback
	Phonemes *phoneme.Client
	Store    *store.Store
	Speaker  readalong.Speaker
	Fallback readalong.Speaker

	// ShareLink is empty when this instance is not sharing.
	ShareLink string
	Viewers   func() int

	// ReadOnly shows the board without drawing tools, for viewers.
	ReadOnly bool
	Title    string
	Log      zerolog.Logger

	// Start runs once the window exists, before it is shown.
	Start func(*UI)
}

// UI is the main window and its views.
type UI struct {
	app      fyne.App
	win      fyne.Window
	opts     Options
	settings *settings.Manager
	log      zerolog.Logger

	board   *BoardWidget
	status  *widget.Label
	tabs    *container.AppTabs
	toolbar *toolbar
	reader  *readAlongView
	words   *wordBuilderView
}

// Run builds the window and blocks until it is closed.
func Run(opts Options) {
	a := app.NewWithID(appID)
	u := newUI(a, opts)
	if opts.Start != nil {
		opts.Start(u)
	}
	u.win.ShowAndRun()
}

func newUI(a fyne.App, opts Options) *UI {
	if opts.Title == "" {
		opts.Title = "Decoding Den"
	}
	if opts.Fallback == nil {
		opts.Fallback = readalong.TimedSpeaker{}
	}
	if opts.Speaker == nil {
		opts.Speaker = opts.Fallback
	}
	u := &UI{
		app:      a,
		opts:     opts,
		settings: settings.NewManager(a.Preferences()),
		log:      opts.Log.With().Str("component", "ui").Logger(),
	}
	u.win = a.NewWindow(opts.Title)
	u.win.Resize(fyne.NewSize(1280, 860))

	s := u.settings.Get()
	if !opts.ReadOnly {
		opts.Board.Restore(s.Color, s.Size, state.Effect(s.Effect))
	}
	if f := opts.Feedback; f != nil {
		f.SetEnabled(s.SoundEnabled)
		u.settings.Subscribe(func(s settings.Settings) { f.SetEnabled(s.SoundEnabled) })
	}

	u.status = widget.NewLabel("")
	u.board = NewBoardWidget(opts.Board, opts.ReadOnly)
	u.toolbar = newToolbar(u)
	u.reader = newReadAlongView(u)
	u.words = newWordBuilderView(u)

	u.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Whiteboard", theme.DocumentCreateIcon(), u.buildBoardTab()),
		container.NewTabItemWithIcon("Phonemes", theme.SearchIcon(), newPhonemeView(u).build()),
		container.NewTabItemWithIcon("Read Along", theme.MediaPlayIcon(), u.reader.build()),
		container.NewTabItemWithIcon("Word Builder", theme.GridIcon(), u.words.build()),
	)
	u.tabs.OnSelected = func(*container.TabItem) {
		if u.tabs.SelectedIndex() != tabReadAlong {
			u.reader.seq.Pause()
		}
	}

	opts.Board.OnChange(func(state.Snapshot) {
		fyne.Do(func() {
			u.board.Refresh()
			if !u.opts.ReadOnly {
				u.toolbar.sync()
			}
		})
	})

	u.win.SetContent(u.tabs)
	u.win.SetCloseIntercept(func() {
		u.reader.seq.Stop()
		u.win.Close()
	})
	return u
}

func (u *UI) buildBoardTab() fyne.CanvasObject {
	mascot := widget.NewButtonWithIcon("", theme.SettingsIcon(), u.showSettings)
	if u.opts.ReadOnly {
		bar := container.NewHBox(widget.NewLabel("Watching the shared board"), layout.NewSpacer(), mascot)
		return container.NewBorder(bar, u.status, nil, nil, u.board)
	}

	files := container.NewHBox(
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), u.showSave),
		widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), u.showOpen),
		widget.NewButtonWithIcon("Recent", theme.HistoryIcon(), u.showRecent),
		widget.NewButtonWithIcon("Share", theme.MailSendIcon(), u.showShare),
		layout.NewSpacer(),
		mascot,
	)
	top := container.NewVBox(u.toolbar.build(), files)
	return container.NewBorder(top, u.status, nil, nil, u.board)
}

func (u *UI) showSettings() {
	s := u.settings.Get()
	mascot := widget.NewSelect(settings.Mascots, nil)
	mascot.SetSelected(s.Mascot)
	sound := widget.NewCheck("Play sounds", nil)
	sound.SetChecked(s.SoundEnabled)

	form := []*widget.FormItem{
		widget.NewFormItem("Mascot", mascot),
		widget.NewFormItem("", sound),
	}
	dialog.ShowForm("Settings", "Save", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		u.settings.Update(func(s *settings.Settings) {
			if mascot.Selected != "" {
				s.Mascot = mascot.Selected
			}
			s.SoundEnabled = sound.Checked
		})
	}, u.win)
}

// SetStatus shows text under the board. Safe from any goroutine.
func (u *UI) SetStatus(text string) {
	fyne.Do(func() { u.status.SetText(text) })
}

// cheer plays the success chime.
func (u *UI) cheer() {
	if f := u.opts.Feedback; f != nil {
		f.Trigger(audio.CueSave, u.opts.Board.Tool())
	}
}
