package ui

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"DecodingDen/internal/export"
	"DecodingDen/internal/state"
	"DecodingDen/internal/store"
)

// writeBoard saves the board in the format named by ext.
func writeBoard(w io.Writer, ext string, strokes []state.Stroke, img image.Image, title string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return export.PNG(w, img, title)
	case ".pdf":
		return export.PDF(w, img, title)
	case ".json", "":
		data, err := state.EncodeStrokes(strokes)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported file type %q, use .json, .png or .pdf", ext)
}

func (u *UI) showSave() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if wc == nil {
			return
		}
		u.saveTo(wc)
	}, u.win)
	d.SetFileName("board-" + time.Now().Format("2006-01-02") + ".json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json", ".png", ".pdf"}))
	d.Show()
}

func (u *UI) saveTo(wc fyne.URIWriteCloser) {
	defer func() {
		if err := wc.Close(); err != nil {
			u.log.Error().Err(err).Msg("error closing writer")
		}
	}()

	b := u.opts.Board
	name := strings.TrimSuffix(wc.URI().Name(), wc.URI().Extension())
	strokes := b.Strokes()
	if err := writeBoard(wc, wc.URI().Extension(), strokes, b.Image(), name); err != nil {
		u.log.Error().Err(err).Str("uri", wc.URI().String()).Msg("save failed")
		dialog.ShowError(err, u.win)
		return
	}

	if st := u.opts.Store; st != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := st.SaveBoard(ctx, name, strokes); err != nil {
			u.log.Warn().Err(err).Msg("board not added to recent boards")
		}
	}
	b.Saved()
	u.SetStatus(fmt.Sprintf("Saved %d strokes to %s", len(strokes), wc.URI().Name()))
	u.log.Info().Str("uri", wc.URI().String()).Int("strokes", len(strokes)).Msg("board saved")
}

func (u *UI) showOpen() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("read %s: %w", rc.URI().Name(), err), u.win)
			return
		}
		strokes, err := state.DecodeStrokes(data)
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		u.opts.Board.Load(strokes)
		u.SetStatus(fmt.Sprintf("Loaded %d strokes from %s", len(strokes), rc.URI().Name()))
	}, u.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

// showRecent lists boards kept in the local store.
func (u *UI) showRecent() {
	st := u.opts.Store
	if st == nil {
		dialog.ShowInformation("Recent boards", "Saved boards are not available.", u.win)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	boards, err := st.ListBoards(ctx, 20)
	if err != nil {
		dialog.ShowError(err, u.win)
		return
	}
	if len(boards) == 0 {
		dialog.ShowInformation("Recent boards", "No boards saved yet.", u.win)
		return
	}

	var d dialog.Dialog
	list := widget.NewList(
		func() int { return len(boards) },
		func() fyne.CanvasObject { return widget.NewLabel("board name and date") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			b := boards[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  (%d strokes, %s)", b.Name, b.Count, b.CreatedAt.Format("Jan 2 15:04")))
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		u.loadStored(boards[i])
		d.Hide()
	}
	scroll := container.NewVScroll(list)
	scroll.SetMinSize(fyne.NewSize(420, 300))
	d = dialog.NewCustom("Recent boards", "Close", scroll, u.win)
	d.Show()
}

func (u *UI) loadStored(b store.SavedBoard) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, strokes, err := u.opts.Store.LoadBoard(ctx, b.ID)
	if err != nil {
		dialog.ShowError(err, u.win)
		return
	}
	u.opts.Board.Load(strokes)
	u.SetStatus(fmt.Sprintf("Opened %s", b.Name))
}
