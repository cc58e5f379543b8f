package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	dnet "DecodingDen/internal/net"
)

// showShare displays the join link as text and as a QR code.
func (u *UI) showShare() {
	link := u.opts.ShareLink
	if link == "" {
		dialog.ShowInformation("Share", "Sharing is not running.", u.win)
		return
	}

	entry := widget.NewEntry()
	entry.SetText(link)
	copyBtn := widget.NewButton("Copy link", func() {
		u.win.Clipboard().SetContent(link)
		u.SetStatus("Join link copied")
	})

	items := []fyne.CanvasObject{
		widget.NewLabel("Students open this link, or scan the code, to watch the board:"),
		container.NewBorder(nil, nil, nil, copyBtn, entry),
	}
	if png, err := dnet.QRCode(link, 256); err != nil {
		u.log.Warn().Err(err).Msg("no QR code for share link")
	} else {
		img := canvas.NewImageFromResource(fyne.NewStaticResource("join.png", png))
		img.FillMode = canvas.ImageFillOriginal
		items = append(items, container.NewCenter(img))
	}
	if u.opts.Viewers != nil {
		items = append(items, widget.NewLabel(fmt.Sprintf("Watching now: %d", u.opts.Viewers())))
	}
	dialog.ShowCustom("Share this board", "Close", container.NewVBox(items...), u.win)
}
