//go:build !nogui
// +build !nogui

package gui

import (
	"fmt"

	"clipcast/internal/log"
	"clipcast/pkg/types"
	"clipcast/pkg/workflow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
)

// qrOverlay covers the cards while a QR code is displayed
type qrOverlay struct {
	container *fyne.Container
	title     *widget.Label
	image     *canvas.Image
	url       *widget.Hyperlink
	meta      *widget.Label
	copyLink  *widget.Button
	dismiss   *widget.Button

	payload string
}

func newQROverlay(a *App) *qrOverlay {
	o := &qrOverlay{}
	o.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	o.image = canvas.NewImageFromImage(nil)
	o.image.FillMode = canvas.ImageFillContain
	o.image.ScaleMode = canvas.ImageScalePixels
	side := float32(a.renderer.Size)
	o.image.SetMinSize(fyne.NewSize(side, side))

	o.url = widget.NewHyperlink("", nil)
	o.url.Alignment = fyne.TextAlignCenter
	o.url.Hide()

	o.meta = widget.NewLabel("")
	o.meta.Alignment = fyne.TextAlignCenter
	o.meta.Importance = widget.LowImportance

	o.copyLink = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		a.mainWindow.Clipboard().SetContent(o.payload)
	})
	o.dismiss = widget.NewButtonWithIcon("Dismiss", theme.CancelIcon(), func() {
		a.file.clear(a)
		a.ctrl.Reset()
	})

	background := canvas.NewRectangle(theme.BackgroundColor())
	o.container = container.NewStack(background, container.NewCenter(container.NewVBox(
		o.title,
		o.image,
		o.url,
		o.meta,
		container.NewCenter(container.NewHBox(o.copyLink, o.dismiss)),
	)))
	o.container.Hide()
	return o
}

func (o *qrOverlay) render(a *App, s workflow.Snapshot) {
	if s.View() != types.ViewDisplaying {
		o.payload = ""
		o.container.Hide()
		return
	}

	o.payload = s.Payload()
	img, err := a.renderer.Image(o.payload)
	if err != nil {
		log.LogWithError(err).Error("cannot render QR code")
		o.image.Image = nil
	} else {
		o.image.Image = img
	}
	o.image.Refresh()

	if s.Mode == types.ModeFile {
		o.title.SetText("File QR code")
		if err := o.url.SetURLFromString(o.payload); err == nil {
			o.url.SetText(o.payload)
			o.url.Show()
		}
		if r := s.Receipt; r != nil {
			o.meta.SetText(fmt.Sprintf("%s · %s\nblake3 %s", r.Filename, humanize.IBytes(uint64(r.Size)), r.Digest))
			o.meta.Show()
		}
	} else {
		o.title.SetText("Text QR code")
		o.url.Hide()
		o.meta.Hide()
	}
	if err != nil {
		o.title.SetText("Cannot render QR code")
	}
	o.container.Show()
}
