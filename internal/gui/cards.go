//go:build !nogui
// +build !nogui

package gui

import (
	"context"
	"strings"

	"clipcast/internal/errors"
	"clipcast/internal/log"
	"clipcast/internal/selection"
	"clipcast/pkg/types"
	"clipcast/pkg/workflow"

	"fyne.io/fyne/v2"
	"github.com/dustin/go-humanize"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type textCard struct {
	card     *widget.Card
	entry    *widget.Entry
	paste    *widget.Button
	generate *widget.Button
	errLabel *widget.Label
}

func newTextCard(a *App) *textCard {
	c := &textCard{}
	c.entry = widget.NewMultiLineEntry()
	c.entry.SetPlaceHolder("Type or paste text...")
	c.entry.SetMinRowsVisible(4)
	c.entry.OnChanged = func(value string) {
		if err := a.ctrl.SetText(value); err != nil {
			log.LogWithError(err).Debug("text change rejected")
		}
	}

	c.paste = widget.NewButtonWithIcon("Paste", theme.ContentPasteIcon(), func() {
		go func() {
			// The failure message lands in the snapshot
			_ = a.ctrl.PasteFromClipboard(context.Background())
		}()
	})
	c.generate = widget.NewButtonWithIcon("Generate QR", theme.ConfirmIcon(), func() {
		if err := a.ctrl.GenerateTextQR(); err != nil && !errors.IsValidation(err) {
			a.ShowError(err)
		}
	})
	c.generate.Importance = widget.HighImportance

	c.errLabel = widget.NewLabel("")
	c.errLabel.Importance = widget.DangerImportance
	c.errLabel.Hide()

	c.card = widget.NewCard("Text", "Encode text directly",
		container.NewVBox(c.entry, container.NewHBox(c.paste, c.generate), c.errLabel))
	return c
}

func (c *textCard) render(s workflow.Snapshot) {
	if c.entry.Text != s.Text {
		c.entry.SetText(s.Text)
	}
	setEnabled(s.Mode == types.ModeNone && !s.Loading, c.entry, c.paste)
	setEnabled(s.CanGenerateText(), c.generate)
	setMessage(c.errLabel, s.ClipboardError)
}

type fileCard struct {
	card     *widget.Card
	paths    *widget.Entry
	browse   *widget.Button
	upload   *widget.Button
	files    *widget.Label
	errLabel *widget.Label
	notice   *widget.Label

	// selectErr is the last path resolution error; it is not part of
	// the controller state
	selectErr string
}

func newFileCard(a *App) *fileCard {
	c := &fileCard{}
	c.paths = widget.NewEntry()
	c.paths.SetPlaceHolder("Paths or globs, separated by spaces")
	c.paths.OnChanged = func(string) { c.loadSelection(a) }

	c.browse = widget.NewButtonWithIcon("Browse...", theme.FolderOpenIcon(), func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				a.ShowError(err)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()
			c.paths.SetText(strings.TrimSpace(c.paths.Text + " " + reader.URI().Path()))
		}, a.mainWindow)
	})

	c.upload = widget.NewButtonWithIcon("Upload & Generate QR", theme.UploadIcon(), func() {
		go func() {
			// Failures are recorded in the snapshot
			_ = a.ctrl.UploadAndGenerateFileQR(context.Background())
		}()
	})
	c.upload.Importance = widget.HighImportance

	c.files = widget.NewLabel("No files selected")
	c.files.Wrapping = fyne.TextWrapWord
	c.errLabel = widget.NewLabel("")
	c.errLabel.Importance = widget.DangerImportance
	c.errLabel.Hide()
	c.notice = widget.NewLabel(a.cfg.Upload.Notice)
	c.notice.Importance = widget.LowImportance

	c.card = widget.NewCard("Files", "Upload and encode the download link",
		container.NewVBox(
			container.NewBorder(nil, nil, nil, c.browse, c.paths),
			c.files,
			c.upload,
			c.errLabel,
			c.notice,
		))
	return c
}

// loadSelection resolves the path entry and hands the files to the
// controller. A resolution error empties the selection.
func (c *fileCard) loadSelection(a *App) {
	entries, err := selection.Load(strings.Fields(c.paths.Text), selection.Options{
		Exclude:  a.cfg.Selection.Exclude,
		MaxBytes: a.cfg.Upload.MaxBytes,
	})
	c.selectErr = ""
	if err != nil {
		c.selectErr = err.Error()
		entries = nil
	}
	if err := a.ctrl.SelectFiles(entries); err != nil {
		log.LogWithError(err).Debug("selection rejected")
	}
}

// clear empties the path entry without reloading the selection
func (c *fileCard) clear(a *App) {
	c.paths.OnChanged = nil
	c.paths.SetText("")
	c.paths.OnChanged = func(string) { c.loadSelection(a) }
	c.selectErr = ""
}

func (c *fileCard) render(s workflow.Snapshot) {
	enabled := s.Mode == types.ModeNone && !s.Loading
	setEnabled(enabled, c.paths, c.browse, c.upload)

	if len(s.Files) == 0 {
		c.files.SetText("No files selected")
	} else {
		names := make([]string, len(s.Files))
		for i, e := range s.Files {
			names[i] = e.String()
		}
		c.files.SetText(strings.Join(names, "\n") + "\nTotal: " + humanize.IBytes(uint64(s.TotalSize())))
	}

	msg := s.FileError
	if msg == "" {
		msg = c.selectErr
	}
	setMessage(c.errLabel, msg)
}

type enabler interface {
	Enable()
	Disable()
}

func setEnabled(enabled bool, widgets ...enabler) {
	for _, w := range widgets {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

func setMessage(label *widget.Label, msg string) {
	label.SetText(msg)
	if msg == "" {
		label.Hide()
	} else {
		label.Show()
	}
}
