//go:build !nogui
// +build !nogui

// Package gui is the desktop front end built on fyne. Like the terminal
// UI it only calls controller operations and renders snapshots.
package gui

import (
	"context"
	"image/color"

	"clipcast/internal/clipboard"
	"clipcast/internal/config"
	"clipcast/internal/log"
	"clipcast/internal/qr"
	"clipcast/pkg/workflow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	configPath string
	ctrl       *workflow.Controller
	renderer   *qr.Renderer

	accentColor color.NRGBA

	text *textCard
	file *fileCard
	qr   *qrOverlay
	busy *widget.ProgressBarInfinite
}

// NewApp creates the GUI with its own fyne application
func NewApp(cfg *config.Config, configPath string, opts ...workflow.Option) *App {
	return NewAppWith(app.NewWithID("io.github.clipcast"), cfg, configPath, opts...)
}

// NewAppWith builds the GUI on an existing fyne application. The
// controller reads the clipboard through the main window; opts can
// override any collaborator.
func NewAppWith(fyneApp fyne.App, cfg *config.Config, configPath string, opts ...workflow.Option) *App {
	renderer, err := qr.NewFromConfig(cfg)
	if err != nil {
		log.LogWithError(err).Warn("falling back to default QR colours")
		renderer = qr.New()
	}

	a := &App{
		fyneApp:     fyneApp,
		cfg:         cfg,
		configPath:  configPath,
		renderer:    renderer,
		accentColor: color.NRGBA{R: 255, G: 165, B: 0, A: 255},
	}
	a.mainWindow = fyneApp.NewWindow("ClipCast")

	base := []workflow.Option{workflow.WithClipboard(windowClipboard(a.mainWindow))}
	a.ctrl = workflow.NewFromConfig(cfg, append(base, opts...)...)

	a.setupMainWindow()
	a.ctrl.Subscribe(a.render)
	a.render(a.ctrl.Snapshot())
	return a
}

// windowClipboard reads text through the fyne window clipboard
func windowClipboard(w fyne.Window) clipboard.Reader {
	return clipboard.Func(func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return w.Clipboard().Content(), nil
	})
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Controller returns the workflow controller driving the window
func (a *App) Controller() *workflow.Controller {
	return a.ctrl
}

// Run shows the window and blocks until it is closed
func (a *App) Run() {
	a.mainWindow.Show()
	a.fyneApp.Run()
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(640, 720))

	title := canvas.NewText("ClipCast", a.accentColor)
	title.TextSize = 28
	title.TextStyle.Bold = true
	title.Alignment = fyne.TextAlignCenter

	toolbar := widget.NewToolbar(
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.SettingsIcon(), a.showSettings),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About ClipCast",
				"Turn text or files into a QR code.\n"+
					"Files are uploaded to a temporary file host\n"+
					"and the download link is encoded instead.",
				a.mainWindow)
		}),
	)

	a.text = newTextCard(a)
	a.file = newFileCard(a)
	a.qr = newQROverlay(a)
	a.busy = widget.NewProgressBarInfinite()
	a.busy.Hide()

	cards := container.NewVBox(a.text.card, a.file.card, a.busy)

	content := container.NewBorder(
		container.NewVBox(title, toolbar, canvas.NewLine(a.accentColor)),
		nil,
		nil,
		nil,
		container.NewStack(container.NewVScroll(cards), a.qr.container),
	)
	a.mainWindow.SetContent(content)
}

// render copies a snapshot into the widgets. It runs after every
// controller change, possibly from a worker goroutine.
func (a *App) render(s workflow.Snapshot) {
	a.text.render(s)
	a.file.render(s)
	a.qr.render(a, s)
	if s.Loading {
		a.busy.Show()
		a.busy.Start()
	} else {
		a.busy.Stop()
		a.busy.Hide()
	}
}

// ShowError displays an error dialog
func (a *App) ShowError(err error) {
	if err == nil {
		return
	}
	dialog.ShowError(err, a.mainWindow)
}

// StartGUI runs the desktop GUI until the window is closed
func StartGUI(cfg *config.Config, configPath string, opts ...workflow.Option) error {
	NewApp(cfg, configPath, opts...).Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
