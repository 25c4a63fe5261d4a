//go:build !nogui
// +build !nogui

package gui

import (
	"fmt"
	"strconv"
	"strings"

	"clipcast/internal/config"
	"clipcast/internal/log"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showSettings edits the upload settings and writes them to the config
// file. Changes apply from the next start.
func (a *App) showSettings() {
	endpoint := widget.NewEntry()
	endpoint.SetText(a.cfg.Upload.Endpoint)
	timeout := widget.NewEntry()
	timeout.SetText(strconv.Itoa(a.cfg.Upload.TimeoutSeconds))
	exclude := widget.NewEntry()
	exclude.SetText(strings.Join(a.cfg.Selection.Exclude, " "))
	themeSelect := widget.NewSelect(config.ListThemes(), nil)
	themeSelect.SetSelected(a.cfg.Theme.Name)

	items := []*widget.FormItem{
		widget.NewFormItem("Upload endpoint", endpoint),
		widget.NewFormItem("Timeout (seconds)", timeout),
		widget.NewFormItem("Exclude patterns", exclude),
		widget.NewFormItem("Terminal theme", themeSelect),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		updated, err := a.applySettings(endpoint.Text, timeout.Text, exclude.Text, themeSelect.Selected)
		if err != nil {
			a.ShowError(err)
			return
		}
		if a.configPath == "" {
			dialog.ShowInformation("Settings", "No config file in use; settings were not saved.", a.mainWindow)
			return
		}
		if err := config.SaveConfig(updated, a.configPath); err != nil {
			a.ShowError(err)
			return
		}
		log.LogWithFields(log.F("path", a.configPath)).Info("settings saved")
		dialog.ShowInformation("Settings", "Saved. Restart ClipCast to apply.", a.mainWindow)
	}, a.mainWindow)
}

// applySettings returns a copy of the config with the form values
// applied, or the validation error
func (a *App) applySettings(endpoint, timeout, exclude, themeName string) (*config.Config, error) {
	updated := *a.cfg
	updated.Upload.Endpoint = strings.TrimSpace(endpoint)

	seconds, err := strconv.Atoi(strings.TrimSpace(timeout))
	if err != nil {
		return nil, fmt.Errorf("timeout must be a whole number of seconds")
	}
	updated.Upload.TimeoutSeconds = seconds
	updated.Selection.Exclude = strings.Fields(exclude)
	if themeName != "" {
		updated.ApplyTheme(themeName)
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return &updated, nil
}
