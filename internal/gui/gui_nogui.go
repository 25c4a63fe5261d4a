//go:build nogui
// +build nogui

package gui

import (
	"fmt"

	"clipcast/internal/config"
	"clipcast/pkg/workflow"
)

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(cfg *config.Config, configPath string, opts ...workflow.Option) error {
	return fmt.Errorf("GUI not available in this build; use the tui or text/file commands")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
