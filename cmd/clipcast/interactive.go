package main

import (
	"fmt"

	"clipcast/internal/gui"
	"clipcast/internal/tui"

	"github.com/spf13/cobra"
)

// newTUICmd represents the TUI command
func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal user interface",
		Long:  `Start the terminal user interface with a text card, a file card and a QR overlay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Run(e.controller(), e.cfg); err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
}

// newGUICmd creates the GUI command for the CLI
func newGUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical user interface",
		Long:  `Launch the desktop window. Settings changed there are saved to the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return fmt.Errorf("this build has no GUI; use 'clipcast tui'")
			}
			// The GUI reads the clipboard through its own window
			return gui.StartGUI(e.cfg, e.cfgPath, e.opts...)
		},
	}
}
