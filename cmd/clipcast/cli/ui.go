// Package cli holds the styled output helpers of the one-shot commands.
package cli

import (
	"fmt"
	"io"

	"clipcast/internal/tui/styles"
)

const logo = `
   ___ _ _       ___         _
  / __| (_)_ __ / __|__ _ __| |_
 | (__| | | '_ \ (__/ _' (_-<  _|
  \___|_|_| .__/\___\__,_/__/\__|
          |_|`

// DrawLogo renders the ClipCast banner in the theme's title colour
func DrawLogo(theme styles.Theme) string {
	return theme.Title.Render(logo)
}

// Printer writes themed lines to one writer
type Printer struct {
	w     io.Writer
	theme styles.Theme
}

// NewPrinter creates a printer
func NewPrinter(w io.Writer, theme styles.Theme) *Printer {
	return &Printer{w: w, theme: theme}
}

// Success prints a success message
func (p *Printer) Success(message string) {
	fmt.Fprintln(p.w, p.theme.Success.Render("✓ "+message))
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintln(p.w, p.theme.Error.Render("✗ "+message))
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	fmt.Fprintln(p.w, p.theme.Info.Render(message))
}

// Header prints a bold header line
func (p *Printer) Header(message string) {
	fmt.Fprintln(p.w, p.theme.Title.UnsetMarginBottom().Render(message))
}

// Plain prints message unstyled
func (p *Printer) Plain(message string) {
	fmt.Fprintln(p.w, message)
}
