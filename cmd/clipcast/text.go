package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"clipcast/cmd/clipcast/cli"
	"clipcast/internal/errors"
	"clipcast/internal/log"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newTextCmd encodes text from the arguments, the clipboard or stdin
func newTextCmd(e *env) *cobra.Command {
	var (
		paste   bool
		pngPath string
	)

	cmd := &cobra.Command{
		Use:   "text [TEXT...]",
		Short: "Encode text as a QR code",
		Long: `Encode text as a QR code printed to the terminal.

The text comes from the arguments, from the clipboard with --paste, or from
standard input when it is not a terminal. Surrounding whitespace is trimmed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := e.controller()
			out := cli.NewPrinter(cmd.OutOrStdout(), e.theme)

			switch {
			case paste:
				if err := ctrl.PasteFromClipboard(cmd.Context()); err != nil {
					log.LogWithError(err).Debug("paste failed")
					return fmt.Errorf("%s", ctrl.Snapshot().ClipboardError)
				}
			case len(args) > 0:
				if err := ctrl.SetText(strings.Join(args, " ")); err != nil {
					return err
				}
			default:
				text, err := readPiped(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if err := ctrl.SetText(text); err != nil {
					return err
				}
			}

			if err := ctrl.GenerateTextQR(); err != nil {
				if errors.IsValidation(err) {
					return fmt.Errorf("nothing to encode: pass TEXT, use --paste or pipe text on stdin")
				}
				return err
			}

			snap := ctrl.Snapshot()
			if err := e.printQR(out, snap, pngPath); err != nil {
				return err
			}
			out.Info(fmt.Sprintf("%d characters encoded", len(snap.Payload())))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&paste, "paste", "p", false, "Read the text from the clipboard")
	cmd.Flags().StringVar(&pngPath, "png", "", "Also write the QR code as a PNG image to this path")

	return cmd
}

// readPiped reads r unless it is an interactive terminal
func readPiped(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading standard input")
	}
	return string(data), nil
}
