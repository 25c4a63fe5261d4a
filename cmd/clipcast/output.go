package main

import (
	"fmt"
	"os"

	"clipcast/cmd/clipcast/cli"
	"clipcast/pkg/workflow"
)

// printQR prints the payload of snap as a terminal QR code and, when
// pngPath is set, also writes it as a PNG image
func (e *env) printQR(out *cli.Printer, snap workflow.Snapshot, pngPath string) error {
	renderer := e.renderer()
	code, err := renderer.Terminal(snap.Payload())
	if err != nil {
		return err
	}
	out.Plain(code)

	if pngPath == "" {
		return nil
	}
	data, err := renderer.PNG(snap.Payload())
	if err != nil {
		return err
	}
	if err := os.WriteFile(pngPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", pngPath, err)
	}
	out.Info("QR image written to " + pngPath)
	return nil
}
