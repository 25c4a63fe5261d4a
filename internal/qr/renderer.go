// Package qr renders payload strings as QR codes for the terminal and
// for image surfaces.
package qr

import (
	"image"
	"image/color"
	"strings"

	"clipcast/internal/config"
	"clipcast/internal/errors"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"
)

// Renderer turns payloads into QR codes. The zero value is not usable;
// call New or NewFromConfig.
type Renderer struct {
	Size       int
	Foreground color.Color
	Background color.Color
	// Inverse swaps dark and light cells in terminal output, which reads
	// better on dark terminals
	Inverse bool
}

// New returns a renderer with white modules on black, 260 pixels square
func New() *Renderer {
	return &Renderer{
		Size:       260,
		Foreground: color.White,
		Background: color.Black,
	}
}

// NewFromConfig builds a renderer from the qr section of cfg
func NewFromConfig(cfg *config.Config) (*Renderer, error) {
	fg, err := colorful.Hex(cfg.QR.Foreground)
	if err != nil {
		return nil, errors.NewConfigError("invalid qr color", "qr.foreground", errors.InvalidConfig, err)
	}
	bg, err := colorful.Hex(cfg.QR.Background)
	if err != nil {
		return nil, errors.NewConfigError("invalid qr color", "qr.background", errors.InvalidConfig, err)
	}
	fgL, _, _ := fg.Lab()
	bgL, _, _ := bg.Lab()
	return &Renderer{
		Size:       cfg.QR.Size,
		Foreground: fg,
		Background: bg,
		// Light modules on a dark background match dark terminals
		Inverse: fgL > bgL,
	}, nil
}

func (r *Renderer) encode(payload string) (*qrcode.QRCode, error) {
	if payload == "" {
		return nil, errors.NewValidationError("nothing to encode", "payload")
	}
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode QR code")
	}
	code.ForegroundColor = r.Foreground
	code.BackgroundColor = r.Background
	return code, nil
}

// Terminal renders payload with half-block characters, two modules per
// character cell
func (r *Renderer) Terminal(payload string) (string, error) {
	code, err := r.encode(payload)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(code.ToSmallString(r.Inverse), "\n"), nil
}

// Image renders payload as a square image of r.Size pixels
func (r *Renderer) Image(payload string) (image.Image, error) {
	code, err := r.encode(payload)
	if err != nil {
		return nil, err
	}
	return code.Image(r.Size), nil
}

// PNG renders payload as PNG bytes
func (r *Renderer) PNG(payload string) ([]byte, error) {
	code, err := r.encode(payload)
	if err != nil {
		return nil, err
	}
	return code.PNG(r.Size)
}
