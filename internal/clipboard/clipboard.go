// Package clipboard reads text from the system clipboard.
package clipboard

import (
	"context"

	"clipcast/internal/errors"

	"github.com/atotto/clipboard"
)

// ErrAccessDenied is returned when the clipboard cannot be read
var ErrAccessDenied = errors.NewClipboardError(nil)

// Reader reads text from a clipboard
type Reader interface {
	ReadText(ctx context.Context) (string, error)
}

// System reads the operating system clipboard
type System struct{}

// NewSystem returns the system clipboard, or Unsupported when no backend
// (xclip, xsel, wl-clipboard, pbpaste...) is available.
func NewSystem() Reader {
	if clipboard.Unsupported {
		return Unsupported{}
	}
	return System{}
}

// ReadText reads the clipboard. The backend runs an external command on
// most platforms, so the read happens on its own goroutine and ctx can
// abandon it.
func (System) ReadText(ctx context.Context) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := clipboard.ReadAll()
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", errors.NewClipboardError(ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", errors.NewClipboardError(r.err)
		}
		return r.text, nil
	}
}

// Unsupported is the reader used when the platform has no clipboard
type Unsupported struct{}

// ReadText always fails
func (Unsupported) ReadText(context.Context) (string, error) {
	return "", errors.NewClipboardError(errors.New("no clipboard backend available"))
}

// Static returns fixed text or a fixed error. The CLI uses it for piped
// input and tests use it as a stub.
type Static struct {
	Text string
	Err  error
}

// ReadText returns the configured text or error
func (s Static) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.NewClipboardError(err)
	}
	if s.Err != nil {
		if errors.IsClipboardDenied(s.Err) {
			return "", s.Err
		}
		return "", errors.NewClipboardError(s.Err)
	}
	return s.Text, nil
}

// Func adapts a function to Reader
type Func func(ctx context.Context) (string, error)

// ReadText calls f and normalizes its error
func (f Func) ReadText(ctx context.Context) (string, error) {
	text, err := f(ctx)
	if err != nil && !errors.IsClipboardDenied(err) {
		return "", errors.NewClipboardError(err)
	}
	return text, err
}
