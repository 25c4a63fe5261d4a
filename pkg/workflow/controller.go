// Package workflow holds the ClipCast controller: the only place that
// mutates session state. Front ends call its operations and render the
// snapshots it publishes.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"clipcast/internal/archive"
	"clipcast/internal/clipboard"
	"clipcast/internal/config"
	"clipcast/internal/errors"
	"clipcast/internal/log"
	"clipcast/internal/upload"
	"clipcast/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrDiscarded is returned by a blocking operation whose result arrived
// after the session was reset or changed mode
var ErrDiscarded = errors.New("result discarded: workflow changed while waiting")

// Packager bundles several files into one blob
type Packager interface {
	Build(entries []types.Entry) ([]byte, error)
}

// Uploader sends one blob and returns where it can be fetched
type Uploader interface {
	Upload(ctx context.Context, filename string, body []byte) (*types.Receipt, error)
}

// Controller owns the session state. It is safe for concurrent use;
// blocking calls run without holding the lock.
type Controller struct {
	mu    sync.Mutex
	state Snapshot

	packager    Packager
	uploader    Uploader
	clipboard   clipboard.Reader
	maxBytes    int64
	archiveName string

	session   string
	logger    *log.Logger
	observers map[int]func(Snapshot)
	nextID    int
}

// Option configures a Controller
type Option func(*Controller)

// WithPackager sets the archive builder used for multi-file uploads
func WithPackager(p Packager) Option {
	return func(c *Controller) { c.packager = p }
}

// WithUploader sets the upload gateway
func WithUploader(u Uploader) Option {
	return func(c *Controller) { c.uploader = u }
}

// WithClipboard sets the clipboard reader
func WithClipboard(r clipboard.Reader) Option {
	return func(c *Controller) { c.clipboard = r }
}

// WithMaxBytes sets the client-side size limit
func WithMaxBytes(n int64) Option {
	return func(c *Controller) { c.maxBytes = n }
}

// WithArchiveName sets the filename used for multi-file uploads
func WithArchiveName(name string) Option {
	return func(c *Controller) { c.archiveName = name }
}

// WithLogger sets the logger; the package-level logger is used otherwise
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller. Without options it packages with the zip
// builder, uploads to the default endpoint and has no clipboard.
func New(opts ...Option) *Controller {
	c := &Controller{
		packager:    archive.New(),
		uploader:    upload.New(config.DefaultEndpoint),
		clipboard:   clipboard.Unsupported{},
		maxBytes:    config.DefaultMaxBytes,
		archiveName: config.DefaultArchiveName,
		session:     uuid.NewString(),
		observers:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// NewFromConfig creates a controller wired to the gateway and limits of
// cfg. Later options override.
func NewFromConfig(cfg *config.Config, opts ...Option) *Controller {
	base := []Option{
		WithUploader(upload.NewFromConfig(cfg)),
		WithMaxBytes(cfg.Upload.MaxBytes),
		WithArchiveName(cfg.Upload.ArchiveName),
	}
	return New(append(base, opts...)...)
}

// Session returns the id attached to this controller's log lines
func (c *Controller) Session() string {
	return c.session
}

func (c *Controller) entry(op string) *log.Entry {
	return c.logger.With(log.F("session", c.session), log.F("op", op))
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change, outside the lock. The
// returned func removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// commit must be called with the lock held. It returns a function that
// notifies observers and must be called after unlocking.
func (c *Controller) commit() func() {
	snap := c.state.clone()
	fns := make([]func(Snapshot), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// checkInputs must be called with the lock held
func (c *Controller) checkInputs() error {
	if c.state.Mode != types.ModeNone || c.state.Loading {
		return errors.ErrInputsDisabled
	}
	return nil
}

// SetText replaces the text payload. No validation happens until
// GenerateTextQR.
func (c *Controller) SetText(value string) error {
	c.mu.Lock()
	if err := c.checkInputs(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.Text = value
	notify := c.commit()
	c.mu.Unlock()

	notify()
	return nil
}

// PasteFromClipboard replaces the text payload with the clipboard text.
// On failure the text is left alone and ClipboardError is set.
func (c *Controller) PasteFromClipboard(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkInputs(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.ClipboardError = ""
	gen := c.state.Generation
	notify := c.commit()
	c.mu.Unlock()
	notify()

	text, err := c.clipboard.ReadText(ctx)

	c.mu.Lock()
	if gen != c.state.Generation {
		c.mu.Unlock()
		c.entry("paste").Debug("clipboard result discarded")
		return ErrDiscarded
	}
	if err != nil {
		c.state.ClipboardError = MsgClipboardDenied
	} else {
		c.state.Text = text
	}
	notify = c.commit()
	c.mu.Unlock()
	notify()

	if err != nil {
		c.entry("paste").WithError(err).Warn("clipboard read failed")
		if !errors.IsClipboardDenied(err) {
			err = errors.NewClipboardError(err)
		}
		return err
	}
	c.entry("paste").With(log.F("chars", len(text))).Debug("pasted from clipboard")
	return nil
}

// GenerateTextQR switches to the QR display with the trimmed text as
// payload. It never touches the network.
func (c *Controller) GenerateTextQR() error {
	c.mu.Lock()
	if err := c.checkInputs(); err != nil {
		c.mu.Unlock()
		return err
	}
	if strings.TrimSpace(c.state.Text) == "" {
		c.mu.Unlock()
		return errors.NewValidationError("text is empty", "text")
	}
	c.state.Mode = types.ModeText
	c.state.Files = nil
	c.state.Receipt = nil
	c.state.Generation++
	chars := len(strings.TrimSpace(c.state.Text))
	notify := c.commit()
	c.mu.Unlock()
	notify()

	c.entry("generate_text").With(log.F("chars", chars)).Info("text QR generated")
	return nil
}

// SelectFiles replaces the file selection with entries, in order
func (c *Controller) SelectFiles(entries []types.Entry) error {
	c.mu.Lock()
	if err := c.checkInputs(); err != nil {
		c.mu.Unlock()
		return err
	}
	if len(entries) == 0 {
		c.state.Files = nil
	} else {
		c.state.Files = append([]types.Entry(nil), entries...)
	}
	c.state.Receipt = nil
	notify := c.commit()
	c.mu.Unlock()
	notify()

	c.entry("select").With(log.F("files", len(entries)), log.F("bytes", types.TotalSize(entries))).Debug("files selected")
	return nil
}

// UploadAndGenerateFileQR uploads the selection and, on success, shows
// its URL. One file is sent as is; several are zipped into one archive
// first. Every upload failure records the same user message; the
// returned error keeps the cause.
func (c *Controller) UploadAndGenerateFileQR(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Mode != types.ModeNone {
		c.mu.Unlock()
		return errors.ErrInputsDisabled
	}
	if c.state.Loading {
		c.mu.Unlock()
		return errors.ErrBusy
	}
	c.state.FileError = ""
	c.state.Receipt = nil

	if len(c.state.Files) == 0 {
		c.state.FileError = MsgSelectFiles
		notify := c.commit()
		c.mu.Unlock()
		notify()
		return errors.NewValidationError("select at least one file", "files")
	}

	if total := types.TotalSize(c.state.Files); total > c.maxBytes {
		c.state.FileError = fmt.Sprintf("Total upload must be under %s.", limitLabel(c.maxBytes, "MB"))
		notify := c.commit()
		c.mu.Unlock()
		notify()
		c.entry("upload").With(log.F("bytes", total), log.F("limit", c.maxBytes)).Warn("selection over size limit")
		return errors.NewValidationError("size exceeds "+limitLabel(c.maxBytes, " MiB"), "files")
	}

	// A paste still in flight must not land while inputs are disabled
	c.state.Loading = true
	c.state.Generation++
	gen := c.state.Generation
	files := c.state.Files
	notify := c.commit()
	c.mu.Unlock()
	notify()

	logger := c.entry("upload").With(log.F("files", len(files)))
	receipt, err := c.send(ctx, files)

	c.mu.Lock()
	if gen != c.state.Generation {
		c.mu.Unlock()
		logger.Info("upload result discarded after reset")
		return ErrDiscarded
	}
	c.state.Loading = false
	if err != nil {
		c.state.FileError = MsgUploadFailed
	} else {
		c.state.Receipt = receipt
		c.state.Mode = types.ModeFile
		c.state.Text = ""
		c.state.Generation++
	}
	notify = c.commit()
	c.mu.Unlock()
	notify()

	if err != nil {
		logger.WithError(err).Error("upload failed")
		return err
	}
	logger.With(log.F("url", receipt.URL), log.F("digest", receipt.Digest)).Info("file QR generated")
	return nil
}

// send packages files when needed and uploads the body. All failures come
// back as *errors.UploadError.
func (c *Controller) send(ctx context.Context, files []types.Entry) (*types.Receipt, error) {
	body, name := files[0].Content, files[0].Name
	if len(files) > 1 {
		packed, err := c.packager.Build(files)
		if err != nil {
			return nil, errors.NewUploadError("package", err)
		}
		body, name = packed, c.archiveName
	}

	receipt, err := c.uploader.Upload(ctx, name, body)
	if err != nil {
		if errors.IsUploadFailed(err) {
			return nil, err
		}
		return nil, errors.NewUploadError("transport", err)
	}
	if receipt == nil || strings.TrimSpace(receipt.URL) == "" {
		return nil, errors.NewUploadError("response", errors.New("no URL returned"))
	}
	return receipt, nil
}

// Reset returns to the idle view and clears everything. Results of calls
// still in flight are discarded when they arrive.
func (c *Controller) Reset() {
	c.mu.Lock()
	gen := c.state.Generation + 1
	c.state = Snapshot{Generation: gen}
	notify := c.commit()
	c.mu.Unlock()
	notify()

	c.entry("reset").With(log.F("generation", gen)).Debug("workflow reset")
}

// limitLabel formats n bytes in whole MiB when possible
func limitLabel(n int64, unit string) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%d%s", n/mib, unit)
	}
	return humanize.IBytes(uint64(n))
}
