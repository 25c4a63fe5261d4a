// Package upload sends one file to the remote file host and returns the
// retrieval URL found in its JSON answer.
package upload

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"clipcast/internal/config"
	"clipcast/internal/errors"
	"clipcast/internal/log"
	"clipcast/pkg/types"

	"github.com/tidwall/gjson"
	"github.com/zeebo/blake3"
)

// maxResponseBytes caps how much of the service's answer is read
const maxResponseBytes = 1 << 20

// Gateway performs a single multipart POST per upload. It never retries.
type Gateway struct {
	endpoint string
	field    string
	urlPath  string
	client   *http.Client
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.client = c
	}
}

// WithField sets the multipart field name carrying the file
func WithField(field string) Option {
	return func(g *Gateway) {
		g.field = field
	}
}

// WithURLPath sets the dotted path of the URL inside the JSON response
func WithURLPath(p string) Option {
	return func(g *Gateway) {
		g.urlPath = p
	}
}

// WithTimeout bounds each request; zero leaves the client without a timeout
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.client = &http.Client{Timeout: d}
	}
}

// New creates a gateway for endpoint with the tmpfiles.org response shape
func New(endpoint string, opts ...Option) *Gateway {
	g := &Gateway{
		endpoint: endpoint,
		field:    "file",
		urlPath:  "data.url",
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromConfig creates a gateway from the upload section of cfg
func NewFromConfig(cfg *config.Config) *Gateway {
	return New(cfg.Upload.Endpoint,
		WithField(cfg.Upload.Field),
		WithURLPath(cfg.Upload.URLPath),
		WithTimeout(cfg.Timeout()),
	)
}

// Endpoint returns the URL uploads are posted to
func (g *Gateway) Endpoint() string {
	return g.endpoint
}

// Upload posts body as filename. Every failure is an *errors.UploadError
// whose stage tells where it broke.
func (g *Gateway) Upload(ctx context.Context, filename string, body []byte) (*types.Receipt, error) {
	logger := log.LogWithFields(log.F("endpoint", g.endpoint), log.F("filename", filename), log.F("bytes", len(body)))

	payload, contentType, err := g.encode(filename, body)
	if err != nil {
		return nil, errors.NewUploadError("encode", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, payload)
	if err != nil {
		return nil, errors.NewUploadError("transport", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.NewUploadError("transport", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewUploadError("transport", fmt.Errorf("failed to read response: %w", err))
	}
	logger.With(log.F("status", resp.StatusCode), log.F("elapsed", time.Since(start).String())).Debug("upload response received")

	// A service-side size limit usually surfaces here as 413
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewUploadError("status", fmt.Errorf("unexpected status %s", resp.Status))
	}

	link, err := g.extractURL(raw)
	if err != nil {
		return nil, errors.NewUploadError("response", err)
	}

	digest := blake3.Sum256(body)
	receipt := &types.Receipt{
		URL:      link,
		Filename: filename,
		Size:     int64(len(body)),
		Digest:   hex.EncodeToString(digest[:]),
	}
	logger.With(log.F("url", link)).Info("upload complete")
	return receipt, nil
}

func (g *Gateway) encode(filename string, body []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	buf.Grow(len(body) + 512)
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(g.field, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(body); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (g *Gateway) extractURL(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("response is not valid JSON")
	}
	result := gjson.GetBytes(raw, g.urlPath)
	if !result.Exists() {
		return "", fmt.Errorf("response has no %q field", g.urlPath)
	}
	if result.Type != gjson.String {
		return "", fmt.Errorf("response field %q is not a string", g.urlPath)
	}
	link := strings.TrimSpace(result.String())
	if link == "" {
		return "", fmt.Errorf("response field %q is empty", g.urlPath)
	}
	return link, nil
}
