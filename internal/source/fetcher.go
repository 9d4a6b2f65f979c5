// Package source retrieves raw spreadsheet documents.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/profinance-crm/profinance/internal/sheet"
)

// IDPlaceholder is replaced by the dataset id in URL templates.
const IDPlaceholder = "{id}"

// DefaultMaxBodyBytes bounds a single response body.
const DefaultMaxBodyBytes int64 = 10 << 20

// DefaultTimeout bounds a single candidate request.
const DefaultTimeout = 30 * time.Second

// DefaultTemplates are the Google Sheets "publish to web" and export endpoints.
var DefaultTemplates = []string{
	"https://docs.google.com/spreadsheets/d/{id}/pub?gid=0&single=true&output=csv",
	"https://docs.google.com/spreadsheets/d/{id}/export?gid=0&format=csv",
}

// Document is a fetched spreadsheet body.
type Document struct {
	Format sheet.Format
	Body   []byte
	Origin string // URL or path the body came from
}

// Text returns the body as a string.
func (d Document) Text() string { return string(d.Body) }

// Source produces the document for a dataset id.
type Source interface {
	Fetch(ctx context.Context, datasetID string) (Document, error)
}

// Func adapts an ordinary function to Source.
type Func func(ctx context.Context, datasetID string) (Document, error)

// Fetch calls f(ctx, datasetID).
func (f Func) Fetch(ctx context.Context, datasetID string) (Document, error) {
	return f(ctx, datasetID)
}

// Fetcher tries an ordered list of candidate URLs and returns the first
// successful body. There are no retries beyond the list and no backoff.
type Fetcher struct {
	client       *http.Client
	templates    []string
	maxBodyBytes int64
	logger       zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTemplates replaces the candidate URL templates. Each must contain IDPlaceholder.
func WithTemplates(templates ...string) Option {
	return func(f *Fetcher) { f.templates = templates }
}

// WithMaxBodyBytes sets the response size limit.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBodyBytes = n }
}

// WithLogger sets the logger used for failed attempts.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher with the default templates and limits.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{Timeout: DefaultTimeout},
		templates:    DefaultTemplates,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Candidates returns the URLs tried for datasetID, in order.
func (f *Fetcher) Candidates(datasetID string) []string {
	urls := make([]string, len(f.templates))
	for i, tmpl := range f.templates {
		urls[i] = strings.ReplaceAll(tmpl, IDPlaceholder, datasetID)
	}
	return urls
}

// Fetch returns the body of the first candidate that answers 2xx. When all
// fail the error is an *UnavailableError matching ErrSourceUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, datasetID string) (Document, error) {
	if strings.TrimSpace(datasetID) == "" {
		return Document{}, &UnavailableError{Last: ErrNoSource}
	}

	unavailable := &UnavailableError{DatasetID: datasetID}
	for _, url := range f.Candidates(datasetID) {
		if err := ctx.Err(); err != nil {
			unavailable.Last = err
			return Document{}, unavailable
		}

		body, err := f.get(ctx, url)
		if err == nil {
			f.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("fetched dataset")
			return Document{Format: sheet.FormatCSV, Body: body, Origin: url}, nil
		}

		f.logger.Warn().Err(err).Str("url", url).Int("status", err.StatusCode).Msg("candidate failed, trying next")
		unavailable.Attempts = append(unavailable.Attempts, err)
		unavailable.Last = err
	}
	if unavailable.Last == nil {
		unavailable.Last = fmt.Errorf("no candidate endpoints configured")
	}
	return Document{}, unavailable
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, *TransportError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &TransportError{URL: url, Err: ErrBodyTooLarge}
	}
	return body, nil
}
