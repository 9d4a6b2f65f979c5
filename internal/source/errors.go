package source

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable matches every error returned when no candidate
	// endpoint produced a document.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrNoSource is the cause when a kind has no dataset id bound to it.
	ErrNoSource = errors.New("no dataset id configured")
	// ErrBodyTooLarge is the cause when a response exceeds the body limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// TransportError describes one failed candidate. StatusCode is zero when
// the request never produced a response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnavailableError is returned once every candidate for a dataset failed.
// Last holds the final observed failure.
type UnavailableError struct {
	DatasetID string
	Attempts  []*TransportError
	Last      error
}

func (e *UnavailableError) Error() string {
	if e.DatasetID == "" {
		return fmt.Sprintf("source unavailable: %v", e.Last)
	}
	return fmt.Sprintf("dataset %s unavailable after %d attempt(s): %v", e.DatasetID, len(e.Attempts), e.Last)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Last}
}
