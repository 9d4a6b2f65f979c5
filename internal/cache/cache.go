// Package cache persists the last good dataset aggregate with a timestamp.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/profinance-crm/profinance/internal/model"
)

const (
	// DefaultKey names the cache entry.
	DefaultKey = "profinance_cache"
	// DefaultTTL is how long a saved aggregate stays fresh.
	DefaultTTL = 5 * time.Minute
)

// entry is the on-disk form: {"data": aggregate, "timestamp": RFC 3339}.
type entry struct {
	Data      model.Dataset `json:"data"`
	Timestamp time.Time     `json:"timestamp"`
}

// Store is a file-backed keyed store holding one aggregate. Storage and
// serialization failures are logged and read as a miss; they never reach
// the caller.
type Store struct {
	dir    string
	key    string
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// New creates a store writing <dir>/<key>.json.
func New(dir, key string, ttl time.Duration, logger zerolog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{dir: dir, key: key, ttl: ttl, now: time.Now, logger: logger}
}

// SetClock replaces the clock used for timestamps and expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Path returns the file backing the entry.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// TTL returns the freshness window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Save replaces the entry with d stamped at the current time.
func (s *Store) Save(d model.Dataset) {
	if err := s.save(d); err != nil {
		s.logger.Warn().Err(err).Str("path", s.Path()).Msg("cache save failed")
	}
}

func (s *Store) save(d model.Dataset) error {
	data, err := json.Marshal(entry{Data: d, Timestamp: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Load returns the saved aggregate when present and fresh. An expired
// entry is removed as part of the read.
func (s *Store) Load() (model.Dataset, bool) {
	e, ok := s.read()
	if !ok {
		return model.Dataset{}, false
	}
	if s.now().Sub(e.Timestamp) > s.ttl {
		s.logger.Debug().Time("saved", e.Timestamp).Msg("cache entry expired")
		s.Clear()
		return model.Dataset{}, false
	}
	return e.Data, true
}

// Status describes the entry without removing it when stale.
type Status struct {
	Present   bool
	Fresh     bool
	SavedAt   time.Time
	ExpiresAt time.Time
}

// Stat reports the entry's age without evicting it.
func (s *Store) Stat() Status {
	e, ok := s.read()
	if !ok {
		return Status{}
	}
	expires := e.Timestamp.Add(s.ttl)
	return Status{
		Present:   true,
		Fresh:     !s.now().After(expires),
		SavedAt:   e.Timestamp,
		ExpiresAt: expires,
	}
}

func (s *Store) read() (entry, bool) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.Path()).Msg("cache read failed")
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.logger.Warn().Err(err).Str("path", s.Path()).Msg("cache entry unreadable, ignoring")
		return entry{}, false
	}
	if e.Timestamp.IsZero() {
		return entry{}, false
	}
	return e, true
}

// Clear removes the entry.
func (s *Store) Clear() {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Err(err).Str("path", s.Path()).Msg("cache clear failed")
	}
}
