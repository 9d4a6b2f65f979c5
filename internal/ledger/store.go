// Package ledger keeps the records of one kind in memory for lookup,
// search and hand edits between pipeline runs.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/profinance-crm/profinance/internal/model"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")
)

// Store holds records of one kind, newest additions first.
type Store[T model.Record] struct {
	mu      sync.RWMutex
	records []T
}

// NewStore creates a Store seeded with records.
func NewStore[T model.Record](records []T) *Store[T] {
	s := &Store[T]{}
	s.Replace(records)
	return s
}

// Replace swaps the whole contents, as after a reload.
func (s *Store[T]) Replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = slices.Clone(records)
}

// All returns a copy of every record.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	var zero T
	return zero, false
}

// Add prepends rec.
func (s *Store[T]) Add(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(rec.RecordID()) >= 0 {
		return fmt.Errorf("adding %s: %w", rec.RecordID(), ErrDuplicateID)
	}
	s.records = slices.Insert(s.records, 0, rec)
	return nil
}

// Update overwrites the record sharing rec's id.
func (s *Store[T]) Update(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(rec.RecordID())
	if i < 0 {
		return fmt.Errorf("updating %s: %w", rec.RecordID(), ErrNotFound)
	}
	s.records[i] = rec
	return nil
}

// Delete removes the record with id.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

// Search returns records whose searchable text contains query, ignoring
// case. An empty query matches everything.
func (s *Store[T]) Search(query string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.All()
	}
	return s.Filter(func(rec T) bool {
		for _, text := range rec.SearchText() {
			if strings.Contains(strings.ToLower(text), query) {
				return true
			}
		}
		return false
	})
}

// FilterCategory returns records in category. An empty category matches everything.
func (s *Store[T]) FilterCategory(category string) []T {
	if category == "" {
		return s.All()
	}
	return s.Filter(func(rec T) bool {
		return strings.EqualFold(rec.Category(), category)
	})
}

// Filter returns the records keep accepts, in store order.
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (s *Store[T]) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, rec := range s.records {
		c := rec.Category()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (s *Store[T]) index(id string) int {
	return slices.IndexFunc(s.records, func(rec T) bool { return rec.RecordID() == id })
}
