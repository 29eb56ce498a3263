// internal/correlate/store.go
package correlate

import (
	"errors"
	"sync"

	"github.com/MathiasJens3n/modbus-getter/internal/flow"
)

// ErrDuplicateID is returned when an id is inserted twice while still
// pending. The insert is a no-op; the caller decides how to report it.
var ErrDuplicateID = errors.New("correlate: duplicate pending id")

// Store maps correlation ids to the original trigger context of their
// in-flight read. It owns nothing else: no connection state, no gate
// state, no IO.
type Store struct {
	mu      sync.Mutex
	pending map[string]flow.Message
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{pending: make(map[string]flow.Message)}
}

// Put inserts the original trigger context under id.
// Exactly one Put happens per submitted request.
func (s *Store) Put(id string, original flow.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pending[id]; exists {
		return ErrDuplicateID
	}
	s.pending[id] = original
	return nil
}

// TakeOut removes and returns the context stored under id.
// The second return is false when the id is absent (stale completion,
// duplicate callback, or a store cleared by disconnect).
func (s *Store) TakeOut(id string) (flow.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return original, ok
}

// ClearAll drops every pending entry. Safe on an empty store.
// Completions arriving for cleared ids take the not-found branch.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = make(map[string]flow.Message)
}

// Len reports the number of pending entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}
