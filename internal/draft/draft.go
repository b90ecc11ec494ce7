// Package draft holds not-yet-persisted form drafts between the form page and
// the preview page. Entries are keyed, short-lived, and cleared either on
// consumption (when the draft is persisted) or on expiry.
package draft

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf_record_service/internal/domain"
)

// DefaultTTL bounds how long an unsaved draft survives, standing in for the
// browsing session lifetime.
const DefaultTTL = 30 * time.Minute

type entry struct {
	draft     domain.Draft
	expiresAt time.Time
}

// Store is a keyed in-memory holder for transient drafts. Safe for concurrent
// use.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	// now is overridable for tests.
	now func() time.Time
}

// NewStore constructs a Store with the given TTL. Non-positive TTLs fall back
// to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Put stores a draft and returns its key. Each call stores an independent
// entry; keys are never reused.
func (s *Store) Put(d domain.Draft) string {
	key := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[key] = entry{
		draft:     d,
		expiresAt: s.now().Add(s.ttl),
	}

	return key
}

// Get returns the draft for the key without removing it. Expired or unknown
// keys report absence.
func (s *Store) Get(key string) (domain.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return domain.Draft{}, false
	}

	return e.draft, true
}

// Consume returns the draft for the key and removes it, so a persisted draft
// cannot be persisted twice from stale state.
func (s *Store) Consume(key string) (domain.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	delete(s.entries, key)
	if !ok || s.now().After(e.expiresAt) {
		return domain.Draft{}, false
	}

	return e.draft, true
}

// Len reports the number of live entries. Used for diagnostics and tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	return len(s.entries)
}

func (s *Store) sweepLocked() {
	now := s.now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}
