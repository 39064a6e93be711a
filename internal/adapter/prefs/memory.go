package prefs

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PreferencesStore = (*MemoryStore)(nil)

// MemoryStore keeps preferences in process memory. It is used when no
// Redis address is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	recent    map[string][]string
	hideUntil map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recent:    make(map[string][]string),
		hideUntil: make(map[string]time.Time),
	}
}

func (s *MemoryStore) RecentSearches(_ context.Context, sid string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recent[sid]), nil
}

func (s *MemoryStore) SetRecentSearches(
	_ context.Context, sid string, terms []string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent[sid] = slices.Clone(terms)
	return nil
}

func (s *MemoryStore) HideUpdateUntil(
	_ context.Context, sid string,
) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.hideUntil[sid]
	return until, ok, nil
}

func (s *MemoryStore) SetHideUpdateUntil(
	_ context.Context, sid string, until time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideUntil[sid] = until
	return nil
}

func (s *MemoryStore) ClearHideUpdateUntil(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hideUntil, sid)
	return nil
}
