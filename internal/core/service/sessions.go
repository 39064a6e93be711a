package service

import (
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/state"
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Sessions keeps one [Store] per session id, created on first write.
// Sessions idle for longer than the configured TTL are dropped by
// [Sessions.Sweep].
type Sessions struct {
	mu           sync.Mutex
	sessions     map[string]*session
	dismissAfter time.Duration
	idle         time.Duration
	now          func() time.Time
}

func NewSessions(
	dismissAfter, idle time.Duration, now func() time.Time,
) *Sessions {
	return &Sessions{
		sessions:     make(map[string]*session),
		dismissAfter: dismissAfter,
		idle:         idle,
		now:          now,
	}
}

// Get returns the session store, creating it when missing.
func (ss *Sessions) Get(sid string) *Store {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[sid]
	if !ok {
		s = &session{store: NewStore(ss.dismissAfter)}
		ss.sessions[sid] = s
	}
	s.lastSeen = ss.now()
	return s.store
}

// State returns the session state, or the initial state for an unknown
// session. It never creates a store.
func (ss *Sessions) State(sid string) state.State {
	ss.mu.Lock()
	s, ok := ss.sessions[sid]
	if ok {
		s.lastSeen = ss.now()
	}
	ss.mu.Unlock()

	if !ok {
		return state.Initial()
	}
	return s.store.State()
}

// Sweep closes and drops the stores idle for longer than the TTL and
// returns how many were dropped. A store with a checkout in flight is
// kept. A zero TTL disables eviction.
func (ss *Sessions) Sweep() int {
	if ss.idle <= 0 {
		return 0
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	deadline := ss.now().Add(-ss.idle)
	var n int
	for sid, s := range ss.sessions {
		if s.lastSeen.After(deadline) {
			continue
		}
		if s.store.State().Checkout == domain.CheckoutSubmitting {
			continue
		}
		s.store.Close()
		delete(ss.sessions, sid)
		n++
	}
	return n
}

func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *Sessions) Close() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for _, s := range ss.sessions {
		s.store.Close()
	}
}
