package service

import (
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/state"
)

// A Store owns the state of one shopper session. Every change goes
// through [state.Reduce] under the store lock, one action at a time.
//
// A newly shown notification arms the auto-dismiss timer; a newer
// notification or an explicit dismissal replaces it.
type Store struct {
	prefsMu sync.Mutex

	mu           sync.Mutex
	st           state.State
	dismissAfter time.Duration
	timer        *time.Timer
	closed       bool
}

func NewStore(dismissAfter time.Duration) *Store {
	return &Store{st: state.Initial(), dismissAfter: dismissAfter}
}

func (s *Store) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *Store) Dispatch(a state.Action) state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(a)
}

// DispatchIf applies a only when guard accepts the current state and
// returns the guard error otherwise. Check and apply happen atomically.
func (s *Store) DispatchIf(
	guard func(state.State) error, a state.Action,
) (state.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := guard(s.st); err != nil {
		return s.st, err
	}
	return s.dispatch(a), nil
}

// WithPrefs runs fn while holding the session preferences lock, which is
// separate from the state lock.
func (s *Store) WithPrefs(fn func() error) error {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	return fn()
}

// Close stops the pending auto-dismiss timer. Dispatch keeps working but
// no timer is armed afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimer()
}

func (s *Store) dispatch(a state.Action) state.State {
	prev := s.st.Notification
	s.st = state.Reduce(s.st, a)
	cur := s.st.Notification

	switch {
	case cur.Visible && cur.Seq != prev.Seq:
		s.arm(cur.Seq)
	case prev.Visible && !cur.Visible:
		s.stopTimer()
	}
	return s.st
}

func (s *Store) arm(seq uint64) {
	s.stopTimer()
	if s.closed || s.dismissAfter <= 0 {
		return
	}
	s.timer = time.AfterFunc(s.dismissAfter, func() {
		s.Dispatch(state.DismissNotification{Seq: seq})
	})
}

func (s *Store) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
