package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/state"
)

const (
	DefaultDismissAfter = 3 * time.Second
	DefaultSnooze       = time.Hour
	DefaultRecentLimit  = 5
	DefaultSessionTTL   = 24 * time.Hour
)

var _ port.Storefront = (*Service)(nil)

type Opt func(*opts) error

type opts struct {
	archive      port.OrderArchive
	orders       port.OrderEventsProducer
	requests     port.ProductRequestEmitter
	dismissAfter time.Duration
	snooze       time.Duration
	recentLimit  int
	sessionTTL   time.Duration
	now          func() time.Time
	newID        func() string
}

func ArchiveOpt(a port.OrderArchive) Opt {
	return func(o *opts) error {
		if a == nil {
			return errors.New("archive is nil")
		}
		o.archive = a
		return nil
	}
}

func OrderEventsOpt(p port.OrderEventsProducer) Opt {
	return func(o *opts) error {
		if p == nil {
			return errors.New("order events producer is nil")
		}
		o.orders = p
		return nil
	}
}

func ProductRequestsOpt(e port.ProductRequestEmitter) Opt {
	return func(o *opts) error {
		if e == nil {
			return errors.New("product request emitter is nil")
		}
		o.requests = e
		return nil
	}
}

// TimingsOpt overrides the notification auto-dismiss delay and the update
// prompt snooze. Zero keeps the default.
func TimingsOpt(dismissAfter, snooze time.Duration) Opt {
	return func(o *opts) error {
		if dismissAfter < 0 || snooze < 0 {
			return errors.New("negative duration")
		}
		if dismissAfter != 0 {
			o.dismissAfter = dismissAfter
		}
		if snooze != 0 {
			o.snooze = snooze
		}
		return nil
	}
}

func RecentLimitOpt(n int) Opt {
	return func(o *opts) error {
		if n < 1 {
			return fmt.Errorf("recent searches limit %d is below 1", n)
		}
		o.recentLimit = n
		return nil
	}
}

// SessionTTLOpt sets how long an untouched session is kept in memory.
// Zero keeps sessions until [Service.Close].
func SessionTTLOpt(d time.Duration) Opt {
	return func(o *opts) error {
		if d < 0 {
			return fmt.Errorf("negative session ttl %s", d)
		}
		o.sessionTTL = d
		return nil
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(o *opts) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		o.now = now
		return nil
	}
}

func IDOpt(newID func() string) Opt {
	return func(o *opts) error {
		if newID == nil {
			return errors.New("id generator is nil")
		}
		o.newID = newID
		return nil
	}
}

// Service implements the storefront use cases on top of the catalog, the
// per-session stores and the driven ports.
type Service struct {
	catalog   *catalog.Catalog
	sessions  *Sessions
	submitter port.Submitter
	prefs     port.PreferencesStore
	stop      chan struct{}
	done      chan struct{}
	opts
}

func New(
	cat *catalog.Catalog,
	submitter port.Submitter,
	prefs port.PreferencesStore,
	options ...Opt,
) (*Service, error) {
	const op = "service.New"

	o := opts{
		dismissAfter: DefaultDismissAfter,
		snooze:       DefaultSnooze,
		recentLimit:  DefaultRecentLimit,
		sessionTTL:   DefaultSessionTTL,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range options {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	s := &Service{
		catalog:   cat,
		sessions:  NewSessions(o.dismissAfter, o.sessionTTL, o.now),
		submitter: submitter,
		prefs:     prefs,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		opts:      o,
	}
	go s.sweep()
	return s, nil
}

// sweep evicts idle sessions until Close is called.
func (s *Service) sweep() {
	const op = "Service.sweep"
	defer close(s.done)

	if s.sessionTTL <= 0 {
		<-s.stop
		return
	}

	ticker := time.NewTicker(sweepInterval(s.sessionTTL))
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				slog.Debug("idle sessions evicted", "op", op,
					"evicted", n, "remaining", s.sessions.Len())
			}
		}
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), time.Minute)
}

func (s *Service) Close() {
	close(s.stop)
	<-s.done
	s.sessions.Close()
	if s.orders != nil {
		s.orders.Close()
	}
	if s.requests != nil {
		s.requests.Close()
	}
}

func (s *Service) SearchExternal(query, category string) []domain.Product {
	return s.catalog.SearchExternal(query, category)
}

func (s *Service) SearchLocal(query, category string) []domain.Product {
	return s.catalog.SearchLocal(query, category)
}

func (s *Service) Product(id string) (domain.Product, error) {
	const op = "Service.Product"

	p, ok := s.catalog.GetByID(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %q: %w", op, id, domain.ErrProductNotFound)
	}
	return p, nil
}

func (s *Service) Browse(q catalog.Query) []domain.Product {
	return s.catalog.Browse(q)
}

func (s *Service) Featured() catalog.Featured {
	return s.catalog.Featured()
}

func (s *Service) Suggest(query string) catalog.Suggestions {
	return s.catalog.Suggest(query)
}

func (s *Service) Categories() []string {
	return s.catalog.Categories()
}

func (s *Service) Cart(sid string) domain.Cart {
	return s.sessions.State(sid).Cart
}

func (s *Service) AddToCart(
	sid, productID string, quantity int,
) (domain.Cart, error) {
	const op = "Service.AddToCart"

	p, ok := s.catalog.GetByID(productID)
	if !ok {
		return domain.Cart{}, fmt.Errorf("%s: %q: %w", op, productID, domain.ErrProductNotFound)
	}
	st := s.sessions.Get(sid).Dispatch(state.AddItem{Product: p, Quantity: quantity})
	return st.Cart, nil
}

func (s *Service) UpdateQuantity(sid, productID string, quantity int) domain.Cart {
	st := s.sessions.Get(sid).Dispatch(state.UpdateQuantity{
		ProductID: productID, Quantity: quantity,
	})
	return st.Cart
}

func (s *Service) RemoveFromCart(sid, productID string) domain.Cart {
	return s.sessions.Get(sid).Dispatch(state.RemoveItem{ProductID: productID}).Cart
}

func (s *Service) State(sid string) state.State {
	return s.sessions.State(sid)
}

func (s *Service) ChangeTab(sid string, tab domain.Tab) (state.State, error) {
	const op = "Service.ChangeTab"

	if !tab.Valid() {
		return state.State{}, fmt.Errorf("%s: %q: %w", op, tab, domain.ErrInvalidTab)
	}
	return s.sessions.Get(sid).Dispatch(state.ChangeTab{Tab: tab}), nil
}

func (s *Service) SelectCategory(sid, category string) state.State {
	return s.sessions.Get(sid).Dispatch(state.SelectCategory{Category: category})
}

func (s *Service) GoHome(sid string) state.State {
	return s.sessions.Get(sid).Dispatch(state.GoHome{})
}

func (s *Service) Dismiss(sid string) state.State {
	return s.sessions.Get(sid).Dispatch(state.DismissNotification{})
}

// Search applies the query to the session and records it in the recent
// searches. A failure to record is logged only.
func (s *Service) Search(
	ctx context.Context, sid, query string,
) (state.State, error) {
	const op = "Service.Search"

	if err := ctx.Err(); err != nil {
		return state.State{}, fmt.Errorf("%s: %w", op, err)
	}

	store := s.sessions.Get(sid)
	st := store.Dispatch(state.Search{Query: query})
	err := store.WithPrefs(func() error {
		return s.recordSearch(ctx, sid, query)
	})
	if err != nil {
		slog.With("op", op).Warn("failed to record recent search", "err", err)
	}
	return st, nil
}

// recordSearch must run under the session preferences lock.
func (s *Service) recordSearch(ctx context.Context, sid, query string) error {
	term := strings.TrimSpace(query)
	if term == "" {
		return nil
	}
	recent, err := s.prefs.RecentSearches(ctx, sid)
	if err != nil {
		return err
	}
	recent = slices.DeleteFunc(recent, func(r string) bool { return r == term })
	recent = slices.Insert(recent, 0, term)
	if len(recent) > s.recentLimit {
		recent = recent[:s.recentLimit]
	}
	return s.prefs.SetRecentSearches(ctx, sid, recent)
}

func (s *Service) RecentSearches(ctx context.Context, sid string) ([]string, error) {
	const op = "Service.RecentSearches"

	recent, err := s.prefs.RecentSearches(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if recent == nil {
		recent = []string{}
	}
	return recent, nil
}

// HideUpdatePrompt snoozes the update prompt and returns the deadline.
func (s *Service) HideUpdatePrompt(ctx context.Context, sid string) (time.Time, error) {
	const op = "Service.HideUpdatePrompt"

	until := s.now().Add(s.snooze)
	if err := s.prefs.SetHideUpdateUntil(ctx, sid, until); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return until, nil
}

// UpdatePromptHidden reports whether the snooze is still running. An
// expired deadline is removed.
func (s *Service) UpdatePromptHidden(ctx context.Context, sid string) (bool, error) {
	const op = "Service.UpdatePromptHidden"

	until, ok, err := s.prefs.HideUpdateUntil(ctx, sid)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return false, nil
	}
	if s.now().Before(until) {
		return true, nil
	}
	if err := s.prefs.ClearHideUpdateUntil(ctx, sid); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return false, nil
}
