package port

import (
	"context"
	"time"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/state"
)

type closer interface {
	Close()
}

// Driven ports.

type OrderSubmitter interface {
	SubmitOrder(context.Context, domain.Order) error
}

type ProductRequestSubmitter interface {
	RequestProduct(context.Context, domain.ProductRequest) error
}

type Submitter interface {
	OrderSubmitter
	ProductRequestSubmitter
}

type PreferencesStore interface {
	RecentSearches(ctx context.Context, sid string) ([]string, error)
	SetRecentSearches(ctx context.Context, sid string, terms []string) error

	// HideUpdateUntil reports false when no deadline was stored.
	HideUpdateUntil(ctx context.Context, sid string) (time.Time, bool, error)
	SetHideUpdateUntil(ctx context.Context, sid string, until time.Time) error
	ClearHideUpdateUntil(ctx context.Context, sid string) error
}

type OrderArchive interface {
	ArchiveOrder(context.Context, domain.Order) error
	ArchiveProductRequest(context.Context, domain.ProductRequest) error
}

type OrderEventsProducer interface {
	ProduceOrder(context.Context, domain.Order) error
	closer
}

type ProductRequestEmitter interface {
	EmitProductRequest(context.Context, domain.ProductRequest) error
	closer
}

// Driving ports, consumed by the HTTP adapter.

type CatalogReader interface {
	SearchExternal(query, category string) []domain.Product
	SearchLocal(query, category string) []domain.Product
	Product(id string) (domain.Product, error)
	Browse(catalog.Query) []domain.Product
	Featured() catalog.Featured
	Suggest(query string) catalog.Suggestions
	Categories() []string
}

type CartEditor interface {
	Cart(sid string) domain.Cart
	AddToCart(sid, productID string, quantity int) (domain.Cart, error)
	UpdateQuantity(sid, productID string, quantity int) domain.Cart
	RemoveFromCart(sid, productID string) domain.Cart
}

type Navigator interface {
	State(sid string) state.State
	ChangeTab(sid string, tab domain.Tab) (state.State, error)
	SelectCategory(sid, category string) state.State
	GoHome(sid string) state.State
	Search(ctx context.Context, sid, query string) (state.State, error)
	Dismiss(sid string) state.State
}

type SubmissionSender interface {
	Checkout(ctx context.Context, sid string, c domain.Customer) (domain.Order, error)
	RequestProduct(ctx context.Context, sid string, r domain.ProductRequest) (domain.ProductRequest, error)
}

type PreferencesReader interface {
	RecentSearches(ctx context.Context, sid string) ([]string, error)
	HideUpdatePrompt(ctx context.Context, sid string) (time.Time, error)
	UpdatePromptHidden(ctx context.Context, sid string) (bool, error)
}

type Storefront interface {
	CatalogReader
	CartEditor
	Navigator
	SubmissionSender
	PreferencesReader
}
