package state

import "github.com/niksmo/storefront/internal/core/domain"

// An Action is one of the enumerated state transitions accepted by
// [Reduce].
type Action interface {
	action()
}

type (
	AddItem struct {
		Product  domain.Product
		Quantity int
	}

	// UpdateQuantity with a quantity of zero or less removes the item.
	UpdateQuantity struct {
		ProductID string
		Quantity  int
	}

	RemoveItem struct {
		ProductID string
	}

	ClearCart struct{}

	ShowNotification struct {
		Message string
		Level   domain.Level
	}

	// DismissNotification hides the notification with the given Seq.
	// Zero targets whatever is currently shown.
	DismissNotification struct {
		Seq uint64
	}

	ChangeTab struct {
		Tab domain.Tab
	}

	Search struct {
		Query string
	}

	SelectCategory struct {
		Category string
	}

	GoHome struct{}

	CheckoutStarted   struct{}
	CheckoutSucceeded struct{}
	CheckoutFailed    struct{}

	ProductRequestSucceeded struct{}
	ProductRequestFailed    struct{}
)

func (AddItem) action()                 {}
func (UpdateQuantity) action()          {}
func (RemoveItem) action()              {}
func (ClearCart) action()               {}
func (ShowNotification) action()        {}
func (DismissNotification) action()     {}
func (ChangeTab) action()               {}
func (Search) action()                  {}
func (SelectCategory) action()          {}
func (GoHome) action()                  {}
func (CheckoutStarted) action()         {}
func (CheckoutSucceeded) action()       {}
func (CheckoutFailed) action()          {}
func (ProductRequestSucceeded) action() {}
func (ProductRequestFailed) action()    {}
