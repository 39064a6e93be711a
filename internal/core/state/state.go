// Package state holds the storefront session state and the pure reducer
// that applies actions to it.
package state

import (
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

type State struct {
	Tab          domain.Tab
	Category     string
	Query        string
	Cart         domain.Cart
	Notification domain.Notification
	Checkout     domain.CheckoutStatus
	Outcome      domain.CheckoutOutcome
}

func Initial() State {
	return State{
		Tab:      domain.TabHome,
		Checkout: domain.CheckoutIdle,
		Outcome:  domain.OutcomeNone,
	}
}

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		if a.Quantity < 1 {
			return s
		}
		s.Cart = s.Cart.Add(a.Product, a.Quantity)
		return notify(s, fmt.Sprintf(msgAdded, a.Quantity, a.Product.Name.Ar), domain.LevelSuccess)

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(s, RemoveItem{ProductID: a.ProductID})
		}
		s.Cart = s.Cart.SetQuantity(a.ProductID, a.Quantity)
		return s

	case RemoveItem:
		next, removed := s.Cart.Remove(a.ProductID)
		if !removed {
			return s
		}
		s.Cart = next
		return notify(s, msgRemoved, domain.LevelInfo)

	case ClearCart:
		s.Cart = s.Cart.Clear()
		return s

	case ShowNotification:
		return notify(s, a.Message, a.Level)

	case DismissNotification:
		if a.Seq != 0 && a.Seq != s.Notification.Seq {
			return s
		}
		s.Notification.Visible = false
		return s

	case ChangeTab:
		if !a.Tab.Valid() {
			return s
		}
		s.Tab = a.Tab
		s.Category = ""
		s.Query = ""
		return s

	case Search:
		s.Query = a.Query
		s.Category = ""
		if s.Tab == domain.TabHome {
			s.Tab = domain.TabAvailable
		}
		return notify(s, fmt.Sprintf(msgSearching, a.Query), domain.LevelInfo)

	case SelectCategory:
		s.Category = a.Category
		s.Query = ""
		if s.Tab == domain.TabHome {
			s.Tab = domain.TabAvailable
		}
		return notify(s, fmt.Sprintf(msgCategory, a.Category), domain.LevelInfo)

	case GoHome:
		s.Tab = domain.TabHome
		s.Category = ""
		s.Query = ""
		return s

	case CheckoutStarted:
		s.Checkout = domain.CheckoutSubmitting
		return s

	case CheckoutSucceeded:
		if s.Checkout != domain.CheckoutSubmitting {
			return s
		}
		s.Checkout = domain.CheckoutIdle
		s.Outcome = domain.OutcomeSucceeded
		s.Cart = s.Cart.Clear()
		return notify(s, msgOrderSent, domain.LevelSuccess)

	case CheckoutFailed:
		if s.Checkout != domain.CheckoutSubmitting {
			return s
		}
		s.Checkout = domain.CheckoutIdle
		s.Outcome = domain.OutcomeFailed
		return notify(s, msgSubmitFailed, domain.LevelError)

	case ProductRequestSucceeded:
		return notify(s, msgRequestSent, domain.LevelSuccess)

	case ProductRequestFailed:
		return notify(s, msgSubmitFailed, domain.LevelError)
	}
	return s
}

func notify(s State, msg string, lvl domain.Level) State {
	s.Notification = domain.Notification{
		Seq:     s.Notification.Seq + 1,
		Message: msg,
		Level:   lvl,
		Visible: true,
	}
	return s
}
