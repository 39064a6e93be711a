package state_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/state"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, usd int64) domain.Product {
	conv := domain.Conversion{Rate: decimal.NewFromInt(100), Offset: 0}
	return domain.Product{
		ID:         id,
		Kind:       domain.KindLocal,
		Name:       domain.LocalizedText{En: "Item " + id, Ar: "منتج " + id},
		Price:      conv.Price(decimal.NewFromInt(usd)),
		Conversion: conv,
		Category:   "electronics",
		Local:      &domain.LocalStock{Quantity: 3, Location: "سطيف"},
	}
}

func TestReduceCart(t *testing.T) {
	t.Run("AddNotifiesWithQuantityAndName", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 2})

		require.Equal(t, 1, s.Cart.Len())
		assert.True(t, s.Notification.Visible)
		assert.Equal(t, domain.LevelSuccess, s.Notification.Level)
		assert.Equal(t, "تم إضافة 2 من منتج a إلى السلة", s.Notification.Message)
		assert.EqualValues(t, 1, s.Notification.Seq)
	})

	t.Run("AddMergesExisting", func(t *testing.T) {
		s := state.Initial()
		s = state.Reduce(s, state.AddItem{Product: product("a", 1), Quantity: 1})
		s = state.Reduce(s, state.AddItem{Product: product("a", 1), Quantity: 3})

		item, ok := s.Cart.Item("a")
		require.True(t, ok)
		assert.Equal(t, 4, item.Quantity)
		assert.EqualValues(t, 2, s.Notification.Seq)
	})

	t.Run("AddNonPositiveIsNoop", func(t *testing.T) {
		s0 := state.Initial()
		s := state.Reduce(s0, state.AddItem{Product: product("a", 1), Quantity: 0})
		assert.Equal(t, s0, s)
	})

	t.Run("UpdateQuantity", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
		seq := s.Notification.Seq

		s = state.Reduce(s, state.UpdateQuantity{ProductID: "a", Quantity: 5})
		item, _ := s.Cart.Item("a")
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, seq, s.Notification.Seq, "quantity change is silent")
	})

	t.Run("UpdateQuantityZeroRemoves", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
		s = state.Reduce(s, state.UpdateQuantity{ProductID: "a", Quantity: 0})

		assert.True(t, s.Cart.IsEmpty())
		assert.Equal(t, "تم حذف المنتج من السلة", s.Notification.Message)
		assert.Equal(t, domain.LevelInfo, s.Notification.Level)
	})

	t.Run("UpdateQuantityUnknown", func(t *testing.T) {
		s0 := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
		s := state.Reduce(s0, state.UpdateQuantity{ProductID: "zzz", Quantity: 3})
		assert.Equal(t, s0, s)
	})

	t.Run("RemoveUnknownIsSilent", func(t *testing.T) {
		s0 := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
		s := state.Reduce(s0, state.RemoveItem{ProductID: "zzz"})
		assert.Equal(t, s0, s)
	})

	t.Run("Clear", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
		s = state.Reduce(s, state.ClearCart{})
		assert.True(t, s.Cart.IsEmpty())
	})

	t.Run("InputStateUntouched", func(t *testing.T) {
		s0 := state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
		_ = state.Reduce(s0, state.AddItem{Product: product("b", 2), Quantity: 1})
		_ = state.Reduce(s0, state.UpdateQuantity{ProductID: "a", Quantity: 9})

		assert.Equal(t, 1, s0.Cart.Len())
		item, _ := s0.Cart.Item("a")
		assert.Equal(t, 1, item.Quantity)
	})
}

func TestReduceNotification(t *testing.T) {
	t.Run("ShowReplacesCurrent", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.ShowNotification{Message: "one", Level: domain.LevelInfo})
		s = state.Reduce(s, state.ShowNotification{Message: "two", Level: domain.LevelError})

		assert.Equal(t, "two", s.Notification.Message)
		assert.Equal(t, domain.LevelError, s.Notification.Level)
		assert.EqualValues(t, 2, s.Notification.Seq)
	})

	t.Run("DismissStaleSeqIgnored", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.ShowNotification{Message: "one"})
		stale := s.Notification.Seq
		s = state.Reduce(s, state.ShowNotification{Message: "two"})

		s = state.Reduce(s, state.DismissNotification{Seq: stale})
		assert.True(t, s.Notification.Visible)

		s = state.Reduce(s, state.DismissNotification{Seq: s.Notification.Seq})
		assert.False(t, s.Notification.Visible)
		assert.Equal(t, "two", s.Notification.Message)
	})

	t.Run("DismissZeroHidesCurrent", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.ShowNotification{Message: "one"})
		s = state.Reduce(s, state.DismissNotification{})
		assert.False(t, s.Notification.Visible)
	})
}

func TestReduceNavigation(t *testing.T) {
	t.Run("SearchFromHomeSwitchesTab", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.SelectCategory{Category: "electronics"})
		s = state.Reduce(s, state.GoHome{})
		s = state.Reduce(s, state.Search{Query: "ساعة"})

		assert.Equal(t, domain.TabAvailable, s.Tab)
		assert.Equal(t, "ساعة", s.Query)
		assert.Empty(t, s.Category)
		assert.Equal(t, "جارٍ البحث عن: ساعة", s.Notification.Message)
	})

	t.Run("SearchKeepsNonHomeTab", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.ChangeTab{Tab: domain.TabExternal})
		s = state.Reduce(s, state.Search{Query: "x"})
		assert.Equal(t, domain.TabExternal, s.Tab)
	})

	t.Run("CategoryClearsQuery", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.Search{Query: "x"})
		s = state.Reduce(s, state.SelectCategory{Category: "watch"})

		assert.Equal(t, "watch", s.Category)
		assert.Empty(t, s.Query)
		assert.Equal(t, "تم اختيار فئة: watch", s.Notification.Message)
	})

	t.Run("ChangeTabResetsFilters", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.Search{Query: "x"})
		s = state.Reduce(s, state.ChangeTab{Tab: domain.TabRequest})

		assert.Equal(t, domain.TabRequest, s.Tab)
		assert.Empty(t, s.Query)
		assert.Empty(t, s.Category)
	})

	t.Run("ChangeTabInvalidIgnored", func(t *testing.T) {
		s0 := state.Initial()
		s := state.Reduce(s0, state.ChangeTab{Tab: domain.Tab("cart")})
		assert.Equal(t, s0, s)
	})

	t.Run("GoHome", func(t *testing.T) {
		s := state.Reduce(state.Initial(), state.SelectCategory{Category: "watch"})
		s = state.Reduce(s, state.GoHome{})
		assert.Equal(t, domain.TabHome, s.Tab)
		assert.Empty(t, s.Category)
	})
}

func TestReduceCheckout(t *testing.T) {
	withItem := func() state.State {
		return state.Reduce(state.Initial(), state.AddItem{Product: product("a", 1), Quantity: 1})
	}

	t.Run("Succeeded", func(t *testing.T) {
		s := state.Reduce(withItem(), state.CheckoutStarted{})
		assert.Equal(t, domain.CheckoutSubmitting, s.Checkout)

		s = state.Reduce(s, state.CheckoutSucceeded{})
		assert.Equal(t, domain.CheckoutIdle, s.Checkout)
		assert.Equal(t, domain.OutcomeSucceeded, s.Outcome)
		assert.True(t, s.Cart.IsEmpty())
		assert.Equal(t, "تم إرسال طلبك بنجاح! سنتواصل معك قريباً", s.Notification.Message)
	})

	t.Run("FailedKeepsCart", func(t *testing.T) {
		s := state.Reduce(withItem(), state.CheckoutStarted{})
		s = state.Reduce(s, state.CheckoutFailed{})

		assert.Equal(t, domain.CheckoutIdle, s.Checkout)
		assert.Equal(t, domain.OutcomeFailed, s.Outcome)
		assert.Equal(t, 1, s.Cart.Len())
		assert.Equal(t, domain.LevelError, s.Notification.Level)
	})

	t.Run("OutcomeWithoutStartIgnored", func(t *testing.T) {
		s0 := withItem()
		assert.Equal(t, s0, state.Reduce(s0, state.CheckoutSucceeded{}))
		assert.Equal(t, s0, state.Reduce(s0, state.CheckoutFailed{}))
	})

	t.Run("ProductRequest", func(t *testing.T) {
		s := state.Reduce(withItem(), state.ProductRequestSucceeded{})
		assert.Equal(t, domain.LevelSuccess, s.Notification.Level)
		assert.Equal(t, 1, s.Cart.Len())

		s = state.Reduce(s, state.ProductRequestFailed{})
		assert.Equal(t, domain.LevelError, s.Notification.Level)
	})
}
