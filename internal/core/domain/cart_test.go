package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConversion = domain.Conversion{Rate: decimal.NewFromInt(260), Offset: 500}

func externalProduct(id string, usd int64) domain.Product {
	return domain.Product{
		ID:         id,
		Kind:       domain.KindExternal,
		Name:       domain.LocalizedText{En: "name " + id, Ar: "اسم " + id},
		Price:      testConversion.Price(decimal.NewFromInt(usd)),
		Conversion: testConversion,
		Image:      "/images/" + id + ".jpg",
		Category:   "electronics",
		External: &domain.ExternalListing{
			Platform: domain.PlatformAliExpress,
			URL:      "https://example.com/" + id,
		},
	}
}

func localProduct(id string, usd int64) domain.Product {
	return domain.Product{
		ID:         id,
		Kind:       domain.KindLocal,
		Name:       domain.LocalizedText{En: "local " + id, Ar: "محلي " + id},
		Price:      testConversion.Price(decimal.NewFromInt(usd)),
		Conversion: testConversion,
		Category:   "watch",
		Local:      &domain.LocalStock{Quantity: 2, Location: "سطيف"},
	}
}

func TestCartAdd(t *testing.T) {
	t.Run("SameProductMerges", func(t *testing.T) {
		p := externalProduct("a", 10)

		c := domain.Cart{}.Add(p, 2).Add(p, 3)

		require.Equal(t, 1, c.Len())
		it, ok := c.Item("a")
		require.True(t, ok)
		assert.Equal(t, 5, it.Quantity)
	})

	t.Run("SnapshotFields", func(t *testing.T) {
		p := externalProduct("a", 10)

		c := domain.Cart{}.Add(p, 1)

		it, ok := c.Item("a")
		require.True(t, ok)
		assert.Equal(t, p.Name, it.Name)
		assert.Equal(t, p.Price, it.Price)
		assert.Equal(t, p.Image, it.Image)
		assert.Equal(t, domain.PlatformAliExpress, it.Platform)
	})

	t.Run("LocalPlatformSentinel", func(t *testing.T) {
		c := domain.Cart{}.Add(localProduct("local-1", 12), 1)

		it, ok := c.Item("local-1")
		require.True(t, ok)
		assert.Equal(t, domain.PlatformLocal, it.Platform)
	})

	t.Run("NonPositiveQuantityIgnored", func(t *testing.T) {
		p := externalProduct("a", 10)

		c := domain.Cart{}.Add(p, 0).Add(p, -2)

		assert.True(t, c.IsEmpty())
	})

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		c := domain.Cart{}.
			Add(externalProduct("b", 1), 1).
			Add(externalProduct("a", 1), 1).
			Add(externalProduct("b", 1), 1)

		items := c.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "b", items[0].ProductID)
		assert.Equal(t, "a", items[1].ProductID)
	})

	t.Run("ReceiverUntouched", func(t *testing.T) {
		before := domain.Cart{}.Add(externalProduct("a", 1), 1)

		_ = before.Add(externalProduct("a", 1), 4)

		it, _ := before.Item("a")
		assert.Equal(t, 1, it.Quantity)
	})
}

func TestCartSetQuantity(t *testing.T) {
	c := domain.Cart{}.
		Add(externalProduct("a", 10), 2).
		Add(externalProduct("b", 10), 3)

	t.Run("ReplacesExactly", func(t *testing.T) {
		next := c.SetQuantity("a", 7)
		it, _ := next.Item("a")
		assert.Equal(t, 7, it.Quantity)
	})

	t.Run("ZeroRemoves", func(t *testing.T) {
		next := c.SetQuantity("a", 0)

		_, ok := next.Item("a")
		assert.False(t, ok)
		assert.Equal(t, c.ItemCount()-2, next.ItemCount())
	})

	t.Run("NegativeRemoves", func(t *testing.T) {
		next := c.SetQuantity("b", -1)
		assert.Equal(t, 1, next.Len())
	})

	t.Run("UnknownIsNoop", func(t *testing.T) {
		next := c.SetQuantity("zzz", 4)
		assert.Equal(t, c.Items(), next.Items())
	})
}

func TestCartRemove(t *testing.T) {
	c := domain.Cart{}.Add(externalProduct("a", 10), 2)

	next, ok := c.Remove("a")
	assert.True(t, ok)
	assert.True(t, next.IsEmpty())

	same, ok := c.Remove("missing")
	assert.False(t, ok)
	assert.Equal(t, c.Items(), same.Items())
}

func TestCartTotals(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		p := domain.Product{
			ID:    "a",
			Kind:  domain.KindLocal,
			Price: domain.Price{USD: decimal.NewFromInt(100), DZD: 100},
			Local: &domain.LocalStock{Quantity: 10},
		}

		c := domain.Cart{}.Add(p, 2).Add(p, 3)

		require.Equal(t, 1, c.Len())
		it, _ := c.Item("a")
		assert.Equal(t, 5, it.Quantity)
		assert.True(t, decimal.NewFromInt(500).Equal(c.Total().USD))
		assert.Equal(t, int64(500), c.Total().DZD)
	})

	t.Run("MatchesFreshSum", func(t *testing.T) {
		c := domain.Cart{}.
			Add(externalProduct("a", 3), 2).
			Add(localProduct("b", 7), 1).
			Add(externalProduct("c", 11), 4)
		c = c.SetQuantity("b", 3)
		c, _ = c.Remove("c")

		var wantDZD int64
		wantUSD := decimal.Zero
		var wantCount int
		for _, it := range c.Items() {
			wantDZD += it.Price.DZD * int64(it.Quantity)
			wantUSD = wantUSD.Add(it.Price.USD.Mul(decimal.NewFromInt(int64(it.Quantity))))
			wantCount += it.Quantity
		}

		assert.Equal(t, wantDZD, c.Total().DZD)
		assert.True(t, wantUSD.Equal(c.Total().USD))
		assert.Equal(t, wantCount, c.ItemCount())
	})

	t.Run("Empty", func(t *testing.T) {
		var c domain.Cart
		assert.Zero(t, c.ItemCount())
		assert.Zero(t, c.Total().DZD)
		assert.True(t, c.Total().USD.IsZero())
	})
}

func TestCartItemsIsCopy(t *testing.T) {
	c := domain.Cart{}.Add(externalProduct("a", 1), 1)

	items := c.Items()
	items[0].Quantity = 99

	it, _ := c.Item("a")
	assert.Equal(t, 1, it.Quantity)
}
