package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// A LineItem is a snapshot of a product taken when it was added to a cart.
type LineItem struct {
	ProductID string
	Name      LocalizedText
	Price     Price
	Image     string
	Quantity  int
	Platform  Platform
}

func (li LineItem) Subtotal() Totals {
	return Totals{
		USD: li.Price.USD.Mul(decimal.NewFromInt(int64(li.Quantity))),
		DZD: li.Price.DZD * int64(li.Quantity),
	}
}

type Totals struct {
	USD decimal.Decimal
	DZD int64
}

func (t Totals) add(o Totals) Totals {
	return Totals{USD: t.USD.Add(o.USD), DZD: t.DZD + o.DZD}
}

// A Cart is an ordered collection of line items, at most one per product.
//
// Cart is a value: every mutation returns a new Cart and leaves the
// receiver untouched, so a copy taken earlier is a stable snapshot.
type Cart struct {
	items []LineItem
}

func NewCart(items ...LineItem) Cart {
	var c Cart
	for _, it := range items {
		c = c.addLine(it)
	}
	return c
}

// Items returns a copy of the line items in insertion order.
func (c Cart) Items() []LineItem {
	return slices.Clone(c.items)
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Cart) Item(productID string) (LineItem, bool) {
	i := c.index(productID)
	if i < 0 {
		return LineItem{}, false
	}
	return c.items[i], true
}

// Add puts quantity units of p into the cart. A quantity below one is
// ignored.
func (c Cart) Add(p Product, quantity int) Cart {
	if quantity < 1 {
		return c
	}
	return c.addLine(LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
		Platform:  p.PlatformTag(),
	})
}

func (c Cart) addLine(li LineItem) Cart {
	if li.Quantity < 1 {
		return c
	}
	items := slices.Clone(c.items)
	if i := c.index(li.ProductID); i >= 0 {
		items[i].Quantity += li.Quantity
		return Cart{items}
	}
	return Cart{append(items, li)}
}

// SetQuantity replaces the quantity of the matching item. Zero or less
// removes the item; an unknown id leaves the cart as is.
func (c Cart) SetQuantity(productID string, quantity int) Cart {
	if quantity <= 0 {
		next, _ := c.Remove(productID)
		return next
	}
	i := c.index(productID)
	if i < 0 {
		return c
	}
	items := slices.Clone(c.items)
	items[i].Quantity = quantity
	return Cart{items}
}

// Remove drops the matching item and reports whether there was one.
func (c Cart) Remove(productID string) (Cart, bool) {
	i := c.index(productID)
	if i < 0 {
		return c, false
	}
	items := slices.Clone(c.items)
	return Cart{slices.Delete(items, i, i+1)}, true
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) ItemCount() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Total() Totals {
	t := Totals{USD: decimal.Zero}
	for _, it := range c.items {
		t = t.add(it.Subtotal())
	}
	return t
}

func (c Cart) index(productID string) int {
	return slices.IndexFunc(c.items, func(it LineItem) bool {
		return it.ProductID == productID
	})
}
