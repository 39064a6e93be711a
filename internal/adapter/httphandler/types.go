package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/state"
	"github.com/shopspring/decimal"
)

type (
	Text struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	}

	Price struct {
		USD decimal.Decimal `json:"usd"`
		DZD int64           `json:"dzd"`
	}

	Product struct {
		ID            string   `json:"id"`
		Kind          string   `json:"kind"`
		Name          Text     `json:"name"`
		Description   Text     `json:"description"`
		Features      []Text   `json:"features"`
		Price         Price    `json:"price"`
		OriginalPrice *Price   `json:"originalPrice,omitempty"`
		Savings       *Price   `json:"savings,omitempty"`
		Discount      int      `json:"discount"`
		Image         string   `json:"image"`
		Images        []string `json:"images"`
		Category      string   `json:"category"`
		Rating        float64  `json:"rating"`
		Reviews       int      `json:"reviews"`
		InStock       bool     `json:"inStock"`
		DeliveryTime  string   `json:"deliveryTime,omitempty"`
		Platform      string   `json:"platform"`

		URL      string `json:"url,omitempty"`
		Quantity *int   `json:"quantity,omitempty"`
		Location string `json:"location,omitempty"`
	}

	Featured struct {
		External []Product `json:"external"`
		Local    []Product `json:"local"`
	}

	Suggestions struct {
		Terms    []string  `json:"terms"`
		External []Product `json:"external"`
		Local    []Product `json:"local"`
	}
)

type (
	LineItem struct {
		ProductID string `json:"productId"`
		Name      Text   `json:"name"`
		Price     Price  `json:"price"`
		Image     string `json:"image"`
		Quantity  int    `json:"quantity"`
		Platform  string `json:"platform"`
		Subtotal  Price  `json:"subtotal"`
	}

	Cart struct {
		Items     []LineItem `json:"items"`
		ItemCount int        `json:"itemCount"`
		Total     Price      `json:"total"`
	}

	Notification struct {
		Seq     uint64 `json:"seq"`
		Message string `json:"message"`
		Level   string `json:"level"`
		Visible bool   `json:"visible"`
	}

	State struct {
		Tab          string       `json:"tab"`
		Category     string       `json:"category"`
		Query        string       `json:"query"`
		Checkout     string       `json:"checkout"`
		Outcome      string       `json:"outcome"`
		CartCount    int          `json:"cartCount"`
		Notification Notification `json:"notification"`
	}

	Order struct {
		OrderID  string     `json:"orderId"`
		Items    []LineItem `json:"items"`
		Total    Price      `json:"total"`
		PlacedAt time.Time  `json:"placedAt"`
	}

	ProductRequestAccepted struct {
		RequestID   string    `json:"requestId"`
		RequestedAt time.Time `json:"requestedAt"`
	}

	UpdatePrompt struct {
		Hidden bool       `json:"hidden"`
		Until  *time.Time `json:"until,omitempty"`
	}
)

// Request bodies.
type (
	AddItemRequest struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	QuantityRequest struct {
		Quantity int `json:"quantity"`
	}

	Customer struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		State   string `json:"state"`
		Address string `json:"address"`
		Notes   string `json:"notes"`
	}

	ProductRequest struct {
		ProductName        string   `json:"productName"`
		ProductURL         string   `json:"productUrl"`
		ProductDescription string   `json:"productDescription"`
		Customer           Customer `json:"customer"`
	}

	TabRequest struct {
		Tab string `json:"tab"`
	}

	CategoryRequest struct {
		Category string `json:"category"`
	}

	SearchRequest struct {
		Query string `json:"query"`
	}
)

func toText(t domain.LocalizedText) Text {
	return Text{En: t.En, Ar: t.Ar}
}

func toPrice(p domain.Price) Price {
	return Price{USD: p.USD, DZD: p.DZD}
}

func toTotals(t domain.Totals) Price {
	return Price{USD: t.USD, DZD: t.DZD}
}

func toProduct(p domain.Product) Product {
	dto := Product{
		ID:           p.ID,
		Kind:         p.Kind.String(),
		Name:         toText(p.Name),
		Description:  toText(p.Description),
		Features:     make([]Text, len(p.Features)),
		Price:        toPrice(p.Price),
		Discount:     p.Discount,
		Image:        p.Image,
		Images:       p.Images,
		Category:     p.Category,
		Rating:       p.Rating,
		Reviews:      p.Reviews,
		InStock:      p.InStock,
		DeliveryTime: p.DeliveryTime,
		Platform:     string(p.PlatformTag()),
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	for i, f := range p.Features {
		dto.Features[i] = toText(f)
	}
	if p.OriginalPrice != nil {
		op := toPrice(*p.OriginalPrice)
		dto.OriginalPrice = &op
	}
	if s, ok := p.Savings(); ok {
		sp := toPrice(s)
		dto.Savings = &sp
	}
	switch {
	case p.External != nil:
		dto.URL = p.External.URL
	case p.Local != nil:
		q := p.Local.Quantity
		dto.Quantity = &q
		dto.Location = p.Local.Location
	}
	return dto
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

func toFeatured(f catalog.Featured) Featured {
	return Featured{External: toProducts(f.External), Local: toProducts(f.Local)}
}

func toSuggestions(s catalog.Suggestions) Suggestions {
	return Suggestions{
		Terms:    s.Terms,
		External: toProducts(s.External),
		Local:    toProducts(s.Local),
	}
}

func toLineItems(items []domain.LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = LineItem{
			ProductID: it.ProductID,
			Name:      toText(it.Name),
			Price:     toPrice(it.Price),
			Image:     it.Image,
			Quantity:  it.Quantity,
			Platform:  string(it.Platform),
			Subtotal:  toTotals(it.Subtotal()),
		}
	}
	return out
}

func toCart(c domain.Cart) Cart {
	return Cart{
		Items:     toLineItems(c.Items()),
		ItemCount: c.ItemCount(),
		Total:     toTotals(c.Total()),
	}
}

func toState(s state.State) State {
	return State{
		Tab:       string(s.Tab),
		Category:  s.Category,
		Query:     s.Query,
		Checkout:  string(s.Checkout),
		Outcome:   string(s.Outcome),
		CartCount: s.Cart.ItemCount(),
		Notification: Notification{
			Seq:     s.Notification.Seq,
			Message: s.Notification.Message,
			Level:   string(s.Notification.Level),
			Visible: s.Notification.Visible,
		},
	}
}

func toOrder(o domain.Order) Order {
	return Order{
		OrderID:  o.ID,
		Items:    toLineItems(o.Items),
		Total:    toTotals(o.Total),
		PlacedAt: o.PlacedAt,
	}
}

func (c Customer) toDomain() domain.Customer {
	return domain.Customer{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		State:   c.State,
		Address: c.Address,
		Notes:   c.Notes,
	}
}

func (r ProductRequest) toDomain() domain.ProductRequest {
	return domain.ProductRequest{
		ProductName:        r.ProductName,
		ProductURL:         r.ProductURL,
		ProductDescription: r.ProductDescription,
		Customer:           r.Customer.toDomain(),
	}
}
