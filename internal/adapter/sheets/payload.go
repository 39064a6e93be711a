package sheets

import (
	"encoding/json"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	actionSubmitOrder    = "submitOrder"
	actionRequestProduct = "requestProduct"

	typeOrder          = "order"
	typeProductRequest = "product_request"
)

type customerPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	State   string `json:"state"`
	Notes   string `json:"notes"`
}

type itemPayload struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	NameAr     string      `json:"nameAr"`
	Price      json.Number `json:"price"`
	PriceInDZD int64       `json:"priceInDZD"`
	Image      string      `json:"image"`
	Quantity   int         `json:"quantity"`
	Platform   string      `json:"platform"`
}

type orderPayload struct {
	customerPayload
	Items      []itemPayload `json:"items"`
	Total      json.Number   `json:"total"`
	TotalInDZD int64         `json:"totalInDZD"`
	OrderDate  string        `json:"orderDate"`
	OrderID    string        `json:"orderId"`
	Type       string        `json:"type"`
}

type productRequestPayload struct {
	ProductName        string `json:"productName"`
	ProductURL         string `json:"productUrl"`
	ProductDescription string `json:"productDescription"`
	customerPayload
	RequestDate string `json:"requestDate"`
	RequestID   string `json:"requestId"`
	Type        string `json:"type"`
}

func toCustomerPayload(c domain.Customer) customerPayload {
	return customerPayload{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		State:   c.State,
		Notes:   c.Notes,
	}
}

func toOrderPayload(o domain.Order) orderPayload {
	items := make([]itemPayload, len(o.Items))
	for i, it := range o.Items {
		items[i] = itemPayload{
			ID:         it.ProductID,
			Name:       it.Name.En,
			NameAr:     it.Name.Ar,
			Price:      number(it.Price.USD),
			PriceInDZD: it.Price.DZD,
			Image:      it.Image,
			Quantity:   it.Quantity,
			Platform:   string(it.Platform),
		}
	}
	return orderPayload{
		customerPayload: toCustomerPayload(o.Customer),
		Items:           items,
		Total:           number(o.Total.USD),
		TotalInDZD:      o.Total.DZD,
		OrderDate:       isoTime(o.PlacedAt),
		OrderID:         o.ID,
		Type:            typeOrder,
	}
}

func toProductRequestPayload(r domain.ProductRequest) productRequestPayload {
	return productRequestPayload{
		ProductName:        r.ProductName,
		ProductURL:         r.ProductURL,
		ProductDescription: r.ProductDescription,
		customerPayload:    toCustomerPayload(r.Customer),
		RequestDate:        isoTime(r.RequestedAt),
		RequestID:          r.ID,
		Type:               typeProductRequest,
	}
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
