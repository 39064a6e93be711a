package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type Customer struct {
	Name    string
	Email   string
	Phone   string
	State   string
	Address string
	Notes   string
}

func (c Customer) Validate() error {
	const op = "Customer.Validate"

	var errs []error
	required := []struct{ field, value string }{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"state", c.State},
		{"address", c.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s: required", r.field))
		}
	}

	if strings.TrimSpace(c.Email) != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidCustomer, errors.Join(errs...))
	}
	return nil
}

type Order struct {
	ID       string
	Customer Customer
	Items    []LineItem
	Total    Totals
	PlacedAt time.Time
}

// NewOrder captures the cart contents at call time.
func NewOrder(id string, c Customer, cart Cart, placedAt time.Time) Order {
	return Order{
		ID:       id,
		Customer: c,
		Items:    cart.Items(),
		Total:    cart.Total(),
		PlacedAt: placedAt,
	}
}

type ProductRequest struct {
	ID                 string
	ProductName        string
	ProductURL         string
	ProductDescription string
	Customer           Customer
	RequestedAt        time.Time
}

func (r ProductRequest) Validate() error {
	const op = "ProductRequest.Validate"

	var errs []error
	if strings.TrimSpace(r.ProductName) == "" {
		errs = append(errs, errors.New("product name: required"))
	}
	if err := r.Customer.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) != 0 {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidRequest, errors.Join(errs...))
	}
	return nil
}
