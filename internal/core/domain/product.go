package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// A Kind discriminates the product variants.
type Kind uint8

const (
	KindExternal Kind = iota + 1
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

type Platform string

const (
	PlatformAliExpress Platform = "aliexpress"
	PlatformTemu       Platform = "temu"
	PlatformShein      Platform = "shein"

	// PlatformLocal tags cart line items of locally stocked products.
	PlatformLocal Platform = "local"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformAliExpress, PlatformTemu, PlatformShein:
		return true
	}
	return false
}

type LocalizedText struct {
	En string
	Ar string
}

type (
	// A Price holds the primary USD amount and the DZD amount derived
	// from it by the product's [Conversion].
	Price struct {
		USD decimal.Decimal
		DZD int64
	}

	// A Conversion turns USD into DZD: round(USD*Rate + Offset).
	Conversion struct {
		Rate   decimal.Decimal
		Offset int64
	}
)

func (c Conversion) ToDZD(usd decimal.Decimal) int64 {
	return usd.Mul(c.Rate).Add(decimal.NewFromInt(c.Offset)).Round(0).IntPart()
}

func (c Conversion) Price(usd decimal.Decimal) Price {
	return Price{USD: usd, DZD: c.ToDZD(usd)}
}

type (
	Product struct {
		ID            string
		Kind          Kind
		Name          LocalizedText
		Description   LocalizedText
		Features      []LocalizedText
		Price         Price
		OriginalPrice *Price
		Conversion    Conversion
		Discount      int
		Image         string
		Images        []string
		Category      string
		Rating        float64
		Reviews       int
		InStock       bool
		DeliveryTime  string

		// External is set iff Kind is KindExternal.
		External *ExternalListing
		// Local is set iff Kind is KindLocal.
		Local *LocalStock
	}

	ExternalListing struct {
		Platform Platform
		URL      string
	}

	LocalStock struct {
		Quantity int
		Location string
	}
)

var ErrInvalidProduct = errors.New("invalid product")

func (p Product) Validate() error {
	const op = "Product.Validate"

	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("empty id"))
	}

	switch p.Kind {
	case KindExternal:
		if p.External == nil || p.Local != nil {
			errs = append(errs, errors.New("external product must carry only a listing"))
		} else if !p.External.Platform.Valid() {
			errs = append(errs, fmt.Errorf("unknown platform %q", p.External.Platform))
		}
	case KindLocal:
		if p.Local == nil || p.External != nil {
			errs = append(errs, errors.New("local product must carry only stock"))
		} else if p.Local.Quantity < 0 {
			errs = append(errs, errors.New("negative stock quantity"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kind %d", p.Kind))
	}

	if p.Price.DZD != p.Conversion.ToDZD(p.Price.USD) {
		errs = append(errs, errors.New("DZD price does not match conversion"))
	}
	if p.OriginalPrice != nil &&
		p.OriginalPrice.DZD != p.Conversion.ToDZD(p.OriginalPrice.USD) {
		errs = append(errs, errors.New("original DZD price does not match conversion"))
	}

	if len(errs) != 0 {
		return fmt.Errorf("%s: %q: %w: %w", op, p.ID, ErrInvalidProduct, errors.Join(errs...))
	}
	return nil
}

// PlatformTag returns the source platform, or [PlatformLocal] for
// locally stocked products.
func (p Product) PlatformTag() Platform {
	if p.Kind == KindExternal && p.External != nil {
		return p.External.Platform
	}
	return PlatformLocal
}

// Savings reports how much cheaper the product is than its original price.
func (p Product) Savings() (Price, bool) {
	if p.OriginalPrice == nil {
		return Price{}, false
	}
	s := Price{
		USD: p.OriginalPrice.USD.Sub(p.Price.USD),
		DZD: p.OriginalPrice.DZD - p.Price.DZD,
	}
	if s.DZD <= 0 {
		return Price{}, false
	}
	return s, true
}
