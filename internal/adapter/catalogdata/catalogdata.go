// Package catalogdata decodes the static product catalog from YAML. The
// storefront ships with an embedded default document.
package catalogdata

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

type document struct {
	Conversion      conversionDoc `yaml:"conversion"`
	PopularSearches []string      `yaml:"popular_searches"`
	External        []productDoc  `yaml:"external"`
	Local           []productDoc  `yaml:"local"`
}

type conversionDoc struct {
	Rate           float64 `yaml:"rate"`
	ExternalOffset int64   `yaml:"external_offset"`
	LocalOffset    int64   `yaml:"local_offset"`
}

type entryConversionDoc struct {
	Rate   float64 `yaml:"rate"`
	Offset int64   `yaml:"offset"`
}

type textDoc struct {
	En string `yaml:"en"`
	Ar string `yaml:"ar"`
}

type productDoc struct {
	ID               string              `yaml:"id"`
	Name             textDoc             `yaml:"name"`
	Description      textDoc             `yaml:"description"`
	Features         []textDoc           `yaml:"features"`
	PriceUSD         float64             `yaml:"price_usd"`
	OriginalPriceUSD *float64            `yaml:"original_price_usd"`
	Conversion       *entryConversionDoc `yaml:"conversion"`
	Discount         int                 `yaml:"discount"`
	Image            string              `yaml:"image"`
	Images           []string            `yaml:"images"`
	Rating           float64             `yaml:"rating"`
	Reviews          int                 `yaml:"reviews"`
	Category         string              `yaml:"category"`
	DeliveryTime     string              `yaml:"delivery_time"`
	InStock          bool                `yaml:"in_stock"`

	// external only
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`

	// local only
	Quantity int    `yaml:"quantity"`
	Location string `yaml:"location"`
}

// Defaults overrides the document conversion when a field is non-zero.
type Defaults struct {
	Rate           float64
	ExternalOffset *int64
	LocalOffset    *int64
}

// Load builds the catalog from path, or from the embedded document when
// path is empty.
func Load(path string, d Defaults) (*catalog.Catalog, error) {
	const op = "catalogdata.Load"

	if path == "" {
		c, err := Decode(embedded, d)
		if err != nil {
			return nil, fmt.Errorf("%s: embedded: %w", op, err)
		}
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := Decode(data, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, path, err)
	}
	return c, nil
}

func Decode(data []byte, d Defaults) (*catalog.Catalog, error) {
	const op = "catalogdata.Decode"

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	doc.Conversion.apply(d)
	if doc.Conversion.Rate <= 0 {
		return nil, fmt.Errorf("%s: conversion rate must be positive", op)
	}

	external := make([]domain.Product, len(doc.External))
	for i, pd := range doc.External {
		conv := pd.conversion(doc.Conversion.Rate, doc.Conversion.ExternalOffset)
		p := pd.product(domain.KindExternal, conv)
		p.External = &domain.ExternalListing{
			Platform: domain.Platform(pd.Platform),
			URL:      pd.URL,
		}
		external[i] = p
	}

	local := make([]domain.Product, len(doc.Local))
	for i, pd := range doc.Local {
		conv := pd.conversion(doc.Conversion.Rate, doc.Conversion.LocalOffset)
		p := pd.product(domain.KindLocal, conv)
		p.Local = &domain.LocalStock{Quantity: pd.Quantity, Location: pd.Location}
		p.InStock = pd.InStock && pd.Quantity > 0
		local[i] = p
	}

	c, err := catalog.New(external, local, doc.PopularSearches...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// MustDefault returns the embedded catalog and panics when it is broken.
func MustDefault() *catalog.Catalog {
	c, err := Decode(embedded, Defaults{})
	if err != nil {
		panic(errors.Join(errors.New("embedded catalog is invalid"), err))
	}
	return c
}

func (c *conversionDoc) apply(d Defaults) {
	if d.Rate > 0 {
		c.Rate = d.Rate
	}
	if d.ExternalOffset != nil {
		c.ExternalOffset = *d.ExternalOffset
	}
	if d.LocalOffset != nil {
		c.LocalOffset = *d.LocalOffset
	}
}

func (pd productDoc) conversion(rate float64, offset int64) domain.Conversion {
	if pd.Conversion != nil {
		if pd.Conversion.Rate > 0 {
			rate = pd.Conversion.Rate
		}
		offset = pd.Conversion.Offset
	}
	return domain.Conversion{Rate: decimal.NewFromFloat(rate), Offset: offset}
}

func (pd productDoc) product(kind domain.Kind, conv domain.Conversion) domain.Product {
	p := domain.Product{
		ID:           pd.ID,
		Kind:         kind,
		Name:         domain.LocalizedText(pd.Name),
		Description:  domain.LocalizedText(pd.Description),
		Price:        conv.Price(decimal.NewFromFloat(pd.PriceUSD)),
		Conversion:   conv,
		Discount:     pd.Discount,
		Image:        pd.Image,
		Images:       pd.Images,
		Category:     pd.Category,
		Rating:       pd.Rating,
		Reviews:      pd.Reviews,
		InStock:      pd.InStock,
		DeliveryTime: pd.DeliveryTime,
	}
	for _, f := range pd.Features {
		p.Features = append(p.Features, domain.LocalizedText(f))
	}
	if pd.OriginalPriceUSD != nil {
		op := conv.Price(decimal.NewFromFloat(*pd.OriginalPriceUSD))
		p.OriginalPrice = &op
	}
	return p
}
