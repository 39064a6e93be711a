package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	featuredLimit            = 4
	featuredExternalDiscount = 40
	featuredLocalDiscount    = 20

	suggestExternalLimit = 6
	suggestLocalLimit    = 4
	suggestTermsLimit    = 6
)

type Query struct {
	Text     string
	Category string
	Origin   domain.Origin
	Sort     domain.SortOrder
}

// Browse lists local then external matches of q, optionally narrowed to
// one origin and stably sorted.
func (c *Catalog) Browse(q Query) []domain.Product {
	var out []domain.Product
	if q.Origin != domain.OriginExternal {
		out = append(out, c.SearchLocal(q.Text, q.Category)...)
	}
	if q.Origin != domain.OriginLocal {
		out = append(out, c.SearchExternal(q.Text, q.Category)...)
	}
	if out == nil {
		out = []domain.Product{}
	}

	switch q.Sort {
	case domain.SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(a.Price.DZD, b.Price.DZD)
		})
	case domain.SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.Price.DZD, a.Price.DZD)
		})
	case domain.SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case domain.SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(serial(b.ID), serial(a.ID))
		})
	}
	return out
}

// serial extracts the numeric tail of ids like "12" or "local-3".
func serial(id string) int {
	if i := strings.LastIndexByte(id, '-'); i >= 0 {
		id = id[i+1:]
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}

type Featured struct {
	External []domain.Product
	Local    []domain.Product
}

func (c *Catalog) Featured() Featured {
	return Featured{
		External: discounted(c.external, featuredExternalDiscount),
		Local:    discounted(c.local, featuredLocalDiscount),
	}
}

func discounted(entries []entry, over int) []domain.Product {
	out := []domain.Product{}
	for _, e := range entries {
		if len(out) == featuredLimit {
			break
		}
		if e.product.Discount > over {
			out = append(out, e.product)
		}
	}
	return out
}

type Suggestions struct {
	Terms    []string
	External []domain.Product
	Local    []domain.Product
}

// Suggest proposes products and search terms for a partially typed
// query. Arabic feature names count as matches here.
func (c *Catalog) Suggest(query string) Suggestions {
	s := Suggestions{
		Terms:    []string{},
		External: []domain.Product{},
		Local:    []domain.Product{},
	}
	q := foldQuery(query)
	if q == "" {
		return s
	}

	s.External = suggest(c.external, q, suggestExternalLimit)
	s.Local = suggest(c.local, q, suggestLocalLimit)

	var terms []string
	for _, p := range c.popular {
		if strings.Contains(foldQuery(p), q) {
			terms = append(terms, p)
		}
	}
	for _, p := range slices.Concat(s.External, s.Local) {
		terms = append(terms, p.Name.Ar)
	}
	if len(terms) > suggestTermsLimit {
		terms = terms[:suggestTermsLimit]
	}
	for _, t := range terms {
		if !slices.Contains(s.Terms, t) {
			s.Terms = append(s.Terms, t)
		}
	}
	return s
}

func suggest(entries []entry, q string, limit int) []domain.Product {
	out := []domain.Product{}
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if containsAny(e.primary, q) || containsAny(e.features, q) {
			out = append(out, e.product)
		}
	}
	return out
}
