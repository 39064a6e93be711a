// Package catalog serves read-only queries over the two static product
// arrays: products sourced from external platforms and locally stocked
// products.
//
// A Catalog never changes after [New] returns and is safe for concurrent
// use. Every query returns a fresh slice in declaration order unless a
// sort is requested.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"golang.org/x/text/cases"
)

var ErrDuplicateID = errors.New("duplicate product id")

var ErrWrongKind = errors.New("product kind does not match catalog section")

type entry struct {
	product domain.Product

	// case folded search fields
	primary  []string
	features []string
}

type Catalog struct {
	external []entry
	local    []entry
	byID     map[string]*entry
	popular  []string
}

// New validates both arrays and builds the catalog. Popular search terms
// seed [Catalog.Suggest].
func New(external, local []domain.Product, popular ...string) (*Catalog, error) {
	const op = "catalog.New"

	c := &Catalog{
		byID:    make(map[string]*entry, len(external)+len(local)),
		popular: slices.Clone(popular),
	}

	var err error
	c.external, err = c.index(external, domain.KindExternal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.local, err = c.index(local, domain.KindLocal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (c *Catalog) index(ps []domain.Product, kind domain.Kind) ([]entry, error) {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(ps))
	entries := make([]entry, len(ps))
	for i, p := range ps {
		if p.Kind != kind {
			return nil, fmt.Errorf("%w: %q is %s", ErrWrongKind, p.ID, p.Kind)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}

		e := entry{product: p}
		for _, s := range []string{
			p.Name.Ar, p.Name.En,
			p.Description.Ar, p.Description.En,
			p.Category,
		} {
			e.primary = append(e.primary, fold.String(s))
		}
		for _, f := range p.Features {
			e.features = append(e.features, fold.String(f.Ar))
		}
		entries[i] = e
	}
	for i := range entries {
		c.byID[entries[i].product.ID] = &entries[i]
	}
	return entries, nil
}

// SearchExternal returns external products whose name, description or
// category contains query, ignoring case. A non-empty category keeps only
// products of that category.
func (c *Catalog) SearchExternal(query, category string) []domain.Product {
	return search(c.external, query, category)
}

// SearchLocal is [Catalog.SearchExternal] over locally stocked products.
func (c *Catalog) SearchLocal(query, category string) []domain.Product {
	return search(c.local, query, category)
}

func (c *Catalog) GetByID(id string) (domain.Product, bool) {
	e, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return e.product, true
}

// Categories lists distinct categories in declaration order, external
// products first.
func (c *Catalog) Categories() []string {
	var cs []string
	for _, e := range slices.Concat(c.external, c.local) {
		if !slices.Contains(cs, e.product.Category) {
			cs = append(cs, e.product.Category)
		}
	}
	return cs
}

func (c *Catalog) PopularSearches() []string {
	return slices.Clone(c.popular)
}

func (c *Catalog) Len() (external, local int) {
	return len(c.external), len(c.local)
}

// search matches the query as a literal substring; blanks are significant.
func search(entries []entry, query, category string) []domain.Product {
	q := cases.Fold().String(query)
	out := make([]domain.Product, 0, len(entries))
	for _, e := range entries {
		if category != "" && e.product.Category != category {
			continue
		}
		if q != "" && !containsAny(e.primary, q) {
			continue
		}
		out = append(out, e.product)
	}
	return out
}

// foldQuery normalizes a partially typed query for suggestions.
func foldQuery(query string) string {
	return cases.Fold().String(strings.TrimSpace(query))
}

func containsAny(fields []string, q string) bool {
	return slices.ContainsFunc(fields, func(f string) bool {
		return strings.Contains(f, q)
	})
}
