package catalog

import (
	"fmt"
	"strings"

	"github.com/cognisance/atelier/internal/domain"
)

// Registry holds the product catalog in memory. It is read-only after
// construction; products are never created or destroyed at runtime.
type Registry struct {
	ordered []domain.Product
	byID    map[int]domain.Product
}

// NewRegistry builds a registry from validated products. Duplicate product
// ids are rejected.
func NewRegistry(products []domain.Product) (*Registry, error) {
	r := &Registry{
		ordered: make([]domain.Product, 0, len(products)),
		byID:    make(map[int]domain.Product, len(products)),
	}

	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		r.byID[p.ID] = p
		r.ordered = append(r.ordered, p)
	}

	return r, nil
}

// List returns all products in collection order.
func (r *Registry) List() []domain.Product {
	out := make([]domain.Product, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Get returns the product with the given id.
func (r *Registry) Get(id int) (domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// ByCategory returns all products in the given category, in collection order.
func (r *Registry) ByCategory(category domain.Category) []domain.Product {
	var out []domain.Product
	for _, p := range r.ordered {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name contains the query, case-insensitively.
// An empty query matches everything.
func (r *Registry) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.List()
	}

	var out []domain.Product
	for _, p := range r.ordered {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of products in the catalog.
func (r *Registry) Len() int {
	return len(r.ordered)
}
