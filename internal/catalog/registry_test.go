package catalog

import (
	"errors"
	"testing"

	"github.com/cognisance/atelier/internal/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	registry, err := NewRegistry(StudioCollection())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return registry
}

func TestNewRegistry_DuplicateID(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "A", Price: 1, Category: domain.CategoryBridal},
		{ID: 1, Name: "B", Price: 1, Category: domain.CategoryCasual},
	}

	if _, err := NewRegistry(products); err == nil {
		t.Error("NewRegistry() should reject duplicate product ids")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := newTestRegistry(t)

	product, err := registry.Get(1)
	if err != nil {
		t.Fatalf("Get(1) error = %v", err)
	}
	if product.Name != "Elegant Evening Gown" {
		t.Errorf("Name = %q; want Elegant Evening Gown", product.Name)
	}

	if _, err := registry.Get(999); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("Get(999) error = %v; want ErrProductNotFound", err)
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	registry := newTestRegistry(t)

	evening := registry.ByCategory(domain.CategoryEvening)
	if len(evening) != 2 {
		t.Fatalf("len(evening) = %d; want 2", len(evening))
	}
	for _, p := range evening {
		if p.Category != domain.CategoryEvening {
			t.Errorf("product %d category = %q; want evening", p.ID, p.Category)
		}
	}
}

func TestRegistry_Search(t *testing.T) {
	registry := newTestRegistry(t)

	hits := registry.Search("gown")
	if len(hits) != 2 {
		t.Fatalf("Search(gown) = %d hits; want 2", len(hits))
	}

	if len(registry.Search("")) != registry.Len() {
		t.Error("empty query should match everything")
	}
	if len(registry.Search("no-such-piece")) != 0 {
		t.Error("unmatched query should return nothing")
	}
}
