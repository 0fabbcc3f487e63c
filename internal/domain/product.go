package domain

import "fmt"

// Category classifies a catalog product.
type Category string

const (
	CategoryBridal      Category = "bridal"
	CategoryEvening     Category = "evening"
	CategoryTraditional Category = "traditional"
	CategoryCasual      Category = "casual"
)

// Categories lists all valid product categories in display order.
func Categories() []Category {
	return []Category{CategoryBridal, CategoryEvening, CategoryTraditional, CategoryCasual}
}

// ParseCategory validates a category string from config or request input.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryBridal, CategoryEvening, CategoryTraditional, CategoryCasual:
		return true
	}
	return false
}

// Product is read-only catalog reference data. Products are loaded once at
// startup and never created or destroyed at runtime.
type Product struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    Money    `json:"price" yaml:"price"`
	Category Category `json:"category" yaml:"category"`
	Image    string   `json:"image" yaml:"image"`
}

// Validate checks the invariants catalog data must satisfy.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product %q: id must be positive", p.Name)
	}
	if p.Name == "" {
		return fmt.Errorf("product %d: name is required", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %d: price must not be negative", p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("product %d: %w: %q", p.ID, ErrInvalidCategory, p.Category)
	}
	return nil
}
