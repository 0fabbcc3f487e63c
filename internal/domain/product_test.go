package domain

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(string(c))
		if err != nil || parsed != c {
			t.Errorf("ParseCategory(%q) = (%q, %v)", c, parsed, err)
		}
	}

	if _, err := ParseCategory("streetwear"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ParseCategory(streetwear) error = %v; want ErrInvalidCategory", err)
	}
}

func TestProduct_Validate(t *testing.T) {
	valid := Product{ID: 1, Name: "Elegant Evening Gown", Price: Cedis(450), Category: CategoryEvening}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	tests := []struct {
		name    string
		product Product
	}{
		{"zero id", Product{Name: "x", Price: 1, Category: CategoryBridal}},
		{"missing name", Product{ID: 1, Price: 1, Category: CategoryBridal}},
		{"negative price", Product{ID: 1, Name: "x", Price: -1, Category: CategoryBridal}},
		{"bad category", Product{ID: 1, Name: "x", Price: 1, Category: "streetwear"}},
	}

	for _, tt := range tests {
		if err := tt.product.Validate(); err == nil {
			t.Errorf("%s: Validate() should fail", tt.name)
		}
	}
}
