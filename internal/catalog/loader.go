package catalog

import (
	"fmt"
	"os"

	"github.com/cognisance/atelier/internal/domain"
	"gopkg.in/yaml.v3"
)

// CollectionFile represents the YAML structure for a product collection.
type CollectionFile struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Products []struct {
		ID       int    `yaml:"id"`
		Name     string `yaml:"name"`
		Price    int64  `yaml:"price"` // whole cedis
		Category string `yaml:"category"`
		Image    string `yaml:"image"`
	} `yaml:"products"`
}

// Collection is a named, immutable set of catalog products.
type Collection struct {
	ID       string
	Name     string
	Products []domain.Product
}

// LoadCollection loads and validates a collection from a YAML file.
func LoadCollection(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection file: %w", err)
	}

	var file CollectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse collection file: %w", err)
	}

	collection := &Collection{
		ID:       file.ID,
		Name:     file.Name,
		Products: make([]domain.Product, 0, len(file.Products)),
	}

	for _, p := range file.Products {
		category, err := domain.ParseCategory(p.Category)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
		product := domain.Product{
			ID:       p.ID,
			Name:     p.Name,
			Price:    domain.Cedis(p.Price),
			Category: category,
			Image:    p.Image,
		}
		if err := product.Validate(); err != nil {
			return nil, fmt.Errorf("invalid collection: %w", err)
		}
		collection.Products = append(collection.Products, product)
	}

	return collection, nil
}
