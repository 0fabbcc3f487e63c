package catalog

import "github.com/cognisance/atelier/internal/domain"

// StudioCollection returns the built-in Cognisance Fashion collection, used
// when no collection file is configured.
func StudioCollection() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Elegant Evening Gown", Price: domain.Cedis(450), Category: domain.CategoryEvening, Image: "https://images.unsplash.com/photo-1763336016192-c7b62602e993?q=80&w=1080"},
		{ID: 2, Name: "Luxury Bridal Gown", Price: domain.Cedis(1500), Category: domain.CategoryBridal, Image: "https://images.unsplash.com/photo-1747847471528-7b95ea7a4c39?q=80&w=1080"},
		{ID: 3, Name: "Ankara Print Dress", Price: domain.Cedis(350), Category: domain.CategoryTraditional, Image: "https://images.unsplash.com/photo-1760907949889-eb62b7fd9f75?q=80&w=1080"},
		{ID: 4, Name: "Custom Tailored Blazer", Price: domain.Cedis(400), Category: domain.CategoryCasual, Image: "https://images.unsplash.com/photo-1592878849122-facb97520f9e?q=80&w=1080"},
		{ID: 5, Name: "Cocktail Party Dress", Price: domain.Cedis(380), Category: domain.CategoryEvening, Image: "https://images.unsplash.com/photo-1628686560823-010afb10b440?q=80&w=1080"},
		{ID: 6, Name: "Traditional Attire", Price: domain.Cedis(420), Category: domain.CategoryTraditional, Image: "https://images.unsplash.com/photo-1705910783045-e920df81f684?q=80&w=1080"},
	}
}
