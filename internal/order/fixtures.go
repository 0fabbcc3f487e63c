package order

import (
	"time"

	"github.com/cognisance/atelier/internal/domain"
)

// SampleOrders returns the demo order history the storefront ships with.
// Statuses are fixture state, not the result of lifecycle transitions, so
// the orders are constructed directly.
func SampleOrders(now time.Time) []*domain.Order {
	day := 24 * time.Hour
	return []*domain.Order{
		{
			ID:       "ORD-001",
			PlacedAt: now.Add(-5 * day),
			Lines: []domain.OrderLine{
				{ProductID: 1, Name: "Elegant Evening Gown", UnitPrice: domain.Cedis(450), Quantity: 1, Image: "https://images.unsplash.com/photo-1763336016192-c7b62602e993?q=80&w=1080"},
			},
			Total:             domain.Cedis(450),
			Status:            domain.StatusDelivered,
			EstimatedDelivery: now.Add(2 * day),
			TrackingNumber:    "GH-2024-001-ABC123",
		},
		{
			ID:       "ORD-002",
			PlacedAt: now.Add(-2 * day),
			Lines: []domain.OrderLine{
				{ProductID: 3, Name: "Ankara Print Dress", UnitPrice: domain.Cedis(350), Quantity: 2, Image: "https://images.unsplash.com/photo-1760907949889-eb62b7fd9f75?q=80&w=1080"},
			},
			Total:             domain.Cedis(700),
			Status:            domain.StatusShipped,
			EstimatedDelivery: now.Add(3 * day),
			TrackingNumber:    "GH-2024-002-XYZ789",
		},
		{
			ID:       "ORD-003",
			PlacedAt: now.Add(-12 * time.Hour),
			Lines: []domain.OrderLine{
				{ProductID: 2, Name: "Luxury Bridal Gown", UnitPrice: domain.Cedis(1500), Quantity: 1, Image: "https://images.unsplash.com/photo-1747847471528-7b95ea7a4c39?q=80&w=1080"},
			},
			Total:             domain.Cedis(1500),
			Status:            domain.StatusProcessing,
			EstimatedDelivery: now.Add(7 * day),
			TrackingNumber:    "GH-2024-003-DEF456",
		},
	}
}
