package cart

import (
	"log/slog"
	"sync"

	"github.com/cognisance/atelier/internal/catalog"
	"github.com/cognisance/atelier/internal/domain"
)

// Summary is a read-only view of the cart for the client.
type Summary struct {
	Lines     []Line       `json:"lines"`
	Total     domain.Money `json:"total"`
	ItemCount int          `json:"item_count"`
}

// Empty reports whether the view holds no lines.
func (s Summary) Empty() bool {
	return len(s.Lines) == 0
}

// Service guards the cart behind a mutex and resolves products through the
// catalog. Views read through it and never touch the aggregate directly.
type Service struct {
	catalog *catalog.Registry

	mu   sync.Mutex
	cart *Cart
}

// NewService creates a cart service over the given catalog.
func NewService(registry *catalog.Registry) *Service {
	return &Service{
		catalog: registry,
		cart:    New(),
	}
}

// Add resolves the product and adds quantity units to the cart.
func (s *Service) Add(productID, quantity int) (Summary, error) {
	product, err := s.catalog.Get(productID)
	if err != nil {
		return Summary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.Add(product, quantity); err != nil {
		return Summary{}, err
	}

	slog.Debug("added to cart", "product_id", productID, "quantity", quantity)
	return s.summaryLocked(), nil
}

// SetQuantity sets a line's quantity; zero or less removes the line.
func (s *Service) SetQuantity(productID, quantity int) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.SetQuantity(productID, quantity)
	return s.summaryLocked()
}

// Remove deletes the line for the product, if present.
func (s *Service) Remove(productID int) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Remove(productID)
	return s.summaryLocked()
}

// Clear empties the cart.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
}

// Summary returns the current cart view.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// Snapshot returns immutable order line snapshots of the current cart.
func (s *Service) Snapshot() []domain.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// Checkout snapshots the cart, hands the lines to place, and empties the
// cart only when place succeeds. The cart stays locked throughout, so a
// concurrent add cannot slip in between the snapshot and the clear.
func (s *Service) Checkout(place func(lines []domain.OrderLine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Snapshot()
	if len(lines) == 0 {
		return domain.ErrEmptyCart
	}

	if err := place(lines); err != nil {
		return err
	}

	s.cart.Clear()
	return nil
}

func (s *Service) summaryLocked() Summary {
	return Summary{
		Lines:     s.cart.Lines(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
}
