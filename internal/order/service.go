package order

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cognisance/atelier/internal/domain"
)

// EventSink receives order lifecycle notifications, typically bridged to
// the message queue. Delivery failures are logged and never fail the
// triggering operation.
type EventSink interface {
	OrderPlaced(ctx context.Context, order domain.Order)
	OrderStatusChanged(ctx context.Context, order domain.Order, from domain.Status)
}

// Service owns the order history. Orders are kept most-recent-first by
// placement time; entries are immutable snapshots apart from their status.
type Service struct {
	mu     sync.RWMutex
	orders []*domain.Order
	byID   map[string]*domain.Order

	sink EventSink
}

// NewService creates an empty order history.
func NewService() *Service {
	return &Service{byID: make(map[string]*domain.Order)}
}

// SetEventSink wires the optional lifecycle notification sink.
func (s *Service) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Seed loads fixture orders, sorting them most-recent-first. Seeding does
// not emit events.
func (s *Service) Seed(orders ...*domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range orders {
		if _, exists := s.byID[o.ID]; exists {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateOrder, o.ID)
		}
		s.byID[o.ID] = o
		s.orders = append(s.orders, o)
	}

	sort.SliceStable(s.orders, func(i, j int) bool {
		return s.orders[i].PlacedAt.After(s.orders[j].PlacedAt)
	})

	slog.Info("seeded order history", "orders", len(orders))
	return nil
}

// List returns all orders, most recent first.
func (s *Service) List(ctx context.Context) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = *o
	}
	return out
}

// Get returns the order with the given id.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return *o, nil
}

// Add prepends a new order to the history. The order id must be unique.
func (s *Service) Add(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	if _, exists := s.byID[order.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateOrder, order.ID)
	}
	s.byID[order.ID] = order
	s.orders = append([]*domain.Order{order}, s.orders...)
	placed := *order
	s.mu.Unlock()

	slog.Info("order added", "order_id", order.ID, "total", order.Total.String())

	if s.sink != nil {
		s.sink.OrderPlaced(ctx, placed)
	}
	return nil
}

// UpdateStatus advances an order one step along the forward-only
// lifecycle. An order entering fulfilment receives a tracking number.
func (s *Service) UpdateStatus(ctx context.Context, id string, next domain.Status) (domain.Order, error) {
	s.mu.Lock()
	o, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return domain.Order{}, domain.ErrOrderNotFound
	}

	from := o.Status
	if err := o.Advance(next); err != nil {
		s.mu.Unlock()
		return domain.Order{}, err
	}
	if o.Status.AtLeast(domain.StatusProcessing) && o.TrackingNumber == "" {
		o.TrackingNumber = domain.NewTrackingNumber(time.Now())
	}
	updated := *o
	s.mu.Unlock()

	slog.Info("order status updated", "order_id", id, "from", from, "to", next)

	if s.sink != nil {
		s.sink.OrderStatusChanged(ctx, updated, from)
	}
	return updated, nil
}
