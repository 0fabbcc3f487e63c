package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cognisance/atelier/internal/cart"
	"github.com/cognisance/atelier/internal/domain"
	"github.com/cognisance/atelier/internal/notify"
	"github.com/cognisance/atelier/internal/order"
)

// deliveryWindow is the default fulfilment estimate for a new order.
const deliveryWindow = 7 * 24 * time.Hour

// Service turns the live cart into an immutable order. There is no payment
// step; placement is the whole checkout.
type Service struct {
	cart   *cart.Service
	orders *order.Service

	notifier notify.Notifier // Optional: order confirmation messages
}

// NewService creates a checkout service over the cart and order history.
func NewService(cartService *cart.Service, orderService *order.Service) *Service {
	return &Service{
		cart:   cartService,
		orders: orderService,
	}
}

// SetNotifier wires the optional confirmation notifier.
func (s *Service) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

// PlaceOrder snapshots the cart into a new pending order, adds it to the
// history and clears the cart. The order total is fixed at placement time.
// The cart is emptied only once the order is recorded, and atomically with
// the snapshot, so no concurrent add is ever silently discarded.
func (s *Service) PlaceOrder(ctx context.Context) (domain.Order, error) {
	var placed *domain.Order
	err := s.cart.Checkout(func(lines []domain.OrderLine) error {
		now := time.Now()
		order, err := domain.NewOrder(domain.NewOrderID(), now, lines, now.Add(deliveryWindow))
		if err != nil {
			return fmt.Errorf("build order: %w", err)
		}

		if err := s.orders.Add(ctx, order); err != nil {
			return fmt.Errorf("record order: %w", err)
		}

		placed = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	slog.Info("checkout complete", "order_id", placed.ID, "total", placed.Total.String())

	// Confirmation is fire-and-forget; a failed send never fails checkout.
	if s.notifier != nil {
		if err := s.notifier.OrderConfirmation(ctx, *placed); err != nil {
			slog.Warn("order confirmation failed", "order_id", placed.ID, "error", err)
		}
	}

	return *placed, nil
}
