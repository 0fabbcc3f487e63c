package queue

import (
	"context"
	"log/slog"

	"github.com/cognisance/atelier/internal/domain"
	"github.com/cognisance/atelier/internal/order"
)

// Sink adapts the producer to the order service's event hook. Publishing is
// best-effort: a broker outage must not fail the order mutation that raised
// the event.
type Sink struct {
	producer *Producer
}

var _ order.EventSink = (*Sink)(nil)

// NewSink creates an event sink over the connection.
func NewSink(conn *Connection) *Sink {
	return &Sink{producer: NewProducer(conn)}
}

func (s *Sink) OrderPlaced(ctx context.Context, placed domain.Order) {
	if err := s.producer.PublishOrderPlaced(ctx, placed); err != nil {
		slog.Warn("failed to publish order placed event", "order_id", placed.ID, "error", err)
	}
}

func (s *Sink) OrderStatusChanged(ctx context.Context, changed domain.Order, from domain.Status) {
	if err := s.producer.PublishStatusChanged(ctx, changed, from); err != nil {
		slog.Warn("failed to publish status change event", "order_id", changed.ID, "error", err)
	}
}
