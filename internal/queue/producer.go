package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cognisance/atelier/internal/domain"
)

// Producer publishes order events to the queue.
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer.
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	event := &OrderEvent{
		ID:         uuid.New(),
		Type:       EventOrderPlaced,
		OrderID:    order.ID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now(),
	}
	return p.publish(ctx, event)
}

// PublishStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishStatusChanged(ctx context.Context, order domain.Order, from domain.Status) error {
	event := &OrderEvent{
		ID:             uuid.New(),
		Type:           EventOrderStatusChanged,
		OrderID:        order.ID,
		Status:         order.Status,
		PreviousStatus: from,
		Total:          order.Total,
		OccurredAt:     time.Now(),
	}
	return p.publish(ctx, event)
}

func (p *Producer) publish(ctx context.Context, event *OrderEvent) error {
	if err := p.conn.PublishJSON(ctx, OrderQueueName, event); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	slog.Info("published order event",
		"event_id", event.ID,
		"type", event.Type,
		"order_id", event.OrderID,
		"status", event.Status,
	)

	return nil
}
