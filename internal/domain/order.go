package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// statusSequence defines the forward-only lifecycle.
var statusSequence = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

// ParseStatus validates a status string from request input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	for _, known := range statusSequence {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the lifecycle. ok is false for
// the terminal status.
func (s Status) Next() (next Status, ok bool) {
	for i, known := range statusSequence {
		if s == known && i+1 < len(statusSequence) {
			return statusSequence[i+1], true
		}
	}
	return "", false
}

// CanAdvanceTo reports whether target is the immediate successor of s.
// Backward and skipped transitions are rejected.
func (s Status) CanAdvanceTo(target Status) bool {
	next, ok := s.Next()
	return ok && target == next
}

// Terminal reports whether the order has reached its final state.
func (s Status) Terminal() bool {
	return s == StatusDelivered
}

// AtLeast reports whether s is at or past the given stage in the lifecycle.
func (s Status) AtLeast(stage Status) bool {
	return s.position() >= stage.position()
}

func (s Status) position() int {
	for i, known := range statusSequence {
		if s == known {
			return i
		}
	}
	return -1
}

// OrderLine is an immutable snapshot of a cart line taken at placement time.
type OrderLine struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice Money  `json:"unit_price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (l OrderLine) Subtotal() Money {
	return l.UnitPrice.Mul(l.Quantity)
}

// Order is a placed order. Lines and Total are snapshots: later catalog
// price changes never affect an existing order.
type Order struct {
	ID                string      `json:"id"`
	PlacedAt          time.Time   `json:"placed_at"`
	Lines             []OrderLine `json:"lines"`
	Total             Money       `json:"total"`
	Status            Status      `json:"status"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	TrackingNumber    string      `json:"tracking_number,omitempty"`
}

// NewOrder creates a pending order from line snapshots. The total is
// computed once here and never recomputed afterward.
func NewOrder(id string, placedAt time.Time, lines []OrderLine, estimatedDelivery time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrOrderWithoutLines
	}
	var total Money
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, l.ProductID)
		}
		total += l.Subtotal()
	}
	return &Order{
		ID:                id,
		PlacedAt:          placedAt,
		Lines:             lines,
		Total:             total,
		Status:            StatusPending,
		EstimatedDelivery: estimatedDelivery,
	}, nil
}

// Advance moves the order to the next status. Only single forward steps
// are allowed.
func (o *Order) Advance(target Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !o.Status.CanAdvanceTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	return nil
}

// NewOrderID generates a customer-facing order identifier.
func NewOrderID() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ORD-" + token[:8]
}

// NewTrackingNumber generates a tracking number for an order entering
// fulfilment, e.g. "GH-2024-7F3A9C".
func NewTrackingNumber(now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("GH-%d-%s", now.Year(), token[:6])
}
