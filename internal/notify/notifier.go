package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cognisance/atelier/internal/domain"
)

// Notifier delivers outbound customer messages. Callers treat delivery as
// fire-and-forget: errors are logged, never propagated to the member.
type Notifier interface {
	OrderConfirmation(ctx context.Context, order domain.Order) error
	OrderStatusUpdate(ctx context.Context, order domain.Order, previous domain.Status) error
}

// statusError reports a non-2xx webhook response. It carries the code so
// retry policy can distinguish throttling and server faults from client
// errors without parsing message text.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.code)
}

// WebhookNotifier posts order confirmations as JSON to a configured
// endpoint (the studio's messaging bridge).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier for the given endpoint.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// confirmationPayload is the wire shape of a confirmation message.
type confirmationPayload struct {
	Type              string    `json:"type"`
	OrderID           string    `json:"order_id"`
	Total             string    `json:"total"`
	Status            string    `json:"status"`
	PlacedAt          time.Time `json:"placed_at"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	Items             int       `json:"items"`
}

// statusUpdatePayload is the wire shape of a status change message.
type statusUpdatePayload struct {
	Type           string `json:"type"`
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// OrderConfirmation posts the confirmation message.
func (n *WebhookNotifier) OrderConfirmation(ctx context.Context, order domain.Order) error {
	items := 0
	for _, l := range order.Lines {
		items += l.Quantity
	}

	return n.post(ctx, confirmationPayload{
		Type:              "order_confirmation",
		OrderID:           order.ID,
		Total:             order.Total.String(),
		Status:            string(order.Status),
		PlacedAt:          order.PlacedAt,
		EstimatedDelivery: order.EstimatedDelivery,
		Items:             items,
	})
}

// OrderStatusUpdate posts a status change message.
func (n *WebhookNotifier) OrderStatusUpdate(ctx context.Context, order domain.Order, previous domain.Status) error {
	return n.post(ctx, statusUpdatePayload{
		Type:           "order_status_update",
		OrderID:        order.ID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		TrackingNumber: order.TrackingNumber,
	})
}

func (n *WebhookNotifier) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send notification: %w", &statusError{code: resp.StatusCode})
	}

	return nil
}
