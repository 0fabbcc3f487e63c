package notify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/cognisance/atelier/internal/domain"
)

// ResilientNotifier wraps a Notifier with retry and circuit breaking so a
// flaky messaging bridge cannot stall checkout.
type ResilientNotifier struct {
	inner   Notifier
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retrier retry.Retry[struct{}]
	logger  *slog.Logger
}

// ResilientConfig tunes the retry schedule. Zero values take defaults.
type ResilientConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Logger       *slog.Logger
}

// DefaultResilientConfig returns the schedule used in the daemon.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// NewResilientNotifier wraps inner with the configured resilience patterns.
func NewResilientNotifier(inner Notifier, cfg ResilientConfig) *ResilientNotifier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}

	rn := &ResilientNotifier{
		inner:  inner,
		logger: cfg.Logger,
	}

	rn.breaker = circuitbreaker.New[struct{}](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			if rn.logger != nil {
				rn.logger.Warn("notifier circuit breaker state change",
					"from", from.String(),
					"to", to.String())
			}
		},
	})

	rn.retrier = retry.New[struct{}](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      cfg.MaxDelay,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryableSendError,
	})

	return rn
}

// OrderConfirmation sends through the breaker, retrying transient failures.
func (n *ResilientNotifier) OrderConfirmation(ctx context.Context, order domain.Order) error {
	return n.execute(ctx, func(ctx context.Context) error {
		return n.inner.OrderConfirmation(ctx, order)
	})
}

// OrderStatusUpdate sends through the breaker, retrying transient failures.
func (n *ResilientNotifier) OrderStatusUpdate(ctx context.Context, order domain.Order, previous domain.Status) error {
	return n.execute(ctx, func(ctx context.Context) error {
		return n.inner.OrderStatusUpdate(ctx, order, previous)
	})
}

func (n *ResilientNotifier) execute(ctx context.Context, send func(ctx context.Context) error) error {
	_, err := n.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return n.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, send(ctx)
		})
	})
	return err
}

// isRetryableSendError treats network failures and throttling or server-side
// webhook statuses as transient. Client errors are not retried.
func isRetryableSendError(err error) bool {
	if err == nil {
		return false
	}

	var se *statusError
	if !errors.As(err, &se) {
		// No status means the request never completed.
		return true
	}

	switch se.code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
