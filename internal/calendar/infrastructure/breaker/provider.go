// Package breaker decorates a calendar provider with a circuit breaker so
// a flapping CalDAV backend fails fast instead of stalling every request.
package breaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/mitchforest/dayli/internal/calendar/domain"
)

// Config configures the circuit breaker behavior.
type Config struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive failure count that trips the breaker.
	FailureThreshold uint32
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Provider wraps a calendar provider, routing every call through a shared
// circuit breaker. An open circuit surfaces as ErrProviderUnavailable.
type Provider struct {
	inner   domain.Provider
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

func NewProvider(inner domain.Provider, config Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "calendar-provider",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			// Domain misses are not backend failures.
			return err == nil || errors.Is(err, domain.ErrEventNotFound)
		},
	}

	return &Provider{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

func (p *Provider) ListEvents(ctx context.Context, userID uuid.UUID, window domain.Window) ([]domain.Event, error) {
	result, err := p.execute(func() (any, error) {
		return p.inner.ListEvents(ctx, userID, window)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Event), nil
}

func (p *Provider) GetEvent(ctx context.Context, userID uuid.UUID, id string) (*domain.Event, error) {
	result, err := p.execute(func() (any, error) {
		return p.inner.GetEvent(ctx, userID, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Event), nil
}

func (p *Provider) CreateEvent(ctx context.Context, userID uuid.UUID, spec domain.EventSpec) (*domain.Event, error) {
	result, err := p.execute(func() (any, error) {
		return p.inner.CreateEvent(ctx, userID, spec)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Event), nil
}

func (p *Provider) UpdateEvent(ctx context.Context, userID uuid.UUID, id string, spec domain.EventSpec) (*domain.Event, error) {
	result, err := p.execute(func() (any, error) {
		return p.inner.UpdateEvent(ctx, userID, id, spec)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Event), nil
}

func (p *Provider) CheckConflicts(ctx context.Context, userID uuid.UUID, window domain.Window, excludeID string) ([]domain.Event, error) {
	result, err := p.execute(func() (any, error) {
		return p.inner.CheckConflicts(ctx, userID, window, excludeID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Event), nil
}

func (p *Provider) execute(fn func() (any, error)) (any, error) {
	result, err := p.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, domain.ErrProviderUnavailable
	}
	return result, err
}
