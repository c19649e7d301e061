// Package commands holds the write-side handlers of the scheduling engine.
package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/mitchforest/dayli/internal/shared/domain"
	"github.com/mitchforest/dayli/internal/shared/infrastructure/eventbus"
)

// eventEnvelope is the wire shape of a published domain event.
type eventEnvelope struct {
	EventID       uuid.UUID `json:"event_id"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	RoutingKey    string    `json:"routing_key"`
	OccurredAt    time.Time `json:"occurred_at"`
	UserID        uuid.UUID `json:"user_id"`
	Payload       any       `json:"payload"`
}

// publishEvent serializes and publishes a domain event. Publish failures
// are logged, not surfaced: the state change has already been committed.
func publishEvent(ctx context.Context, publisher eventbus.Publisher, logger *slog.Logger, event sharedDomain.DomainEvent, payload any) {
	if publisher == nil {
		return
	}

	envelope := eventEnvelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		UserID:        event.UserID(),
		Payload:       payload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		logger.Error("failed to encode domain event",
			"routing_key", event.RoutingKey(),
			"error", err,
		)
		return
	}

	if err := publisher.Publish(ctx, event.RoutingKey(), body); err != nil {
		logger.Warn("failed to publish domain event",
			"routing_key", event.RoutingKey(),
			"error", err,
		)
	}
}
