// Package cache decorates a calendar provider with a Redis read cache for
// event windows. Writes invalidate the user's cached windows.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mitchforest/dayli/internal/calendar/domain"
)

const DefaultTTL = 5 * time.Minute

// CachingProvider wraps a Provider and caches ListEvents results.
// Cache failures degrade to the underlying provider, never to an error.
type CachingProvider struct {
	inner  domain.Provider
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachingProvider(inner domain.Provider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachingProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingProvider{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachingProvider) ListEvents(ctx context.Context, userID uuid.UUID, window domain.Window) ([]domain.Event, error) {
	key := c.windowKey(userID, window)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var events []domain.Event
		if err := json.Unmarshal(payload, &events); err == nil {
			return events, nil
		}
		// Corrupt entry, drop it and refetch.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("calendar cache read failed", "error", err)
	}

	events, err := c.inner.ListEvents(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(events); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("calendar cache write failed", "error", err)
		}
	}
	return events, nil
}

func (c *CachingProvider) GetEvent(ctx context.Context, userID uuid.UUID, id string) (*domain.Event, error) {
	return c.inner.GetEvent(ctx, userID, id)
}

func (c *CachingProvider) CreateEvent(ctx context.Context, userID uuid.UUID, spec domain.EventSpec) (*domain.Event, error) {
	event, err := c.inner.CreateEvent(ctx, userID, spec)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, userID)
	return event, nil
}

func (c *CachingProvider) UpdateEvent(ctx context.Context, userID uuid.UUID, id string, spec domain.EventSpec) (*domain.Event, error) {
	event, err := c.inner.UpdateEvent(ctx, userID, id, spec)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, userID)
	return event, nil
}

func (c *CachingProvider) CheckConflicts(ctx context.Context, userID uuid.UUID, window domain.Window, excludeID string) ([]domain.Event, error) {
	// Conflict checks gate writes, always hit the backend.
	return c.inner.CheckConflicts(ctx, userID, window, excludeID)
}

func (c *CachingProvider) windowKey(userID uuid.UUID, window domain.Window) string {
	return fmt.Sprintf("calendar:%s:events:%d:%d", userID, window.Start.Unix(), window.End.Unix())
}

// invalidate drops every cached window for the user.
func (c *CachingProvider) invalidate(ctx context.Context, userID uuid.UUID) {
	pattern := fmt.Sprintf("calendar:%s:events:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("calendar cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("calendar cache scan failed", "error", err)
	}
}
