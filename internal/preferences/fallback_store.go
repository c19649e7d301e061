package preferences

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// FallbackStore wraps an inner Store and answers ErrNotFound with a
// caller-supplied template instead. The template's UserID is replaced
// with the requested one, so a single template serves every user.
type FallbackStore struct {
	inner    Store
	template Preferences
}

// NewFallbackStore creates a store that falls back to template defaults
// for users without saved preferences.
func NewFallbackStore(inner Store, template Preferences) *FallbackStore {
	return &FallbackStore{inner: inner, template: template}
}

// Get returns the user's saved preferences, or the template when none exist.
func (s *FallbackStore) Get(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	prefs, err := s.inner.Get(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	def := s.template
	def.UserID = userID
	return &def, nil
}

// Save persists through to the inner store.
func (s *FallbackStore) Save(ctx context.Context, prefs *Preferences) error {
	return s.inner.Save(ctx, prefs)
}
