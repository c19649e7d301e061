package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/preferences"
)

// PostgresStore persists preferences as a JSONB document per user.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id UUID PRIMARY KEY,
			document JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate user_preferences: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, preferences.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var prefs preferences.Preferences
	if err := json.Unmarshal(document, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	prefs.UserID = userID
	return &prefs, nil
}

func (s *PostgresStore) Save(ctx context.Context, prefs *preferences.Preferences) error {
	document, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = now()
	`, prefs.UserID, document)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
