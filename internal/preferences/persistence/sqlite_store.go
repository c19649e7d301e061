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

// SQLiteStore persists preferences as a JSON document per user.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate user_preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM user_preferences WHERE user_id = ?`,
		userID.String(),
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, preferences.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var prefs preferences.Preferences
	if err := json.Unmarshal([]byte(document), &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	prefs.UserID = userID
	return &prefs, nil
}

func (s *SQLiteStore) Save(ctx context.Context, prefs *preferences.Preferences) error {
	document, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, document, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (user_id) DO UPDATE SET
			document = excluded.document,
			updated_at = datetime('now')
	`, prefs.UserID.String(), string(document))
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
