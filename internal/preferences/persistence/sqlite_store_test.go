package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mitchforest/dayli/internal/preferences"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	prefs := &preferences.Preferences{
		UserID:               userID,
		WorkStart:            "08:30",
		WorkEnd:              "16:30",
		LunchStart:           "11:30",
		LunchDurationMinutes: 45,
		BreakSchedule: []preferences.BreakWindow{
			{Title: "Walk", Start: "15:00", DurationMinutes: 15},
		},
	}
	require.NoError(t, store.Save(ctx, prefs))

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "08:30", got.WorkStart)
	assert.Equal(t, 45, got.LunchDurationMinutes)
	require.Len(t, got.BreakSchedule, 1)
	assert.Equal(t, "Walk", got.BreakSchedule[0].Title)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	first := preferences.Default(userID)
	require.NoError(t, store.Save(ctx, first))

	second := preferences.Default(userID)
	second.WorkStart = "10:00"
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.WorkStart)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, preferences.ErrNotFound))
}
