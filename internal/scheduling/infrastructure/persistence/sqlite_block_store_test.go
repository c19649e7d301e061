package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

func newTestStore(t *testing.T) *SQLiteBlockStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteBlockStore(db)
	require.NoError(t, err)
	return store
}

var storeDate = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func storeClock(hour, min int) time.Time {
	return time.Date(2026, time.January, 15, hour, min, 0, 0, time.UTC)
}

func newBlock(t *testing.T, userID uuid.UUID, title string, startHour, endHour int) *domain.ScheduleBlock {
	t.Helper()
	block, err := domain.NewScheduleBlock(
		userID, domain.BlockTypeWork, title, storeDate,
		storeClock(startHour, 0), storeClock(endHour, 0),
	)
	require.NoError(t, err)
	return block
}

func TestSQLiteBlockStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	block := newBlock(t, userID, "Deep work", 9, 11)
	block.AssignTask(uuid.New())
	require.NoError(t, store.CreateBlock(ctx, block))

	got, err := store.GetBlock(ctx, block.ID())
	require.NoError(t, err)
	assert.Equal(t, block.ID(), got.ID())
	assert.Equal(t, userID, got.UserID())
	assert.Equal(t, domain.BlockTypeWork, got.BlockType())
	assert.Equal(t, "Deep work", got.Title())
	assert.True(t, got.StartTime().Equal(storeClock(9, 0)))
	assert.True(t, got.EndTime().Equal(storeClock(11, 0)))
	assert.Len(t, got.AssignedTaskIDs(), 1)
}

func TestSQLiteBlockStore_RejectsOverlap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.CreateBlock(ctx, newBlock(t, userID, "First", 9, 11)))

	err := store.CreateBlock(ctx, newBlock(t, userID, "Second", 10, 12))
	assert.True(t, errors.Is(err, domain.ErrStoreConflict))

	// Back-to-back blocks are not overlaps.
	assert.NoError(t, store.CreateBlock(ctx, newBlock(t, userID, "Third", 11, 12)))

	// Another user's day is independent.
	assert.NoError(t, store.CreateBlock(ctx, newBlock(t, uuid.New(), "Other", 10, 12)))
}

func TestSQLiteBlockStore_GetBlocksForDateSorted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.CreateBlock(ctx, newBlock(t, userID, "Afternoon", 14, 15)))
	require.NoError(t, store.CreateBlock(ctx, newBlock(t, userID, "Morning", 9, 10)))

	blocks, err := store.GetBlocksForDate(ctx, userID, storeDate)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Morning", blocks[0].Title())
	assert.Equal(t, "Afternoon", blocks[1].Title())

	other, err := store.GetBlocksForDate(ctx, userID, storeDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSQLiteBlockStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	block := newBlock(t, userID, "Deep work", 9, 10)
	require.NoError(t, store.CreateBlock(ctx, block))

	require.NoError(t, block.Reschedule(storeDate, storeClock(14, 0), storeClock(15, 0)))
	block.MarkFixed()
	require.NoError(t, store.UpdateBlock(ctx, block))

	got, err := store.GetBlock(ctx, block.ID())
	require.NoError(t, err)
	assert.True(t, got.StartTime().Equal(storeClock(14, 0)))
	assert.True(t, got.IsFixed())
}

func TestSQLiteBlockStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	block := newBlock(t, uuid.New(), "Deep work", 9, 10)
	require.NoError(t, store.CreateBlock(ctx, block))
	require.NoError(t, store.DeleteBlock(ctx, block.ID()))

	_, err := store.GetBlock(ctx, block.ID())
	assert.True(t, errors.Is(err, domain.ErrBlockNotFound))
}

func TestSQLiteBlockStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetBlock(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrBlockNotFound))

	assert.True(t, errors.Is(store.DeleteBlock(ctx, uuid.New()), domain.ErrBlockNotFound))

	orphan := newBlock(t, uuid.New(), "Orphan", 9, 10)
	assert.True(t, errors.Is(store.UpdateBlock(ctx, orphan), domain.ErrBlockNotFound))
}
