package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// In-memory block store for planner tests.
type mockBlockStore struct {
	blocks    map[uuid.UUID]*domain.ScheduleBlock
	createErr error
	fetchErr  error
}

func newMockBlockStore() *mockBlockStore {
	return &mockBlockStore{blocks: make(map[uuid.UUID]*domain.ScheduleBlock)}
}

func (m *mockBlockStore) GetBlocksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.ScheduleBlock, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	result := make([]*domain.ScheduleBlock, 0)
	for _, block := range m.blocks {
		if block.UserID() == userID && block.Date().Equal(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())) {
			result = append(result, block)
		}
	}
	return result, nil
}

func (m *mockBlockStore) GetBlock(ctx context.Context, id uuid.UUID) (*domain.ScheduleBlock, error) {
	block, ok := m.blocks[id]
	if !ok {
		return nil, domain.ErrBlockNotFound
	}
	return block, nil
}

func (m *mockBlockStore) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.blocks[block.ID()] = block
	return nil
}

func (m *mockBlockStore) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	if _, ok := m.blocks[block.ID()]; !ok {
		return domain.ErrBlockNotFound
	}
	m.blocks[block.ID()] = block
	return nil
}

func (m *mockBlockStore) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.blocks[id]; !ok {
		return domain.ErrBlockNotFound
	}
	delete(m.blocks, id)
	return nil
}

func planDate() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func proposedAt(title string, startHour, endHour int) ProposedBlock {
	date := planDate()
	return ProposedBlock{
		Type:  domain.BlockTypeWork,
		Title: title,
		Start: date.Add(time.Duration(startHour) * time.Hour),
		End:   date.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestBatchBlockPlanner_CommitsNonConflictingBlocks(t *testing.T) {
	store := newMockBlockStore()
	planner := NewBatchBlockPlanner(store)
	userID := uuid.New()

	result, err := planner.Plan(context.Background(), userID, planDate(), []ProposedBlock{
		proposedAt("Morning focus", 9, 11),
		proposedAt("Afternoon review", 14, 15),
	})

	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Rejected)
	assert.Len(t, store.blocks, 2)
}

func TestBatchBlockPlanner_RejectsConflictWithinBatch(t *testing.T) {
	store := newMockBlockStore()
	planner := NewBatchBlockPlanner(store)
	userID := uuid.New()

	result, err := planner.Plan(context.Background(), userID, planDate(), []ProposedBlock{
		proposedAt("First", 9, 11),
		proposedAt("Second", 10, 12),
		proposedAt("Third", 13, 14),
	})

	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "Second", result.Rejected[0].Proposed.Title)
	assert.Equal(t, "conflicts with another block in batch", result.Rejected[0].Reason)
	assert.Equal(t, "First", result.Rejected[0].ConflictingTitle)
}

func TestBatchBlockPlanner_RejectsConflictWithExisting(t *testing.T) {
	store := newMockBlockStore()
	userID := uuid.New()

	existing, err := domain.NewScheduleBlock(userID, domain.BlockTypeMeeting, "Standup",
		planDate(), planDate().Add(9*time.Hour), planDate().Add(10*time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.CreateBlock(context.Background(), existing))

	planner := NewBatchBlockPlanner(store)

	result, err := planner.Plan(context.Background(), userID, planDate(), []ProposedBlock{
		proposedAt("Clashing", 9, 11),
	})

	require.NoError(t, err)
	assert.Empty(t, result.Created)
	require.Len(t, result.Rejected, 1)
	assert.Contains(t, result.Rejected[0].Reason, "Standup")
	assert.Equal(t, existing.ID().String(), result.Rejected[0].ConflictingID)
}

func TestBatchBlockPlanner_RejectsInvertedRange(t *testing.T) {
	store := newMockBlockStore()
	planner := NewBatchBlockPlanner(store)

	result, err := planner.Plan(context.Background(), uuid.New(), planDate(), []ProposedBlock{
		proposedAt("Backwards", 11, 9),
	})

	require.NoError(t, err)
	assert.Empty(t, result.Created)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "end time must be after start time", result.Rejected[0].Reason)
}

func TestBatchBlockPlanner_StoreFailureRejectsThatBlockOnly(t *testing.T) {
	store := newMockBlockStore()
	planner := NewBatchBlockPlanner(store)

	// First create fails, then the store recovers.
	store.createErr = errors.New("disk full")

	result, err := planner.Plan(context.Background(), uuid.New(), planDate(), []ProposedBlock{
		proposedAt("Unlucky", 9, 10),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	require.Len(t, result.Rejected, 1)
	assert.Contains(t, result.Rejected[0].Reason, "disk full")

	store.createErr = nil
	result, err = planner.Plan(context.Background(), uuid.New(), planDate(), []ProposedBlock{
		proposedAt("Lucky", 9, 10),
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
}

func TestBatchBlockPlanner_FetchFailureAbortsBatch(t *testing.T) {
	store := newMockBlockStore()
	store.fetchErr = errors.New("connection refused")
	planner := NewBatchBlockPlanner(store)

	_, err := planner.Plan(context.Background(), uuid.New(), planDate(), []ProposedBlock{
		proposedAt("Any", 9, 10),
	})

	assert.Error(t, err)
}

func TestBatchBlockPlanner_BackToBackBlocksBothCommit(t *testing.T) {
	store := newMockBlockStore()
	planner := NewBatchBlockPlanner(store)

	result, err := planner.Plan(context.Background(), uuid.New(), planDate(), []ProposedBlock{
		proposedAt("First", 9, 10),
		proposedAt("Second", 10, 11),
	})

	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Rejected)
}
