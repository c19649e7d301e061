package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

func seedBlock(t *testing.T, store *memoryBlockStore, userID uuid.UUID, title string, startHour, endHour int) *domain.ScheduleBlock {
	t.Helper()
	block, err := domain.NewScheduleBlock(
		userID, domain.BlockTypeWork, title, cmdDate,
		cmdClock(startHour, 0), cmdClock(endHour, 0),
	)
	require.NoError(t, err)
	require.NoError(t, store.CreateBlock(context.Background(), block))
	return block
}

func TestRescheduleBlockHandler_MovesBlock(t *testing.T) {
	store := newMemoryBlockStore()
	publisher := &capturingPublisher{}
	handler := NewRescheduleBlockHandler(store, publisher, nil)
	userID := uuid.New()
	block := seedBlock(t, store, userID, "Deep work", 9, 10)

	moved, err := handler.Handle(context.Background(), RescheduleBlockCommand{
		UserID:   userID,
		BlockID:  block.ID(),
		Date:     cmdDate,
		NewStart: cmdClock(14, 0),
		NewEnd:   cmdClock(15, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, cmdClock(14, 0), moved.StartTime())
	assert.Equal(t, cmdClock(15, 0), moved.EndTime())
	assert.Equal(t, []string{domain.RoutingKeyBlockRescheduled}, publisher.routingKeys)

	stored, err := store.GetBlock(context.Background(), block.ID())
	require.NoError(t, err)
	assert.Equal(t, cmdClock(14, 0), stored.StartTime())
}

func TestRescheduleBlockHandler_FixedBlock(t *testing.T) {
	store := newMemoryBlockStore()
	handler := NewRescheduleBlockHandler(store, nil, nil)
	userID := uuid.New()
	block := seedBlock(t, store, userID, "Standup", 9, 10)
	block.MarkFixed()

	_, err := handler.Handle(context.Background(), RescheduleBlockCommand{
		UserID:   userID,
		BlockID:  block.ID(),
		Date:     cmdDate,
		NewStart: cmdClock(14, 0),
		NewEnd:   cmdClock(15, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlockFixed))
}

func TestRescheduleBlockHandler_TargetOverlapsSibling(t *testing.T) {
	store := newMemoryBlockStore()
	handler := NewRescheduleBlockHandler(store, nil, nil)
	userID := uuid.New()
	block := seedBlock(t, store, userID, "Deep work", 9, 10)
	seedBlock(t, store, userID, "Planning", 14, 15)

	_, err := handler.Handle(context.Background(), RescheduleBlockCommand{
		UserID:   userID,
		BlockID:  block.ID(),
		Date:     cmdDate,
		NewStart: cmdClock(14, 30),
		NewEnd:   cmdClock(15, 30),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBlockOverlap))
}

func TestRescheduleBlockHandler_WrongOwner(t *testing.T) {
	store := newMemoryBlockStore()
	handler := NewRescheduleBlockHandler(store, nil, nil)
	block := seedBlock(t, store, uuid.New(), "Deep work", 9, 10)

	_, err := handler.Handle(context.Background(), RescheduleBlockCommand{
		UserID:   uuid.New(),
		BlockID:  block.ID(),
		Date:     cmdDate,
		NewStart: cmdClock(14, 0),
		NewEnd:   cmdClock(15, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBlockNotFound))
}

func TestRescheduleBlockHandler_UnknownBlock(t *testing.T) {
	handler := NewRescheduleBlockHandler(newMemoryBlockStore(), nil, nil)

	_, err := handler.Handle(context.Background(), RescheduleBlockCommand{
		UserID:   uuid.New(),
		BlockID:  uuid.New(),
		Date:     cmdDate,
		NewStart: cmdClock(14, 0),
		NewEnd:   cmdClock(15, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBlockNotFound))
}
