package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
	"github.com/mitchforest/dayli/internal/shared/infrastructure/eventbus"
)

// ErrBlockFixed is returned when a fixed block is asked to move.
var ErrBlockFixed = errors.New("block is fixed and cannot be moved")

// RescheduleBlockCommand moves a block to a new time, typically to apply
// a balance suggestion.
type RescheduleBlockCommand struct {
	UserID   uuid.UUID
	BlockID  uuid.UUID
	Date     time.Time
	NewStart time.Time
	NewEnd   time.Time
}

// RescheduleBlockHandler handles the RescheduleBlockCommand.
type RescheduleBlockHandler struct {
	store     domain.BlockStore
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewRescheduleBlockHandler creates a new RescheduleBlockHandler.
func NewRescheduleBlockHandler(store domain.BlockStore, publisher eventbus.Publisher, logger *slog.Logger) *RescheduleBlockHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RescheduleBlockHandler{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle moves the block and emits a BlockRescheduled event. The target
// window must not collide with the user's other blocks on that date.
func (h *RescheduleBlockHandler) Handle(ctx context.Context, cmd RescheduleBlockCommand) (*domain.ScheduleBlock, error) {
	block, err := h.store.GetBlock(ctx, cmd.BlockID)
	if err != nil {
		return nil, fmt.Errorf("reschedule block: %w", err)
	}
	if block.UserID() != cmd.UserID {
		return nil, fmt.Errorf("reschedule block: %w", domain.ErrBlockNotFound)
	}
	if block.IsFixed() {
		return nil, fmt.Errorf("reschedule block: %w", ErrBlockFixed)
	}

	existing, err := h.store.GetBlocksForDate(ctx, cmd.UserID, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("reschedule block: %w", err)
	}
	target := domain.TimeInterval{Start: cmd.NewStart, End: cmd.NewEnd}
	for _, other := range existing {
		if other.ID() == block.ID() {
			continue
		}
		if other.Interval().Overlaps(target) {
			return nil, fmt.Errorf("reschedule block: %w", domain.ErrBlockOverlap)
		}
	}

	oldStart, oldEnd := block.StartTime(), block.EndTime()
	if err := block.Reschedule(cmd.Date, cmd.NewStart, cmd.NewEnd); err != nil {
		return nil, fmt.Errorf("reschedule block: %w", err)
	}
	if err := h.store.UpdateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("reschedule block: %w", err)
	}

	event := domain.NewBlockRescheduled(block.ID(), oldStart, oldEnd, cmd.NewStart, cmd.NewEnd)
	event.SetUserID(cmd.UserID)
	publishEvent(ctx, h.publisher, h.logger, &event, event)

	h.logger.Info("block rescheduled",
		"user_id", cmd.UserID,
		"block_id", block.ID(),
		"new_start", cmd.NewStart,
		"new_end", cmd.NewEnd,
	)
	return block, nil
}
