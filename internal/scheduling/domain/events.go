package domain

import (
	"time"

	sharedDomain "github.com/mitchforest/dayli/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "ScheduleBlock"

	RoutingKeyBlockPlanned     = "scheduling.block.planned"
	RoutingKeyBlockRejected    = "scheduling.block.rejected"
	RoutingKeyBlockRescheduled = "scheduling.block.rescheduled"
)

// BlockPlanned is emitted when the batch planner commits a block.
type BlockPlanned struct {
	sharedDomain.BaseEvent
	BlockID   uuid.UUID `json:"block_id"`
	BlockType string    `json:"block_type"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewBlockPlanned creates a BlockPlanned event.
func NewBlockPlanned(block *ScheduleBlock) BlockPlanned {
	return BlockPlanned{
		BaseEvent: sharedDomain.NewBaseEvent(block.ID(), AggregateType, RoutingKeyBlockPlanned),
		BlockID:   block.ID(),
		BlockType: string(block.BlockType()),
		Title:     block.Title(),
		Date:      block.Date(),
		StartTime: block.StartTime(),
		EndTime:   block.EndTime(),
	}
}

// BlockRejected is emitted when a proposed block is turned away by the
// batch planner.
type BlockRejected struct {
	sharedDomain.BaseEvent
	Title     string    `json:"title"`
	Reason    string    `json:"reason"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewBlockRejected creates a BlockRejected event.
func NewBlockRejected(title, reason string, start, end time.Time) BlockRejected {
	return BlockRejected{
		BaseEvent: sharedDomain.NewBaseEvent(uuid.New(), AggregateType, RoutingKeyBlockRejected),
		Title:     title,
		Reason:    reason,
		StartTime: start,
		EndTime:   end,
	}
}

// BlockRescheduled is emitted when a block is moved, typically while
// applying a balance suggestion.
type BlockRescheduled struct {
	sharedDomain.BaseEvent
	BlockID      uuid.UUID `json:"block_id"`
	OldStartTime time.Time `json:"old_start_time"`
	OldEndTime   time.Time `json:"old_end_time"`
	NewStartTime time.Time `json:"new_start_time"`
	NewEndTime   time.Time `json:"new_end_time"`
}

// NewBlockRescheduled creates a BlockRescheduled event.
func NewBlockRescheduled(blockID uuid.UUID, oldStart, oldEnd, newStart, newEnd time.Time) BlockRescheduled {
	return BlockRescheduled{
		BaseEvent:    sharedDomain.NewBaseEvent(blockID, AggregateType, RoutingKeyBlockRescheduled),
		BlockID:      blockID,
		OldStartTime: oldStart,
		OldEndTime:   oldEnd,
		NewStartTime: newStart,
		NewEndTime:   newEnd,
	}
}
