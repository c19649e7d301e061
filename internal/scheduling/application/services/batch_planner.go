package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// ProposedBlock is one block of a batch plan request.
type ProposedBlock struct {
	Type        domain.BlockType
	Title       string
	Start       time.Time
	End         time.Time
	Description string
}

// RejectedBlock reports why a proposed block was not committed.
type RejectedBlock struct {
	Proposed         ProposedBlock `json:"proposed"`
	Reason           string        `json:"reason"`
	ConflictingID    string        `json:"conflicting_id,omitempty"`
	ConflictingTitle string        `json:"conflicting_title,omitempty"`
}

// PlanResult is the outcome of a batch plan: what was committed and what
// was turned away, item by item.
type PlanResult struct {
	Created  []*domain.ScheduleBlock `json:"created"`
	Rejected []RejectedBlock         `json:"rejected"`
}

// BatchBlockPlanner validates and sequentially commits proposed blocks
// against the existing schedule and the blocks already accepted in the
// same batch.
//
// This is best-effort, not a transaction: each accepted block is written
// immediately, a rejection never aborts the rest of the batch, and a
// store failure on one block is captured as that block's rejection.
type BatchBlockPlanner struct {
	store domain.BlockStore
}

// NewBatchBlockPlanner creates a planner over the given store.
func NewBatchBlockPlanner(store domain.BlockStore) *BatchBlockPlanner {
	return &BatchBlockPlanner{store: store}
}

// Plan evaluates the proposed blocks in input order. Blocks with inverted
// time ranges, overlaps with persisted blocks, or overlaps with blocks
// accepted earlier in this batch are rejected individually; everything
// else is committed through the store.
func (p *BatchBlockPlanner) Plan(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	proposed []ProposedBlock,
) (*PlanResult, error) {
	existing, err := p.store.GetBlocksForDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching existing blocks: %w", err)
	}

	result := &PlanResult{
		Created:  make([]*domain.ScheduleBlock, 0, len(proposed)),
		Rejected: make([]RejectedBlock, 0),
	}

	for _, prop := range proposed {
		if !prop.End.After(prop.Start) {
			result.Rejected = append(result.Rejected, RejectedBlock{
				Proposed: prop,
				Reason:   "end time must be after start time",
			})
			continue
		}
		interval := domain.TimeInterval{Start: prop.Start, End: prop.End}

		if clash := overlapping(interval, existing); clash != nil {
			result.Rejected = append(result.Rejected, RejectedBlock{
				Proposed:         prop,
				Reason:           fmt.Sprintf("conflicts with existing block %q", clash.Title()),
				ConflictingID:    clash.ID().String(),
				ConflictingTitle: clash.Title(),
			})
			continue
		}

		if clash := overlapping(interval, result.Created); clash != nil {
			result.Rejected = append(result.Rejected, RejectedBlock{
				Proposed:         prop,
				Reason:           "conflicts with another block in batch",
				ConflictingID:    clash.ID().String(),
				ConflictingTitle: clash.Title(),
			})
			continue
		}

		block, err := domain.NewScheduleBlock(userID, prop.Type, prop.Title, date, prop.Start, prop.End)
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedBlock{
				Proposed: prop,
				Reason:   err.Error(),
			})
			continue
		}
		if prop.Description != "" {
			block.SetDescription(prop.Description)
		}

		// A store-level failure rejects this block only; the rest of the
		// batch still runs.
		if err := p.store.CreateBlock(ctx, block); err != nil {
			result.Rejected = append(result.Rejected, RejectedBlock{
				Proposed: prop,
				Reason:   fmt.Sprintf("store rejected block: %v", err),
			})
			continue
		}

		result.Created = append(result.Created, block)
	}

	return result, nil
}

func overlapping(interval domain.TimeInterval, blocks []*domain.ScheduleBlock) *domain.ScheduleBlock {
	for _, block := range blocks {
		if interval.Overlaps(block.Interval()) {
			return block
		}
	}
	return nil
}
