package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrStoreConflict is returned by stores that refuse to persist a block
	// overlapping an existing one.
	ErrStoreConflict = errors.New("block conflicts with a persisted block")
)

// BlockStore is the external schedule store collaborator. The engine only
// reads blocks and proposes mutations through it; isolation across
// concurrent callers is the store's concern, not the engine's.
type BlockStore interface {
	// GetBlocksForDate returns the user's blocks for a calendar date,
	// sorted by start time.
	GetBlocksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*ScheduleBlock, error)

	// GetBlock returns a block by ID, or ErrBlockNotFound.
	GetBlock(ctx context.Context, id uuid.UUID) (*ScheduleBlock, error)

	// CreateBlock persists a new block. Returns ErrStoreConflict when the
	// block overlaps a persisted block for the same user and date.
	CreateBlock(ctx context.Context, block *ScheduleBlock) error

	// UpdateBlock persists changes to an existing block.
	UpdateBlock(ctx context.Context, block *ScheduleBlock) error

	// DeleteBlock removes a block by ID.
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}
