package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
	"github.com/mitchforest/dayli/internal/shared/infrastructure/eventbus"
)

// PlanBlocksCommand proposes a batch of blocks for one date.
type PlanBlocksCommand struct {
	UserID uuid.UUID
	Date   time.Time
	Blocks []services.ProposedBlock
}

// PlanBlocksHandler handles the PlanBlocksCommand.
//
// Batches for the same user are serialized with a per-user mutex so two
// concurrent requests cannot both validate against the same snapshot and
// then commit overlapping blocks.
type PlanBlocksHandler struct {
	planner   *services.BatchBlockPlanner
	publisher eventbus.Publisher
	logger    *slog.Logger
	userLocks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewPlanBlocksHandler creates a new PlanBlocksHandler.
func NewPlanBlocksHandler(planner *services.BatchBlockPlanner, publisher eventbus.Publisher, logger *slog.Logger) *PlanBlocksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanBlocksHandler{
		planner:   planner,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle runs the batch through the planner and emits one event per
// outcome: BlockPlanned for commits, BlockRejected for turn-aways.
func (h *PlanBlocksHandler) Handle(ctx context.Context, cmd PlanBlocksCommand) (*services.PlanResult, error) {
	if len(cmd.Blocks) == 0 {
		return &services.PlanResult{
			Created:  []*domain.ScheduleBlock{},
			Rejected: []services.RejectedBlock{},
		}, nil
	}

	lock := h.lockFor(cmd.UserID)
	lock.Lock()
	defer lock.Unlock()

	result, err := h.planner.Plan(ctx, cmd.UserID, cmd.Date, cmd.Blocks)
	if err != nil {
		return nil, fmt.Errorf("plan blocks: %w", err)
	}

	for _, block := range result.Created {
		event := domain.NewBlockPlanned(block)
		event.SetUserID(cmd.UserID)
		publishEvent(ctx, h.publisher, h.logger, &event, event)
	}
	for _, rejected := range result.Rejected {
		event := domain.NewBlockRejected(
			rejected.Proposed.Title,
			rejected.Reason,
			rejected.Proposed.Start,
			rejected.Proposed.End,
		)
		event.SetUserID(cmd.UserID)
		publishEvent(ctx, h.publisher, h.logger, &event, event)
	}

	h.logger.Info("block batch planned",
		"user_id", cmd.UserID,
		"date", cmd.Date.Format("2006-01-02"),
		"created", len(result.Created),
		"rejected", len(result.Rejected),
	)
	return result, nil
}

func (h *PlanBlocksHandler) lockFor(userID uuid.UUID) *sync.Mutex {
	lock, _ := h.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
