package commands

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// memoryBlockStore is an in-memory BlockStore for command tests.
type memoryBlockStore struct {
	blocks map[uuid.UUID]*domain.ScheduleBlock
}

func newMemoryBlockStore() *memoryBlockStore {
	return &memoryBlockStore{blocks: make(map[uuid.UUID]*domain.ScheduleBlock)}
}

func (m *memoryBlockStore) GetBlocksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.ScheduleBlock, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	result := make([]*domain.ScheduleBlock, 0)
	for _, block := range m.blocks {
		if block.UserID() == userID && block.Date().Equal(day) {
			result = append(result, block)
		}
	}
	return result, nil
}

func (m *memoryBlockStore) GetBlock(ctx context.Context, id uuid.UUID) (*domain.ScheduleBlock, error) {
	block, ok := m.blocks[id]
	if !ok {
		return nil, domain.ErrBlockNotFound
	}
	return block, nil
}

func (m *memoryBlockStore) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	m.blocks[block.ID()] = block
	return nil
}

func (m *memoryBlockStore) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	if _, ok := m.blocks[block.ID()]; !ok {
		return domain.ErrBlockNotFound
	}
	m.blocks[block.ID()] = block
	return nil
}

func (m *memoryBlockStore) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	delete(m.blocks, id)
	return nil
}

// capturingPublisher records every published message.
type capturingPublisher struct {
	routingKeys []string
	payloads    [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

var cmdDate = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func cmdClock(hour, min int) time.Time {
	return time.Date(2026, time.January, 15, hour, min, 0, 0, time.UTC)
}

func proposed(title string, startHour, startMin, endHour, endMin int) services.ProposedBlock {
	return services.ProposedBlock{
		Type:  domain.BlockTypeWork,
		Title: title,
		Start: cmdClock(startHour, startMin),
		End:   cmdClock(endHour, endMin),
	}
}

func TestPlanBlocksHandler_CommitsBatchAndPublishesEvents(t *testing.T) {
	store := newMemoryBlockStore()
	publisher := &capturingPublisher{}
	handler := NewPlanBlocksHandler(services.NewBatchBlockPlanner(store), publisher, nil)
	userID := uuid.New()

	result, err := handler.Handle(context.Background(), PlanBlocksCommand{
		UserID: userID,
		Date:   cmdDate,
		Blocks: []services.ProposedBlock{
			proposed("Deep work", 9, 0, 11, 0),
			proposed("Email pass", 11, 0, 11, 30),
		},
	})
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Rejected)
	assert.Len(t, store.blocks, 2)
	assert.Equal(t, []string{domain.RoutingKeyBlockPlanned, domain.RoutingKeyBlockPlanned}, publisher.routingKeys)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &envelope))
	assert.Equal(t, userID.String(), envelope["user_id"])
	assert.Equal(t, domain.RoutingKeyBlockPlanned, envelope["routing_key"])
}

func TestPlanBlocksHandler_RejectionsPublishRejectedEvents(t *testing.T) {
	store := newMemoryBlockStore()
	publisher := &capturingPublisher{}
	handler := NewPlanBlocksHandler(services.NewBatchBlockPlanner(store), publisher, nil)

	result, err := handler.Handle(context.Background(), PlanBlocksCommand{
		UserID: uuid.New(),
		Date:   cmdDate,
		Blocks: []services.ProposedBlock{
			proposed("First", 9, 0, 10, 0),
			proposed("Second", 9, 30, 10, 30),
		},
	})
	require.NoError(t, err)

	assert.Len(t, result.Created, 1)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "Second", result.Rejected[0].Proposed.Title)
	assert.Equal(t, []string{domain.RoutingKeyBlockPlanned, domain.RoutingKeyBlockRejected}, publisher.routingKeys)
}

func TestPlanBlocksHandler_EmptyBatch(t *testing.T) {
	store := newMemoryBlockStore()
	publisher := &capturingPublisher{}
	handler := NewPlanBlocksHandler(services.NewBatchBlockPlanner(store), publisher, nil)

	result, err := handler.Handle(context.Background(), PlanBlocksCommand{
		UserID: uuid.New(),
		Date:   cmdDate,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Rejected)
	assert.Empty(t, publisher.routingKeys)
}

func TestPlanBlocksHandler_NilPublisher(t *testing.T) {
	store := newMemoryBlockStore()
	handler := NewPlanBlocksHandler(services.NewBatchBlockPlanner(store), nil, nil)

	result, err := handler.Handle(context.Background(), PlanBlocksCommand{
		UserID: uuid.New(),
		Date:   cmdDate,
		Blocks: []services.ProposedBlock{proposed("Solo", 9, 0, 10, 0)},
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
}
