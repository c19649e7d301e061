package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/mitchforest/dayli/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrBlockNotFound = errors.New("schedule block not found")
	ErrBlockOverlap  = errors.New("schedule block overlaps an existing block")
)

// BlockType represents the kind of activity a schedule block holds.
type BlockType string

const (
	BlockTypeWork    BlockType = "work"
	BlockTypeMeeting BlockType = "meeting"
	BlockTypeEmail   BlockType = "email"
	BlockTypeBreak   BlockType = "break"
	BlockTypeBlocked BlockType = "blocked"
)

// IsValid reports whether the block type is one of the known kinds.
func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeWork, BlockTypeMeeting, BlockTypeEmail, BlockTypeBreak, BlockTypeBlocked:
		return true
	default:
		return false
	}
}

// ScheduleBlock is a persisted block of time on a user's daily schedule.
// The engine reads blocks and proposes mutations through the BlockStore;
// the store owns the lifecycle.
type ScheduleBlock struct {
	sharedDomain.BaseEntity
	userID          uuid.UUID
	blockType       BlockType
	title           string
	date            time.Time
	startTime       time.Time
	endTime         time.Time
	description     string
	assignedTaskIDs []uuid.UUID
	fixed           bool
}

// NewScheduleBlock creates a schedule block for a date.
func NewScheduleBlock(
	userID uuid.UUID,
	blockType BlockType,
	title string,
	date time.Time,
	startTime, endTime time.Time,
) (*ScheduleBlock, error) {
	if !endTime.After(startTime) {
		return nil, ErrInvalidTimeRange
	}

	return &ScheduleBlock{
		BaseEntity:      sharedDomain.NewBaseEntity(),
		userID:          userID,
		blockType:       blockType,
		title:           title,
		date:            normalizeDate(date),
		startTime:       startTime,
		endTime:         endTime,
		assignedTaskIDs: make([]uuid.UUID, 0),
	}, nil
}

func (b *ScheduleBlock) UserID() uuid.UUID    { return b.userID }
func (b *ScheduleBlock) BlockType() BlockType { return b.blockType }
func (b *ScheduleBlock) Title() string        { return b.title }
func (b *ScheduleBlock) Date() time.Time      { return b.date }
func (b *ScheduleBlock) StartTime() time.Time { return b.startTime }
func (b *ScheduleBlock) EndTime() time.Time   { return b.endTime }
func (b *ScheduleBlock) Description() string  { return b.description }
func (b *ScheduleBlock) IsFixed() bool        { return b.fixed }

// AssignedTaskIDs returns the tasks attached to this block.
func (b *ScheduleBlock) AssignedTaskIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.assignedTaskIDs))
	copy(ids, b.assignedTaskIDs)
	return ids
}

// Duration returns the block duration.
func (b *ScheduleBlock) Duration() time.Duration {
	return b.endTime.Sub(b.startTime)
}

// Interval returns the block's time interval.
func (b *ScheduleBlock) Interval() TimeInterval {
	return TimeInterval{Start: b.startTime, End: b.endTime}
}

// OverlapsWith checks if this block overlaps another in time.
func (b *ScheduleBlock) OverlapsWith(other *ScheduleBlock) bool {
	return b.startTime.Before(other.endTime) && b.endTime.After(other.startTime)
}

// BusyItem converts the block into an engine busy item.
func (b *ScheduleBlock) BusyItem() BusyItem {
	return NewBusyItem(b.ID().String(), SourceScheduleBlock, b.title, b.Interval())
}

// SetDescription updates the block description.
func (b *ScheduleBlock) SetDescription(description string) {
	b.description = description
	b.Touch()
}

// MarkFixed pins the block so rebalancing never proposes moving it.
func (b *ScheduleBlock) MarkFixed() {
	b.fixed = true
	b.Touch()
}

// AssignTask attaches a task to the block; duplicates are ignored.
func (b *ScheduleBlock) AssignTask(taskID uuid.UUID) {
	for _, existing := range b.assignedTaskIDs {
		if existing == taskID {
			return
		}
	}
	b.assignedTaskIDs = append(b.assignedTaskIDs, taskID)
	b.Touch()
}

// Reschedule moves the block to a new time, possibly on a new date.
func (b *ScheduleBlock) Reschedule(date time.Time, newStart, newEnd time.Time) error {
	if !newEnd.After(newStart) {
		return ErrInvalidTimeRange
	}
	b.date = normalizeDate(date)
	b.startTime = newStart
	b.endTime = newEnd
	b.Touch()
	return nil
}

// RehydrateScheduleBlock recreates a block from persisted state.
func RehydrateScheduleBlock(
	id uuid.UUID,
	userID uuid.UUID,
	blockType BlockType,
	title string,
	date time.Time,
	startTime, endTime time.Time,
	description string,
	assignedTaskIDs []uuid.UUID,
	fixed bool,
	createdAt, updatedAt time.Time,
) *ScheduleBlock {
	if assignedTaskIDs == nil {
		assignedTaskIDs = make([]uuid.UUID, 0)
	}
	return &ScheduleBlock{
		BaseEntity:      sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:          userID,
		blockType:       blockType,
		title:           title,
		date:            normalizeDate(date),
		startTime:       startTime,
		endTime:         endTime,
		description:     description,
		assignedTaskIDs: assignedTaskIDs,
		fixed:           fixed,
	}
}

func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
