// Package persistence implements the schedule block store on SQLite and
// PostgreSQL.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// SQLiteBlockStore implements domain.BlockStore using SQLite.
type SQLiteBlockStore struct {
	db *sql.DB
}

// NewSQLiteBlockStore creates the store and ensures the schema exists.
func NewSQLiteBlockStore(db *sql.DB) (*SQLiteBlockStore, error) {
	store := &SQLiteBlockStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteBlockStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schedule_blocks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			block_type TEXT NOT NULL,
			title TEXT NOT NULL,
			block_date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			assigned_task_ids TEXT NOT NULL DEFAULT '[]',
			fixed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_schedule_blocks_user_date
			ON schedule_blocks (user_id, block_date);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate schedule_blocks: %w", err)
	}
	return nil
}

// GetBlocksForDate returns the user's blocks for a date, sorted by start time.
func (s *SQLiteBlockStore) GetBlocksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.ScheduleBlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, block_type, title, block_date, start_time, end_time,
			description, assigned_task_ids, fixed, created_at, updated_at
		FROM schedule_blocks
		WHERE user_id = ? AND block_date = ?
		ORDER BY start_time
	`, userID.String(), date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer rows.Close()

	blocks := make([]*domain.ScheduleBlock, 0)
	for rows.Next() {
		block, err := scanBlock(rows.Scan)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// GetBlock returns a block by ID, or domain.ErrBlockNotFound.
func (s *SQLiteBlockStore) GetBlock(ctx context.Context, id uuid.UUID) (*domain.ScheduleBlock, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, block_type, title, block_date, start_time, end_time,
			description, assigned_task_ids, fixed, created_at, updated_at
		FROM schedule_blocks
		WHERE id = ?
	`, id.String())

	block, err := scanBlock(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBlockNotFound
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// CreateBlock persists a new block, refusing overlaps with existing blocks
// on the same date.
func (s *SQLiteBlockStore) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var overlapping int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM schedule_blocks
		WHERE user_id = ? AND block_date = ?
			AND start_time < ? AND ? < end_time
	`,
		block.UserID().String(),
		block.Date().Format("2006-01-02"),
		block.EndTime().Format(time.RFC3339),
		block.StartTime().Format(time.RFC3339),
	).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if overlapping > 0 {
		return domain.ErrStoreConflict
	}

	taskIDs, err := encodeTaskIDs(block.AssignedTaskIDs())
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedule_blocks (
			id, user_id, block_type, title, block_date, start_time, end_time,
			description, assigned_task_ids, fixed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		block.ID().String(),
		block.UserID().String(),
		string(block.BlockType()),
		block.Title(),
		block.Date().Format("2006-01-02"),
		block.StartTime().Format(time.RFC3339),
		block.EndTime().Format(time.RFC3339),
		block.Description(),
		taskIDs,
		boolToInt64(block.IsFixed()),
		block.CreatedAt().Format(time.RFC3339),
		block.UpdatedAt().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert block: %w", err)
	}

	return tx.Commit()
}

// UpdateBlock persists changes to an existing block.
func (s *SQLiteBlockStore) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	taskIDs, err := encodeTaskIDs(block.AssignedTaskIDs())
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedule_blocks SET
			block_type = ?, title = ?, block_date = ?, start_time = ?, end_time = ?,
			description = ?, assigned_task_ids = ?, fixed = ?, updated_at = ?
		WHERE id = ?
	`,
		string(block.BlockType()),
		block.Title(),
		block.Date().Format("2006-01-02"),
		block.StartTime().Format(time.RFC3339),
		block.EndTime().Format(time.RFC3339),
		block.Description(),
		taskIDs,
		boolToInt64(block.IsFixed()),
		block.UpdatedAt().Format(time.RFC3339),
		block.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrBlockNotFound
	}
	return nil
}

// DeleteBlock removes a block by ID.
func (s *SQLiteBlockStore) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedule_blocks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrBlockNotFound
	}
	return nil
}

// scanBlock rehydrates a domain block from a row scanner.
func scanBlock(scan func(dest ...any) error) (*domain.ScheduleBlock, error) {
	var (
		idStr, userIDStr, blockType, title, dateStr           string
		startStr, endStr, description, taskIDsJSON            string
		fixed                                                 int64
		createdStr, updatedStr                                string
	)
	if err := scan(&idStr, &userIDStr, &blockType, &title, &dateStr,
		&startStr, &endStr, &description, &taskIDsJSON, &fixed,
		&createdStr, &updatedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid block id %q: %w", idStr, err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userIDStr, err)
	}

	date, _ := time.Parse("2006-01-02", dateStr)
	startTime, _ := time.Parse(time.RFC3339, startStr)
	endTime, _ := time.Parse(time.RFC3339, endStr)
	createdAt, _ := time.Parse(time.RFC3339, createdStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)

	taskIDs, err := decodeTaskIDs(taskIDsJSON)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateScheduleBlock(
		id,
		userID,
		domain.BlockType(blockType),
		title,
		date,
		startTime,
		endTime,
		description,
		taskIDs,
		fixed != 0,
		createdAt,
		updatedAt,
	), nil
}

func encodeTaskIDs(ids []uuid.UUID) (string, error) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode task ids: %w", err)
	}
	return string(raw), nil
}

func decodeTaskIDs(raw string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode task ids: %w", err)
	}
	return ids, nil
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
