package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// PostgresBlockStore implements domain.BlockStore using PostgreSQL.
type PostgresBlockStore struct {
	db *sql.DB
}

// NewPostgresBlockStore creates the store and ensures the schema exists.
func NewPostgresBlockStore(db *sql.DB) (*PostgresBlockStore, error) {
	store := &PostgresBlockStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresBlockStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schedule_blocks (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			block_type TEXT NOT NULL,
			title TEXT NOT NULL,
			block_date DATE NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			assigned_task_ids JSONB NOT NULL DEFAULT '[]',
			fixed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_schedule_blocks_user_date
			ON schedule_blocks (user_id, block_date);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate schedule_blocks: %w", err)
	}
	return nil
}

func (s *PostgresBlockStore) GetBlocksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.ScheduleBlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, block_type, title, block_date, start_time, end_time,
			description, assigned_task_ids::text, fixed, created_at, updated_at
		FROM schedule_blocks
		WHERE user_id = $1 AND block_date = $2
		ORDER BY start_time
	`, userID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer rows.Close()

	blocks := make([]*domain.ScheduleBlock, 0)
	for rows.Next() {
		block, err := scanPostgresBlock(rows.Scan)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

func (s *PostgresBlockStore) GetBlock(ctx context.Context, id uuid.UUID) (*domain.ScheduleBlock, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, block_type, title, block_date, start_time, end_time,
			description, assigned_task_ids::text, fixed, created_at, updated_at
		FROM schedule_blocks
		WHERE id = $1
	`, id)

	block, err := scanPostgresBlock(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBlockNotFound
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (s *PostgresBlockStore) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var overlapping int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM schedule_blocks
		WHERE user_id = $1 AND block_date = $2
			AND start_time < $3 AND $4 < end_time
	`,
		block.UserID(),
		block.Date().Format("2006-01-02"),
		block.EndTime(),
		block.StartTime(),
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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		block.ID(),
		block.UserID(),
		string(block.BlockType()),
		block.Title(),
		block.Date().Format("2006-01-02"),
		block.StartTime(),
		block.EndTime(),
		block.Description(),
		taskIDs,
		block.IsFixed(),
		block.CreatedAt(),
		block.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert block: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresBlockStore) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	taskIDs, err := encodeTaskIDs(block.AssignedTaskIDs())
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedule_blocks SET
			block_type = $1, title = $2, block_date = $3, start_time = $4,
			end_time = $5, description = $6, assigned_task_ids = $7,
			fixed = $8, updated_at = $9
		WHERE id = $10
	`,
		string(block.BlockType()),
		block.Title(),
		block.Date().Format("2006-01-02"),
		block.StartTime(),
		block.EndTime(),
		block.Description(),
		taskIDs,
		block.IsFixed(),
		block.UpdatedAt(),
		block.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrBlockNotFound
	}
	return nil
}

func (s *PostgresBlockStore) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedule_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrBlockNotFound
	}
	return nil
}

// scanPostgresBlock rehydrates a domain block from a row scanner.
func scanPostgresBlock(scan func(dest ...any) error) (*domain.ScheduleBlock, error) {
	var (
		id, userID                      uuid.UUID
		blockType, title                string
		date, startTime, endTime        time.Time
		description, taskIDsJSON        string
		fixed                           bool
		createdAt, updatedAt            time.Time
	)
	if err := scan(&id, &userID, &blockType, &title, &date,
		&startTime, &endTime, &description, &taskIDsJSON, &fixed,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

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
		fixed,
		createdAt,
		updatedAt,
	), nil
}
