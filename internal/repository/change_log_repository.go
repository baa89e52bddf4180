package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-results-api/internal/models"
)

// ChangeLogRepository appends and reads result change entries. It exposes no update or delete.
type ChangeLogRepository struct {
	db *sqlx.DB
}

// NewChangeLogRepository constructs a ChangeLogRepository.
func NewChangeLogRepository(db *sqlx.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

func (r *ChangeLogRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create appends an entry.
func (r *ChangeLogRepository) Create(ctx context.Context, exec sqlx.ExtContext, entry *models.ResultChangeLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	const query = `INSERT INTO result_change_logs (id, result_id, changed_by, field_name, previous_value, new_value, changed_at)
        VALUES (:id, :result_id, :changed_by, :field_name, :previous_value, :new_value, :changed_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, entry); err != nil {
		return fmt.Errorf("create result change log: %w", err)
	}
	return nil
}

// ListByResult returns entries for a result, newest first.
func (r *ChangeLogRepository) ListByResult(ctx context.Context, resultID string) ([]models.ResultChangeLog, error) {
	const query = `SELECT id, result_id, changed_by, field_name, previous_value, new_value, changed_at
        FROM result_change_logs WHERE result_id = $1 ORDER BY changed_at DESC, id DESC`
	var entries []models.ResultChangeLog
	if err := r.db.SelectContext(ctx, &entries, query, resultID); err != nil {
		return nil, fmt.Errorf("list result change logs: %w", err)
	}
	return entries, nil
}
