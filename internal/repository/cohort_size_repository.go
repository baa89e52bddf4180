package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-results-api/internal/models"
)

// CohortSizeRepository persists the cached number of results per cohort.
type CohortSizeRepository struct {
	db *sqlx.DB
}

// NewCohortSizeRepository constructs a CohortSizeRepository.
func NewCohortSizeRepository(db *sqlx.DB) *CohortSizeRepository {
	return &CohortSizeRepository{db: db}
}

func (r *CohortSizeRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Refresh recounts the results of a cohort, upserting the tracking row.
func (r *CohortSizeRepository) Refresh(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error) {
	const query = `INSERT INTO class_cohort_sizes (class_name, term, academic_year, total_students, updated_at)
        SELECT $1::text, $2::text, $3::text, COUNT(*), $4 FROM results WHERE class_name = $1 AND term = $2 AND academic_year = $3
        ON CONFLICT (class_name, term, academic_year)
        DO UPDATE SET total_students = EXCLUDED.total_students, updated_at = EXCLUDED.updated_at
        RETURNING total_students`
	var total int
	if err := sqlx.GetContext(ctx, r.exec(exec), &total, query, cohort.ClassName, cohort.Term, cohort.AcademicYear, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("refresh cohort size: %w", err)
	}
	return total, nil
}

// Get returns the tracked size. It returns sql.ErrNoRows when the cohort was never counted.
func (r *CohortSizeRepository) Get(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error) {
	const query = `SELECT total_students FROM class_cohort_sizes WHERE class_name = $1 AND term = $2 AND academic_year = $3`
	var total int
	if err := sqlx.GetContext(ctx, r.exec(exec), &total, query, cohort.ClassName, cohort.Term, cohort.AcademicYear); err != nil {
		return 0, err
	}
	return total, nil
}
