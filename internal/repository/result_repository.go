package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-results-api/internal/models"
)

const resultColumns = `r.id, r.student_id, r.class_name, r.term, r.academic_year, r.status, r.scheduled_date, r.published_date,
        r.overall_position, r.days_present, r.days_absent, r.promoted_to, r.teacher_remarks, r.next_term_begins,
        r.report_card_path, r.created_by, r.created_at, r.updated_at,
        TRIM(COALESCE(u.first_name, '') || ' ' || COALESCE(u.last_name, '')) AS student_name, COALESCE(u.email, '') AS student_email`

const resultFrom = `FROM results r LEFT JOIN users u ON u.id = r.student_id`

// ResultRepository manages persistence for results.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns results matching the filter with the total count.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("r.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ClassName != "" {
		conditions = append(conditions, fmt.Sprintf("r.class_name = $%d", len(args)+1))
		args = append(args, filter.ClassName)
	}
	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("r.term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("r.academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.EnrolledOnly {
		conditions = append(conditions, "u.class_name = r.class_name")
	}
	if filter.ExcludeClass != "" {
		conditions = append(conditions, fmt.Sprintf("r.class_name <> $%d", len(args)+1))
		args = append(args, filter.ExcludeClass)
	}

	base := fmt.Sprintf("%s WHERE %s", resultFrom, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"created_at":       "r.created_at",
		"academic_year":    "r.academic_year",
		"class_name":       "r.class_name",
		"overall_position": "r.overall_position",
		"student_name":     "u.last_name",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "r.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, r.id LIMIT %d OFFSET %d", resultColumns, base, column, order, size, offset)
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}
	return results, total, nil
}

// FindByID loads a result.
func (r *ResultRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE r.id = $1", resultColumns, resultFrom)
	var result models.Result
	if err := sqlx.GetContext(ctx, r.exec(exec), &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindForUpdate loads a result and locks its row until the transaction ends.
func (r *ResultRepository) FindForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE r.id = $1 FOR UPDATE OF r", resultColumns, resultFrom)
	var result models.Result
	if err := sqlx.GetContext(ctx, r.exec(exec), &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByCohort returns every result of a cohort ordered by position.
func (r *ResultRepository) ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.Result, error) {
	query := fmt.Sprintf(`SELECT %s %s
        WHERE r.class_name = $1 AND r.term = $2 AND r.academic_year = $3
        ORDER BY r.overall_position ASC NULLS LAST, student_name ASC, r.id ASC`, resultColumns, resultFrom)
	var results []models.Result
	if err := sqlx.SelectContext(ctx, r.exec(exec), &results, query, cohort.ClassName, cohort.Term, cohort.AcademicYear); err != nil {
		return nil, fmt.Errorf("list cohort results: %w", err)
	}
	return results, nil
}

// LatestAcademicYear returns the most recent academic year with results for a class and term.
func (r *ResultRepository) LatestAcademicYear(ctx context.Context, className string, term models.Term) (string, error) {
	const query = `SELECT academic_year FROM results WHERE class_name = $1 AND term = $2 ORDER BY academic_year DESC LIMIT 1`
	var year string
	if err := r.db.GetContext(ctx, &year, query, className, term); err != nil {
		return "", err
	}
	return year, nil
}

// LockCohort serialises writers of one cohort for the rest of the transaction.
func (r *ResultRepository) LockCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) error {
	if _, err := r.exec(exec).ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, cohort.String()); err != nil {
		return fmt.Errorf("lock cohort %s: %w", cohort, err)
	}
	return nil
}

// Create inserts a result.
func (r *ResultRepository) Create(ctx context.Context, exec sqlx.ExtContext, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
	const query = `INSERT INTO results (id, student_id, class_name, term, academic_year, status, scheduled_date, published_date,
        overall_position, days_present, days_absent, promoted_to, teacher_remarks, next_term_begins, report_card_path,
        created_by, created_at, updated_at)
        VALUES (:id, :student_id, :class_name, :term, :academic_year, :status, :scheduled_date, :published_date,
        :overall_position, :days_present, :days_absent, :promoted_to, :teacher_remarks, :next_term_begins, :report_card_path,
        :created_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, result); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// Update writes every mutable column of a result.
func (r *ResultRepository) Update(ctx context.Context, exec sqlx.ExtContext, result *models.Result) error {
	result.UpdatedAt = time.Now().UTC()
	const query = `UPDATE results SET student_id = :student_id, class_name = :class_name, term = :term,
        academic_year = :academic_year, status = :status, scheduled_date = :scheduled_date, published_date = :published_date,
        days_present = :days_present, days_absent = :days_absent, promoted_to = :promoted_to,
        teacher_remarks = :teacher_remarks, next_term_begins = :next_term_begins, updated_at = :updated_at
        WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, result)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	return expectAffected(res, "update result")
}

// UpdateStatus changes the lifecycle columns of a result.
func (r *ResultRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.ResultStatus, scheduled, published *time.Time) error {
	const query = `UPDATE results SET status = $1, scheduled_date = $2, published_date = $3, updated_at = $4 WHERE id = $5`
	res, err := r.exec(exec).ExecContext(ctx, query, status, scheduled, published, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update result status: %w", err)
	}
	return expectAffected(res, "update result status")
}

// UpdatePosition stores the overall position of a result.
func (r *ResultRepository) UpdatePosition(ctx context.Context, exec sqlx.ExtContext, id string, position *int) error {
	const query = `UPDATE results SET overall_position = $1 WHERE id = $2`
	if _, err := r.exec(exec).ExecContext(ctx, query, position, id); err != nil {
		return fmt.Errorf("update result position: %w", err)
	}
	return nil
}

// SetReportCard stores the artifact reference of a result.
func (r *ResultRepository) SetReportCard(ctx context.Context, id, path string) error {
	const query = `UPDATE results SET report_card_path = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, path, id); err != nil {
		return fmt.Errorf("set report card path: %w", err)
	}
	return nil
}

// PublishDue flips every elapsed SCHEDULED result to PUBLISHED and returns the flipped IDs.
// Rows already flipped by a concurrent sweep no longer match and are not returned again.
func (r *ResultRepository) PublishDue(ctx context.Context, now time.Time) ([]string, error) {
	const query = `UPDATE results SET status = $1, published_date = COALESCE(published_date, $2), updated_at = $2
        WHERE status = $3 AND scheduled_date IS NOT NULL AND scheduled_date <= $2
        RETURNING id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, models.ResultStatusPublished, now, models.ResultStatusScheduled); err != nil {
		return nil, fmt.Errorf("publish due results: %w", err)
	}
	return ids, nil
}

// Delete removes a result; course results cascade.
func (r *ResultRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return expectAffected(res, "delete result")
}

func expectAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
