package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-results-api/internal/models"
)

const courseResultColumns = `cr.id, cr.result_id, cr.class_course_id, cr.class_score, cr.exam_score, cr.remarks, cr.position,
        cc.course_id, c.name AS course_name, c.code AS course_code`

const courseResultFrom = `FROM course_results cr
        JOIN class_courses cc ON cc.id = cr.class_course_id
        JOIN courses c ON c.id = cc.course_id`

// CourseResultRepository manages persistence for per-course scores.
type CourseResultRepository struct {
	db *sqlx.DB
}

// NewCourseResultRepository constructs a CourseResultRepository.
func NewCourseResultRepository(db *sqlx.DB) *CourseResultRepository {
	return &CourseResultRepository{db: db}
}

func (r *CourseResultRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByResult returns the course entries of one result ordered by course name.
func (r *CourseResultRepository) ListByResult(ctx context.Context, exec sqlx.ExtContext, resultID string) ([]models.CourseResult, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE cr.result_id = $1 ORDER BY c.name ASC", courseResultColumns, courseResultFrom)
	var items []models.CourseResult
	if err := sqlx.SelectContext(ctx, r.exec(exec), &items, query, resultID); err != nil {
		return nil, fmt.Errorf("list course results: %w", err)
	}
	return items, nil
}

// ListByResults returns the course entries of several results.
func (r *CourseResultRepository) ListByResults(ctx context.Context, exec sqlx.ExtContext, resultIDs []string) ([]models.CourseResult, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s %s WHERE cr.result_id = ANY($1) ORDER BY c.name ASC", courseResultColumns, courseResultFrom)
	var items []models.CourseResult
	if err := sqlx.SelectContext(ctx, r.exec(exec), &items, query, pq.Array(resultIDs)); err != nil {
		return nil, fmt.Errorf("list course results by results: %w", err)
	}
	return items, nil
}

// ListByCohort returns every course entry belonging to a cohort.
func (r *CourseResultRepository) ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.CourseResult, error) {
	query := fmt.Sprintf(`SELECT %s %s
        JOIN results r ON r.id = cr.result_id
        WHERE r.class_name = $1 AND r.term = $2 AND r.academic_year = $3
        ORDER BY cr.class_course_id, cr.id`, courseResultColumns, courseResultFrom)
	var items []models.CourseResult
	if err := sqlx.SelectContext(ctx, r.exec(exec), &items, query, cohort.ClassName, cohort.Term, cohort.AcademicYear); err != nil {
		return nil, fmt.Errorf("list cohort course results: %w", err)
	}
	return items, nil
}

// Create inserts a course result.
func (r *CourseResultRepository) Create(ctx context.Context, exec sqlx.ExtContext, item *models.CourseResult) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	const query = `INSERT INTO course_results (id, result_id, class_course_id, class_score, exam_score, remarks, position)
        VALUES (:id, :result_id, :class_course_id, :class_score, :exam_score, :remarks, :position)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, item); err != nil {
		return fmt.Errorf("create course result: %w", err)
	}
	return nil
}

// Update rewrites the scores and remarks of a course result.
func (r *CourseResultRepository) Update(ctx context.Context, exec sqlx.ExtContext, item *models.CourseResult) error {
	const query = `UPDATE course_results SET class_score = :class_score, exam_score = :exam_score, remarks = :remarks WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, item)
	if err != nil {
		return fmt.Errorf("update course result: %w", err)
	}
	return expectAffected(res, "update course result")
}

// UpdatePosition stores the course position of an entry.
func (r *CourseResultRepository) UpdatePosition(ctx context.Context, exec sqlx.ExtContext, id string, position *int) error {
	if _, err := r.exec(exec).ExecContext(ctx, `UPDATE course_results SET position = $1 WHERE id = $2`, position, id); err != nil {
		return fmt.Errorf("update course result position: %w", err)
	}
	return nil
}

// Delete removes a course result.
func (r *CourseResultRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM course_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course result: %w", err)
	}
	return expectAffected(res, "delete course result")
}
