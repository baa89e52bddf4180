package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-results-api/internal/models"
)

const classCourseSelect = `SELECT cc.id, cc.course_id, cc.class_name, cc.term, cc.is_active, cc.created_at,
        c.name AS course_name, c.code AS course_code
        FROM class_courses cc JOIN courses c ON c.id = cc.course_id`

// ClassCourseRepository manages course assignments per class and term.
type ClassCourseRepository struct {
	db *sqlx.DB
}

// NewClassCourseRepository constructs a ClassCourseRepository.
func NewClassCourseRepository(db *sqlx.DB) *ClassCourseRepository {
	return &ClassCourseRepository{db: db}
}

// List returns assignments matching the filter.
func (r *ClassCourseRepository) List(ctx context.Context, filter models.ClassCourseFilter) ([]models.ClassCourse, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.ClassName != "" {
		conditions = append(conditions, fmt.Sprintf("cc.class_name = $%d", len(args)+1))
		args = append(args, filter.ClassName)
	}
	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("cc.term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("cc.is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY cc.class_name ASC, cc.term ASC, c.name ASC", classCourseSelect, strings.Join(conditions, " AND "))
	var items []models.ClassCourse
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list class courses: %w", err)
	}
	return items, nil
}

// ListActive returns the active assignments of a class and term.
func (r *ClassCourseRepository) ListActive(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error) {
	active := true
	return r.List(ctx, models.ClassCourseFilter{ClassName: className, Term: term, Active: &active})
}

// FindByID fetches an assignment.
func (r *ClassCourseRepository) FindByID(ctx context.Context, id string) (*models.ClassCourse, error) {
	var item models.ClassCourse
	if err := r.db.GetContext(ctx, &item, classCourseSelect+" WHERE cc.id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs fetches several assignments.
func (r *ClassCourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.ClassCourse, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.ClassCourse
	if err := r.db.SelectContext(ctx, &items, classCourseSelect+" WHERE cc.id = ANY($1)", pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find class courses: %w", err)
	}
	return items, nil
}

// Exists reports whether a course is already assigned to the class and term.
func (r *ClassCourseRepository) Exists(ctx context.Context, courseID, className string, term models.Term) (bool, error) {
	const query = `SELECT 1 FROM class_courses WHERE course_id = $1 AND class_name = $2 AND term = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, className, term); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check class course: %w", err)
	}
	return true, nil
}

// InUse reports whether any course result references the assignment.
func (r *ClassCourseRepository) InUse(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM course_results WHERE class_course_id = $1)`
	var used bool
	if err := r.db.GetContext(ctx, &used, query, id); err != nil {
		return false, fmt.Errorf("check class course usage: %w", err)
	}
	return used, nil
}

// Create inserts an assignment.
func (r *ClassCourseRepository) Create(ctx context.Context, item *models.ClassCourse) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_courses (id, course_id, class_name, term, is_active, created_at)
        VALUES (:id, :course_id, :class_name, :term, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create class course: %w", err)
	}
	return nil
}

// Update modifies an assignment.
func (r *ClassCourseRepository) Update(ctx context.Context, item *models.ClassCourse) error {
	const query = `UPDATE class_courses SET class_name = :class_name, term = :term, is_active = :is_active WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update class course: %w", err)
	}
	return expectAffected(res, "update class course")
}

// Delete removes an assignment.
func (r *ClassCourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM class_courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class course: %w", err)
	}
	return expectAffected(res, "delete class course")
}
