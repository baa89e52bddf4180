package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-results-api/internal/models"
)

const studentColumns = `id, first_name, last_name, email, class_name`

// StudentRepository reads learner accounts from the identity store's users table.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student account.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 AND role = $2", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, models.RoleStudent); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByClass returns the students currently enrolled in a class.
func (r *StudentRepository) ListByClass(ctx context.Context, className string) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE role = $1 AND class_name = $2 ORDER BY last_name ASC, first_name ASC", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, models.RoleStudent, className); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return students, nil
}
