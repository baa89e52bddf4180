package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-results-api/internal/models"
)

func TestCourseRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses (id, name, code, created_by, created_at, updated_at)")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	creator := "staff-1"
	course := &models.Course{Name: "Mathematics", Code: "MATH", CreatedBy: &creator}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.Equal(t, course.CreatedAt, course.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateDuplicateCode(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "courses_code_key"})

	err := repo.Create(context.Background(), &models.Course{Name: "Mathematics", Code: "MATH"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, "courses_code_key", ViolatedConstraint(err))
}

func TestCourseRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "created_by", "created_at", "updated_at"}).
			AddRow("c-1", "English", "ENG", nil, now, now).
			AddRow("c-2", "Mathematics", "MATH", "staff-1", now, now))

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Nil(t, courses[0].CreatedBy)
	require.NotNil(t, courses[1].CreatedBy)
	assert.Equal(t, "staff-1", *courses[1].CreatedBy)
}
