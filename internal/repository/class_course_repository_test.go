package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-results-api/internal/models"
)

func TestClassCourseRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewClassCourseRepository(db)

	query := regexp.QuoteMeta("SELECT 1 FROM class_courses WHERE course_id = $1 AND class_name = $2 AND term = $3 LIMIT 1")
	mock.ExpectQuery(query).WithArgs("course-1", "JHS 1", models.TermFirst).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectQuery(query).WithArgs("course-2", "JHS 1", models.TermFirst).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.Exists(context.Background(), "course-1", "JHS 1", models.TermFirst)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(context.Background(), "course-2", "JHS 1", models.TermFirst)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassCourseRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewClassCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND cc.class_name = $1 AND cc.term = $2 AND cc.is_active = $3")).
		WithArgs("JHS 1", models.TermFirst, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "class_name", "term", "is_active", "created_at", "course_name", "course_code"}))

	items, err := repo.ListActive(context.Background(), "JHS 1", models.TermFirst)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassCourseRepositoryInUse(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewClassCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM course_results WHERE class_course_id = $1)")).
		WithArgs("cc-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := repo.InUse(context.Background(), "cc-1")
	require.NoError(t, err)
	assert.True(t, used)
	assert.NoError(t, mock.ExpectationsWereMet())
}
