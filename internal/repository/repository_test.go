package repository

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "results_student_cohort_key"}
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, "results_student_cohort_key", ViolatedConstraint(err))

	other := &pq.Error{Code: "23503"}
	assert.False(t, IsUniqueViolation(other))
	assert.Empty(t, ViolatedConstraint(other))
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsForeignKeyViolation(other))
	assert.False(t, IsForeignKeyViolation(err))
}
