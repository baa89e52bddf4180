package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationSingleField(t *testing.T) {
	err := FieldInvalid("scheduled_date", "required when status is SCHEDULED")
	require.Equal(t, ErrValidation.Code, err.Code)
	require.Equal(t, http.StatusBadRequest, err.Status)
	require.Len(t, err.Fields(), 1)
	assert.Equal(t, "scheduled_date", err.Fields()[0].Field)
	assert.Contains(t, err.Message, "scheduled_date")
}

func TestClonedSentinelMatchesWithIs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "result not found"))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrValidation))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}

func TestNewIncompleteCarriesReport(t *testing.T) {
	report := map[string]int{"missing": 2}
	err := NewIncomplete(report)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, report, err.Details)
}
