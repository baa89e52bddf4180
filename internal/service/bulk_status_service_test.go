package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

var fullScores = map[string][2]float64{"cc-math": {30, 50}, "cc-eng": {25, 40}}

func bulkRequest(status models.ResultStatus) dto.BulkStatusRequest {
	return dto.BulkStatusRequest{ClassName: jhs1.ClassName, Term: jhs1.Term, AcademicYear: jhs1.AcademicYear, Status: status}
}

func TestBulkPublishRejectsMissingStudentResult(t *testing.T) {
	h := newHarness(t)
	a := h.seed(t, "stu-a", fullScores)
	h.store.addStudent("stu-b", "Kofi", "Boateng", jhs1.ClassName)

	_, err := h.bulk.Apply(context.Background(), staff, bulkRequest(models.ResultStatusPublished))
	assertCode(t, err, appErrors.ErrIncomplete)

	report, ok := appErrors.FromError(err).Details.(models.CompletenessReport)
	require.True(t, ok)
	require.Len(t, report.MissingResults, 1)
	assert.Equal(t, "stu-b", report.MissingResults[0].StudentID)
	assert.Equal(t, "Kofi Boateng", report.MissingResults[0].StudentName)
	assert.Empty(t, report.IncompleteResults)

	assert.Equal(t, models.ResultStatusDraft, h.store.result(a.ID).Status)
	assert.Equal(t, 0, h.store.logCount())
	assert.Empty(t, h.notifier.ids())
}

func TestBulkPublishRejectsMissingCourseScores(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "stu-a", fullScores)
	b := h.seed(t, "stu-b", map[string][2]float64{"cc-math": {20, 40}})

	_, err := h.bulk.Apply(context.Background(), staff, bulkRequest(models.ResultStatusPublished))
	assertCode(t, err, appErrors.ErrIncomplete)

	report := appErrors.FromError(err).Details.(models.CompletenessReport)
	require.Len(t, report.IncompleteResults, 1)
	assert.Equal(t, b.ID, report.IncompleteResults[0].ResultID)
	assert.Equal(t, "English", report.IncompleteResults[0].CourseName)
	assert.Equal(t, 1, h.store.rollbacks)
}

func TestBulkPublishSkipsAlreadyPublished(t *testing.T) {
	h := newHarness(t)
	a := h.seed(t, "stu-a", fullScores)
	b := h.seed(t, "stu-b", fullScores)
	earlier := fixedNow.Add(-24 * time.Hour)
	require.NoError(t, h.results.UpdateStatus(context.Background(), nil, a.ID, models.ResultStatusPublished, nil, &earlier))

	resp, err := h.bulk.Apply(context.Background(), staff, bulkRequest(models.ResultStatusPublished))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, 1, resp.SkippedCount)
	assert.Equal(t, "1 results updated to PUBLISHED, 1 skipped", resp.Message)
	assert.Equal(t, earlier, *h.store.result(a.ID).PublishedDate)
	assert.Equal(t, fixedNow, *h.store.result(b.ID).PublishedDate)
	assert.Equal(t, []string{b.ID}, h.notifier.ids())
	assert.Equal(t, []models.Cohort{jhs1}, h.artifacts.cohorts)

	entries, err := h.svc.ChangeLog(context.Background(), staff, b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, bulkStatusField, entries[0].FieldName)
	assert.Equal(t, "DRAFT", entries[0].PreviousValue)
	assert.Equal(t, "PUBLISHED", entries[0].NewValue)
}

func TestBulkScheduleRecordsDate(t *testing.T) {
	h := newHarness(t)
	a := h.seed(t, "stu-a", fullScores)
	when := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	req := bulkRequest(models.ResultStatusScheduled)
	req.ScheduledDate = &when

	resp, err := h.bulk.Apply(context.Background(), staff, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, when, *h.store.result(a.ID).ScheduledDate)

	entries, err := h.svc.ChangeLog(context.Background(), staff, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "SCHEDULED (2025-02-01T00:00:00Z)", entries[0].NewValue)

	again, err := h.bulk.Apply(context.Background(), staff, req)
	require.NoError(t, err)
	assert.Equal(t, 0, again.UpdatedCount)
	assert.Equal(t, 1, again.SkippedCount)
}

func TestBulkScheduleRequiresFutureDate(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "stu-a", fullScores)
	req := bulkRequest(models.ResultStatusScheduled)

	_, err := h.bulk.Apply(context.Background(), staff, req)
	assertFieldError(t, err, "scheduled_date")

	past := fixedNow.Add(-time.Minute)
	req.ScheduledDate = &past
	_, err = h.bulk.Apply(context.Background(), staff, req)
	assertFieldError(t, err, "scheduled_date")
}

func TestBulkResolvesLatestAcademicYear(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "stu-a", fullScores)
	h.store.addResult(models.Result{StudentID: "stu-a", ClassName: jhs1.ClassName, Term: jhs1.Term, AcademicYear: "2023/2024"}, nil)
	req := bulkRequest(models.ResultStatusDraft)
	req.AcademicYear = ""

	resp, err := h.bulk.Apply(context.Background(), staff, req)
	require.NoError(t, err)
	assert.Equal(t, jhs1.AcademicYear, resp.AcademicYear)
	assert.Equal(t, 0, resp.UpdatedCount)
	assert.Equal(t, 1, resp.SkippedCount)
}

func TestBulkRequiresEnrolmentAndCourses(t *testing.T) {
	h := newHarness(t)
	req := bulkRequest(models.ResultStatusDraft)
	req.ClassName = "JHS 3"

	_, err := h.bulk.Apply(context.Background(), staff, req)
	assertCode(t, err, appErrors.ErrNotFound)

	h.store.addStudent("stu-z", "Yaw", "Owusu", "JHS 3")
	_, err = h.bulk.Apply(context.Background(), staff, req)
	assertCode(t, err, appErrors.ErrNotFound)
	assert.Contains(t, err.Error(), "no active courses")

	req.AcademicYear = ""
	_, err = h.bulk.Apply(context.Background(), staff, req)
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestBulkRequiresStaff(t *testing.T) {
	h := newHarness(t)
	_, err := h.bulk.Apply(context.Background(), models.Actor{ID: "stu-a", Role: models.RoleStudent}, bulkRequest(models.ResultStatusDraft))
	assertCode(t, err, appErrors.ErrForbidden)
}
