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

func assertCode(t *testing.T, err error, want *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want.Code, appErrors.FromError(err).Code, "unexpected error: %v", err)
}

func strPtr(v string) *string { return &v }

func TestCreateRanksAndRendersNewResult(t *testing.T) {
	h := newHarness(t)
	h.store.addStudent("stu-a", "Ama", "Mensah", jhs1.ClassName)

	result, err := h.svc.Create(context.Background(), staff, createRequest("stu-a",
		dto.CourseResultInput{ClassCourseID: "cc-math", ClassScore: 35, ExamScore: 50, Remarks: "Good"},
	))
	require.NoError(t, err)

	require.Len(t, result.CourseResults, 1)
	assert.Equal(t, 85.0, result.TotalScore)
	assert.Equal(t, "A", result.CourseResults[0].Grade)
	assert.Equal(t, "1st of 1", result.PositionContext)
	assert.Equal(t, 1, result.CohortSize)
	assert.Equal(t, 83.33, result.AttendancePercentage)
	assert.Equal(t, models.ResultStatusDraft, result.Status)
	assert.Equal(t, []string{result.ID}, h.artifacts.results)
	assert.Empty(t, h.notifier.ids())
	assert.Equal(t, 0, h.store.logCount())
}

func TestCreateDuplicateTupleIsFieldError(t *testing.T) {
	h := newHarness(t)
	h.store.addStudent("stu-a", "Ama", "Mensah", jhs1.ClassName)

	_, err := h.svc.Create(context.Background(), staff, createRequest("stu-a"))
	require.NoError(t, err)
	_, err = h.svc.Create(context.Background(), staff, createRequest("stu-a"))
	assertFieldError(t, err, "student_id")
	assert.Len(t, h.store.results, 1)
}

func TestCreateRejectsCourseOfAnotherClass(t *testing.T) {
	h := newHarness(t)
	h.store.addStudent("stu-a", "Ama", "Mensah", jhs1.ClassName)
	h.store.addClassCourse("cc-jhs2", "Science", "JHS 2", models.TermFirst)

	_, err := h.svc.Create(context.Background(), staff, createRequest("stu-a",
		dto.CourseResultInput{ClassCourseID: "cc-jhs2", ClassScore: 10, ExamScore: 10},
	))
	assertFieldError(t, err, "course_results[0].class_course_id")
	assert.Empty(t, h.store.results)
}

func TestCreateRejectsOutOfRangeScores(t *testing.T) {
	h := newHarness(t)
	h.store.addStudent("stu-a", "Ama", "Mensah", jhs1.ClassName)

	_, err := h.svc.Create(context.Background(), staff, createRequest("stu-a",
		dto.CourseResultInput{ClassCourseID: "cc-math", ClassScore: 41, ExamScore: 10},
	))
	assertFieldError(t, err, "course_results[0].class_score")
}

func TestCreateThirdTermPromotionMustDifferFromClass(t *testing.T) {
	h := newHarness(t)
	h.store.addStudent("stu-a", "Ama", "Mensah", jhs1.ClassName)
	req := createRequest("stu-a")
	req.Term = models.TermThird
	req.PromotedTo = strPtr("jhs 1")

	_, err := h.svc.Create(context.Background(), staff, req)
	assertFieldError(t, err, "promoted_to")
}

func TestCreatePublishedNotifies(t *testing.T) {
	h := newHarness(t)
	h.store.addStudent("stu-a", "Ama", "Mensah", jhs1.ClassName)
	req := createRequest("stu-a")
	req.Status = models.ResultStatusPublished

	result, err := h.svc.Create(context.Background(), staff, req)
	require.NoError(t, err)
	require.NotNil(t, result.PublishedDate)
	assert.Equal(t, fixedNow, *result.PublishedDate)
	assert.Equal(t, []string{result.ID}, h.notifier.ids())
}

func TestCreateRequiresStaff(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Create(context.Background(), models.Actor{ID: "stu-a", Role: models.RoleStudent}, createRequest("stu-a"))
	assertCode(t, err, appErrors.ErrForbidden)
}

func TestUpdateRemarksAuditIsFieldExact(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	ctx := context.Background()

	_, err := h.svc.Update(ctx, staff, r.ID, dto.UpdateResultRequest{TeacherRemarks: strPtr("Good")})
	require.NoError(t, err)
	require.Equal(t, 1, h.store.logCount())

	_, err = h.svc.Update(ctx, staff, r.ID, dto.UpdateResultRequest{TeacherRemarks: strPtr("Good")})
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.logCount())

	_, err = h.svc.Update(ctx, staff, r.ID, dto.UpdateResultRequest{TeacherRemarks: strPtr("Excellent")})
	require.NoError(t, err)
	require.Equal(t, 2, h.store.logCount())

	entries, err := h.svc.ChangeLog(ctx, staff, r.ID)
	require.NoError(t, err)
	latest := entries[0]
	assert.Equal(t, "teacher_remarks", latest.FieldName)
	assert.Equal(t, "Good", latest.PreviousValue)
	assert.Equal(t, "Excellent", latest.NewValue)
	assert.Equal(t, staff.Email, latest.ChangedBy)
}

func TestUpdateScheduledWithoutDateLeavesDraft(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	scheduled := models.ResultStatusScheduled

	_, err := h.svc.Update(context.Background(), staff, r.ID, dto.UpdateResultRequest{Status: &scheduled})
	assertFieldError(t, err, "scheduled_date")
	assert.Equal(t, models.ResultStatusDraft, h.store.result(r.ID).Status)
	assert.Equal(t, 0, h.store.logCount())
	assert.Equal(t, 1, h.store.rollbacks)
}

func TestUpdateScoresRegeneratesWholeCohort(t *testing.T) {
	h := newHarness(t)
	a := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	b := h.seed(t, "stu-b", map[string][2]float64{"cc-math": {20, 50}})
	require.Equal(t, 2, h.position(b.ID))

	courses := []dto.CourseResultInput{
		{ClassCourseID: "cc-math", ClassScore: 40, ExamScore: 60},
		{ClassCourseID: "cc-eng", ClassScore: 10, ExamScore: 10},
	}
	updated, err := h.svc.Update(context.Background(), staff, b.ID, dto.UpdateResultRequest{CourseResults: &courses})
	require.NoError(t, err)

	assert.Equal(t, 1, h.position(b.ID))
	assert.Equal(t, 2, h.position(a.ID))
	assert.Len(t, updated.CourseResults, 2)
	assert.Equal(t, []models.Cohort{jhs1}, h.artifacts.cohorts)
	assert.Empty(t, h.artifacts.results)

	entries, err := h.svc.ChangeLog(context.Background(), staff, b.ID)
	require.NoError(t, err)
	fields := map[string]models.ResultChangeLog{}
	for _, e := range entries {
		fields[e.FieldName] = e
	}
	assert.Equal(t, "20.00", fields["Mathematics - Class Score"].PreviousValue)
	assert.Equal(t, "40.00", fields["Mathematics - Class Score"].NewValue)
	assert.Equal(t, "Not present", fields["English"].PreviousValue)
	assert.Equal(t, "Added with scores: 10.00/10.00", fields["English"].NewValue)
}

func TestUpdateMovingResultRecalculatesBothCohorts(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	b := h.seed(t, "stu-b", map[string][2]float64{"cc-math": {20, 50}})

	none := []dto.CourseResultInput{}
	_, err := h.svc.Update(context.Background(), staff, b.ID, dto.UpdateResultRequest{ClassName: strPtr("JHS 2"), CourseResults: &none})
	require.NoError(t, err)

	jhs2 := models.Cohort{ClassName: "JHS 2", Term: jhs1.Term, AcademicYear: jhs1.AcademicYear}
	assert.Equal(t, 1, h.store.sizes[jhs1])
	assert.Equal(t, 1, h.store.sizes[jhs2])
	assert.Equal(t, 1, h.position(b.ID))
	assert.ElementsMatch(t, []models.Cohort{jhs1, jhs2}, h.artifacts.cohorts)
	assert.Contains(t, h.cache.invalidated, jhs2)
	assert.Contains(t, h.store.locked, jhs2.String())
}

func TestUpdateMovingResultRequiresCourseList(t *testing.T) {
	h := newHarness(t)
	b := h.seed(t, "stu-b", map[string][2]float64{"cc-math": {20, 50}})
	logsBefore := h.store.logCount()

	_, err := h.svc.Update(context.Background(), staff, b.ID, dto.UpdateResultRequest{ClassName: strPtr("JHS 2")})
	assertFieldError(t, err, "course_results")

	second := models.TermSecond
	_, err = h.svc.Update(context.Background(), staff, b.ID, dto.UpdateResultRequest{Term: &second})
	assertFieldError(t, err, "course_results")

	stored := h.store.result(b.ID)
	assert.Equal(t, jhs1.ClassName, stored.ClassName)
	assert.Equal(t, jhs1.Term, stored.Term)
	assert.Equal(t, logsBefore, h.store.logCount())

	updated, err := h.svc.Update(context.Background(), staff, b.ID, dto.UpdateResultRequest{AcademicYear: strPtr("2025/2026")})
	require.NoError(t, err)
	assert.Equal(t, "2025/2026", updated.AcademicYear)
	require.Len(t, updated.CourseResults, 1)
}

func TestUpdateKeepsDueScheduleUntouched(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	due := fixedNow.Add(-time.Hour)
	require.NoError(t, h.results.UpdateStatus(context.Background(), nil, r.ID, models.ResultStatusScheduled, &due, nil))

	updated, err := h.svc.Update(context.Background(), staff, r.ID, dto.UpdateResultRequest{TeacherRemarks: strPtr("Excellent")})
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusScheduled, updated.Status)
	require.NotNil(t, updated.ScheduledDate)
	assert.Equal(t, due, *updated.ScheduledDate)
	assert.Equal(t, "Excellent", updated.TeacherRemarks)

	earlier := fixedNow.Add(-2 * time.Hour)
	_, err = h.svc.Update(context.Background(), staff, r.ID, dto.UpdateResultRequest{ScheduledDate: &earlier})
	assertFieldError(t, err, "scheduled_date")
}

func TestUpdatePublishedRequiresPrincipal(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	published := fixedNow.Add(-time.Hour)
	require.NoError(t, h.results.UpdateStatus(context.Background(), nil, r.ID, models.ResultStatusPublished, nil, &published))

	_, err := h.svc.Update(context.Background(), staff, r.ID, dto.UpdateResultRequest{TeacherRemarks: strPtr("Late note")})
	assertCode(t, err, appErrors.ErrForbidden)

	updated, err := h.svc.Update(context.Background(), head, r.ID, dto.UpdateResultRequest{TeacherRemarks: strPtr("Late note")})
	require.NoError(t, err)
	assert.Equal(t, published, *updated.PublishedDate)
	assert.Empty(t, h.notifier.ids())
}

func TestUpdatePublishedMissingArtifactRegenerates(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 50}})
	published := models.ResultStatusPublished

	_, err := h.svc.Update(context.Background(), staff, r.ID, dto.UpdateResultRequest{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, h.artifacts.results)
	assert.Equal(t, []string{r.ID}, h.notifier.ids())
}

func TestDeleteRecalculatesSmallerCohort(t *testing.T) {
	h := newHarness(t)
	a := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	b := h.seed(t, "stu-b", map[string][2]float64{"cc-math": {25, 50}})
	c := h.seed(t, "stu-c", map[string][2]float64{"cc-math": {30, 45}})
	d := h.seed(t, "stu-d", map[string][2]float64{"cc-math": {20, 40}})
	require.Equal(t, 4, h.position(d.ID))

	require.NoError(t, h.svc.Delete(context.Background(), head, b.ID))

	assert.Equal(t, 3, h.store.sizes[jhs1])
	assert.Equal(t, 1, h.position(a.ID))
	assert.Equal(t, 2, h.position(c.ID))
	assert.Equal(t, 3, h.position(d.ID))
	assert.Equal(t, []string{d.ID}, h.artifacts.results)

	entries, err := h.svc.ChangeLog(context.Background(), staff, b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "result", entries[0].FieldName)
	assert.Equal(t, "Deleted", entries[0].NewValue)
}

func TestDeleteRequiresPrincipal(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	assertCode(t, h.svc.Delete(context.Background(), staff, r.ID), appErrors.ErrForbidden)
	assertCode(t, h.svc.Delete(context.Background(), head, "missing"), appErrors.ErrNotFound)
}

func TestReadSweepPublishesOnce(t *testing.T) {
	h := newHarness(t)
	due := fixedNow.Add(-time.Hour)
	r := h.store.addResult(models.Result{
		StudentID:     "stu-a",
		ClassName:     jhs1.ClassName,
		Term:          jhs1.Term,
		AcademicYear:  jhs1.AcademicYear,
		Status:        models.ResultStatusScheduled,
		ScheduledDate: &due,
	}, nil)

	first, err := h.svc.Get(context.Background(), staff, r.ID)
	require.NoError(t, err)
	_, err = h.svc.Get(context.Background(), staff, r.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ResultStatusPublished, first.Status)
	require.NotNil(t, first.PublishedDate)
	assert.Equal(t, fixedNow, *first.PublishedDate)
	assert.Equal(t, []string{r.ID}, h.notifier.ids())
	assert.Equal(t, []string{r.ID}, h.artifacts.results)

	entries, err := h.svc.ChangeLog(context.Background(), staff, r.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.SystemActor.Email, entries[0].ChangedBy)
}

func TestStudentsOnlySeeTheirPublishedResults(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	student := models.Actor{ID: "stu-a", Role: models.RoleStudent}

	_, err := h.svc.Get(context.Background(), student, r.ID)
	assertCode(t, err, appErrors.ErrNotFound)

	results, _, err := h.svc.MyResults(context.Background(), student, dto.ResultQuery{})
	require.NoError(t, err)
	assert.Empty(t, results)

	published := fixedNow
	require.NoError(t, h.results.UpdateStatus(context.Background(), nil, r.ID, models.ResultStatusPublished, nil, &published))
	results, _, err = h.svc.CurrentClassResults(context.Background(), student, dto.ResultQuery{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1st of 1", results[0].PositionContext)
}

func TestPreviousClassResultsExcludeCurrentClass(t *testing.T) {
	h := newHarness(t)
	old := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	published := fixedNow
	require.NoError(t, h.results.UpdateStatus(context.Background(), nil, old.ID, models.ResultStatusPublished, nil, &published))
	current := h.store.addResult(models.Result{StudentID: "stu-a", ClassName: "JHS 2", Term: jhs1.Term, AcademicYear: "2025/2026", Status: models.ResultStatusPublished, PublishedDate: &published}, nil)
	h.store.addStudent("stu-a", "Student", "stu-a", "JHS 2")
	student := models.Actor{ID: "stu-a", Role: models.RoleStudent}

	results, page, err := h.svc.PreviousClassResults(context.Background(), student, dto.ResultQuery{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, old.ID, results[0].ID)
	assert.Equal(t, 1, page.TotalCount)

	results, _, err = h.svc.CurrentClassResults(context.Background(), student, dto.ResultQuery{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, current.ID, results[0].ID)

	_, _, err = h.svc.PreviousClassResults(context.Background(), staff, dto.ResultQuery{})
	assertCode(t, err, appErrors.ErrForbidden)
}

func TestClassResultsOnlyIncludeEnrolledStudents(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	h.seed(t, "stu-b", map[string][2]float64{"cc-math": {20, 60}})
	h.store.addStudent("stu-b", "Student", "stu-b", "JHS 2")

	results, page, err := h.svc.ClassResults(context.Background(), staff, dto.ResultQuery{ClassName: jhs1.ClassName})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "stu-a", results[0].StudentID)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 2, results[0].CohortSize)
}

func TestRecalculatePositionsRegeneratesChanged(t *testing.T) {
	h := newHarness(t)
	a := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	h.store.mu.Lock()
	r := h.store.results[a.ID]
	r.OverallPosition = nil
	h.store.results[a.ID] = r
	h.store.mu.Unlock()

	resp, err := h.svc.RecalculatePositions(context.Background(), staff, dto.CohortRequest{ClassName: jhs1.ClassName, Term: jhs1.Term, AcademicYear: jhs1.AcademicYear})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, resp.ChangedResultIDs)
	assert.Equal(t, 1, resp.ChangedCount)
	assert.Equal(t, []string{a.ID}, h.artifacts.results)
}

func TestReportCardLinkAndDownload(t *testing.T) {
	h := newHarness(t)
	r := h.seed(t, "stu-a", map[string][2]float64{"cc-math": {30, 60}})
	ctx := context.Background()

	_, err := h.svc.ReportCardLink(ctx, staff, r.ID)
	assertCode(t, err, appErrors.ErrNotFound)

	path := ReportCardPath(r)
	require.NoError(t, h.results.SetReportCard(ctx, r.ID, path))
	h.artifacts.files[path] = []byte("%PDF")

	link, err := h.svc.ReportCardLink(ctx, staff, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/report-cards/"+link.Token, link.URL)

	file, err := h.svc.ReportCardDownload(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), file.Data)
	assert.Equal(t, r.ID+".pdf", file.Filename)

	_, err = h.svc.ReportCardDownload(ctx, "garbage")
	assertCode(t, err, appErrors.ErrUnauthorized)
}
