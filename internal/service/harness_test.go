package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
)

var (
	fixedNow = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	staff    = models.Actor{ID: "staff-1", Email: "teacher@school.test", Role: models.RoleStaff}
	head     = models.Actor{ID: "principal-1", Email: "head@school.test", Role: models.RolePrincipal}
	jhs1     = models.Cohort{ClassName: "JHS 1", Term: models.TermFirst, AcademicYear: "2024/2025"}
)

// harness wires the result services to one in-memory store.
type harness struct {
	store         *memStore
	results       *fakeResultRepo
	courseResults *fakeCourseResultRepo
	students      *fakeStudentRepo
	classCourses  *fakeClassCourseRepo
	notifier      *fakeNotifier
	artifacts     *fakeArtifacts
	cache         *fakeRankingCache
	audit         *AuditService
	sizes         *CohortSizeService
	positions     *PositionService
	publication   *PublicationService
	svc           *ResultService
	bulk          *BulkStatusService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemStore()
	h := &harness{
		store:         store,
		results:       &fakeResultRepo{store: store},
		courseResults: &fakeCourseResultRepo{store: store},
		students:      &fakeStudentRepo{store: store},
		classCourses:  &fakeClassCourseRepo{store: store},
		notifier:      &fakeNotifier{},
		artifacts:     &fakeArtifacts{files: map[string][]byte{}},
		cache:         &fakeRankingCache{},
	}
	tx := &fakeTx{store: store}
	h.audit = NewAuditService(&fakeChangeLogRepo{store: store}, nil)
	h.sizes = NewCohortSizeService(&fakeCohortSizeRepo{store: store}, nil)
	h.positions = NewPositionService(tx, h.results, h.courseResults, h.sizes, h.cache, nil, nil)
	h.publication = NewPublicationService(h.results, h.audit, h.notifier, h.artifacts, h.cache, nil, nil)
	h.publication.now = func() time.Time { return fixedNow }
	h.svc = NewResultService(ResultDeps{
		Tx:            tx,
		Results:       h.results,
		CourseResults: h.courseResults,
		Students:      h.students,
		ClassCourses:  h.classCourses,
		Sizes:         h.sizes,
		Positions:     h.positions,
		Audit:         h.audit,
		Publication:   h.publication,
		Notifier:      h.notifier,
		Artifacts:     h.artifacts,
		Signer:        &stubSigner{},
	})
	h.svc.now = func() time.Time { return fixedNow }
	h.bulk = NewBulkStatusService(BulkStatusDeps{
		Tx:            tx,
		Results:       h.results,
		CourseResults: h.courseResults,
		Students:      h.students,
		ClassCourses:  h.classCourses,
		Positions:     h.positions,
		Audit:         h.audit,
		Notifier:      h.notifier,
		Artifacts:     h.artifacts,
	})
	h.bulk.now = func() time.Time { return fixedNow }

	store.addClassCourse("cc-math", "Mathematics", jhs1.ClassName, jhs1.Term)
	store.addClassCourse("cc-eng", "English", jhs1.ClassName, jhs1.Term)
	return h
}

// seed stores a result with one score pair per class course and ranks the cohort.
func (h *harness) seed(t *testing.T, studentID string, scores map[string][2]float64) models.Result {
	t.Helper()
	if _, ok := h.store.students[studentID]; !ok {
		h.store.addStudent(studentID, "Student", studentID, jhs1.ClassName)
	}
	r := h.store.addResult(models.Result{StudentID: studentID, ClassName: jhs1.ClassName, Term: jhs1.Term, AcademicYear: jhs1.AcademicYear}, scores)
	_, err := h.positions.Recalculate(context.Background(), jhs1)
	require.NoError(t, err)
	return r
}

func (h *harness) position(id string) int {
	r := h.store.result(id)
	if r.OverallPosition == nil {
		return 0
	}
	return *r.OverallPosition
}

func createRequest(studentID string, courses ...dto.CourseResultInput) dto.CreateResultRequest {
	return dto.CreateResultRequest{
		StudentID:     studentID,
		ClassName:     jhs1.ClassName,
		Term:          jhs1.Term,
		AcademicYear:  jhs1.AcademicYear,
		DaysPresent:   50,
		DaysAbsent:    10,
		CourseResults: courses,
	}
}

type stubSigner struct{}

func (stubSigner) Generate(ownerID, relPath string) (string, time.Time, error) {
	return ownerID + "|" + relPath, fixedNow.Add(time.Hour), nil
}

func (stubSigner) Parse(token string) (string, string, time.Time, error) {
	for i := 0; i < len(token); i++ {
		if token[i] == '|' {
			return token[:i], token[i+1:], fixedNow.Add(time.Hour), nil
		}
	}
	return "", "", time.Time{}, errors.New("malformed token")
}
