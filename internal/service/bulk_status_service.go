package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

const bulkStatusField = "status (bulk update)"

type bulkResultRepository interface {
	LatestAcademicYear(ctx context.Context, className string, term models.Term) (string, error)
	LockCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) error
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.Result, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.ResultStatus, scheduled, published *time.Time) error
}

type bulkCourseResultRepository interface {
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.CourseResult, error)
}

type enrolledStudentRepository interface {
	ListByClass(ctx context.Context, className string) ([]models.Student, error)
}

type activeClassCourseRepository interface {
	ListActive(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error)
}

type cohortRecalculator interface {
	RecalculateTx(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]string, error)
	Committed(ctx context.Context, cohorts ...models.Cohort)
}

// BulkStatusService transitions every enrolled student's result of a class and term at once.
type BulkStatusService struct {
	tx            transactor
	results       bulkResultRepository
	courseResults bulkCourseResultRepository
	students      enrolledStudentRepository
	classCourses  activeClassCourseRepository
	positions     cohortRecalculator
	audit         auditRecorder
	notifier      publishNotifier
	artifacts     artifactRegenerator
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
}

// BulkStatusDeps groups the collaborators of BulkStatusService.
type BulkStatusDeps struct {
	Tx            transactor
	Results       bulkResultRepository
	CourseResults bulkCourseResultRepository
	Students      enrolledStudentRepository
	ClassCourses  activeClassCourseRepository
	Positions     cohortRecalculator
	Audit         auditRecorder
	Notifier      publishNotifier
	Artifacts     artifactRegenerator
	Metrics       *MetricsService
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// NewBulkStatusService constructs a BulkStatusService.
func NewBulkStatusService(deps BulkStatusDeps) *BulkStatusService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	return &BulkStatusService{
		tx:            deps.Tx,
		results:       deps.Results,
		courseResults: deps.CourseResults,
		students:      deps.Students,
		classCourses:  deps.ClassCourses,
		positions:     deps.Positions,
		audit:         deps.Audit,
		notifier:      deps.Notifier,
		artifacts:     deps.Artifacts,
		metrics:       deps.Metrics,
		validator:     deps.Validator,
		logger:        deps.Logger,
		now:           time.Now,
	}
}

// Apply validates completeness and transitions the cohort in one transaction.
func (s *BulkStatusService) Apply(ctx context.Context, actor models.Actor, req dto.BulkStatusRequest) (*dto.BulkStatusResponse, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may update result status in bulk")
	}
	req.ClassName = strings.TrimSpace(req.ClassName)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid bulk status payload")
	}
	now := s.now().UTC()
	if req.Status == models.ResultStatusScheduled {
		if req.ScheduledDate == nil {
			return nil, appErrors.FieldInvalid("scheduled_date", "is required when status is SCHEDULED")
		}
		if !req.ScheduledDate.After(now) {
			return nil, appErrors.FieldInvalid("scheduled_date", "must be in the future")
		}
	}

	year, err := s.resolveYear(ctx, req)
	if err != nil {
		return nil, err
	}
	cohort := models.Cohort{ClassName: req.ClassName, Term: req.Term, AcademicYear: year}

	students, err := s.students.ListByClass(ctx, cohort.ClassName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled students")
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no students are enrolled in "+cohort.ClassName)
	}
	classCourses, err := s.classCourses.ListActive(ctx, cohort.ClassName, cohort.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class courses")
	}
	if len(classCourses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active courses are assigned to "+cohort.ClassName+" for the "+cohort.Term.Label())
	}

	var (
		updated   int
		skipped   int
		published []models.Result
	)
	err = s.tx.WithinTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.results.LockCohort(ctx, exec, cohort); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock cohort")
		}
		results, err := s.results.ListByCohort(ctx, exec, cohort)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort results")
		}
		courseResults, err := s.courseResults.ListByCohort(ctx, exec, cohort)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort course results")
		}

		if req.Status != models.ResultStatusDraft {
			report := completeness(cohort, students, classCourses, results, courseResults)
			if report.HasGaps() {
				return appErrors.NewIncomplete(report)
			}
		}

		enrolled := make(map[string]struct{}, len(students))
		for _, st := range students {
			enrolled[st.ID] = struct{}{}
		}
		for i := range results {
			current := results[i]
			if _, ok := enrolled[current.StudentID]; !ok {
				continue
			}
			if current.Status == models.ResultStatusPublished || inTargetState(current, req) {
				skipped++
				continue
			}
			next := current
			next.Status = req.Status
			next.ScheduledDate = req.ScheduledDate
			if err := applyStatus(&current, &next, now); err != nil {
				return err
			}
			if err := s.results.UpdateStatus(ctx, exec, next.ID, next.Status, next.ScheduledDate, next.PublishedDate); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result status")
			}
			if _, err := s.audit.Record(ctx, exec, next.ID, actor.Email, bulkStatusField, statusLabel(current), statusLabel(next)); err != nil {
				return err
			}
			if next.Status == models.ResultStatusPublished {
				published = append(published, next)
			}
			updated++
		}

		_, err = s.positions.RecalculateTx(ctx, exec, cohort)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.positions.Committed(ctx, cohort)

	if s.notifier != nil {
		for _, r := range published {
			s.notifier.ResultPublished(ctx, r)
		}
	}
	if s.artifacts != nil {
		s.artifacts.RegenerateCohort(ctx, cohort)
	}
	s.metrics.RecordBulkTransition(string(req.Status), updated, skipped)
	s.logger.Info("bulk status applied",
		zap.String("cohort", cohort.String()),
		zap.String("status", string(req.Status)),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
		zap.String("actor", actor.Email),
	)

	return &dto.BulkStatusResponse{
		Message:      fmt.Sprintf("%d results updated to %s, %d skipped", updated, req.Status, skipped),
		AcademicYear: year,
		Status:       req.Status,
		UpdatedCount: updated,
		SkippedCount: skipped,
	}, nil
}

func (s *BulkStatusService) resolveYear(ctx context.Context, req dto.BulkStatusRequest) (string, error) {
	if year := strings.TrimSpace(req.AcademicYear); year != "" {
		return year, nil
	}
	year, err := s.results.LatestAcademicYear(ctx, req.ClassName, req.Term)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "no results found for "+req.ClassName+" in the "+req.Term.Label())
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve academic year")
	}
	return year, nil
}

// completeness itemises enrolled students without a result and active courses without scores.
func completeness(cohort models.Cohort, students []models.Student, classCourses []models.ClassCourse, results []models.Result, courseResults []models.CourseResult) models.CompletenessReport {
	report := models.CompletenessReport{
		ClassName:         cohort.ClassName,
		Term:              cohort.Term,
		AcademicYear:      cohort.AcademicYear,
		MissingResults:    []models.MissingResult{},
		IncompleteResults: []models.MissingCourseResult{},
	}
	byStudent := make(map[string]models.Result, len(results))
	for _, r := range results {
		byStudent[r.StudentID] = r
	}
	scored := make(map[string]map[string]struct{}, len(results))
	for _, cr := range courseResults {
		if scored[cr.ResultID] == nil {
			scored[cr.ResultID] = make(map[string]struct{})
		}
		scored[cr.ResultID][cr.ClassCourseID] = struct{}{}
	}

	for _, st := range students {
		result, ok := byStudent[st.ID]
		if !ok {
			report.MissingResults = append(report.MissingResults, models.MissingResult{
				StudentID:   st.ID,
				StudentName: st.FullName(),
				Error:       "no result for " + cohort.ClassName + " " + cohort.Term.Label(),
			})
			continue
		}
		for _, cc := range classCourses {
			if _, ok := scored[result.ID][cc.ID]; ok {
				continue
			}
			report.IncompleteResults = append(report.IncompleteResults, models.MissingCourseResult{
				ResultID:    result.ID,
				StudentID:   st.ID,
				StudentName: st.FullName(),
				CourseID:    cc.CourseID,
				CourseName:  cc.CourseName,
				Error:       "missing scores for " + cc.CourseName,
			})
		}
	}
	return report
}

func inTargetState(current models.Result, req dto.BulkStatusRequest) bool {
	if current.Status != req.Status {
		return false
	}
	if req.Status != models.ResultStatusScheduled {
		return true
	}
	return current.ScheduledDate != nil && req.ScheduledDate != nil && current.ScheduledDate.Equal(*req.ScheduledDate)
}

func statusLabel(r models.Result) string {
	if r.Status == models.ResultStatusScheduled && r.ScheduledDate != nil {
		return fmt.Sprintf("%s (%s)", r.Status, formatTime(r.ScheduledDate))
	}
	return string(r.Status)
}
