package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/internal/repository"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

type resultRepository interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error)
	FindForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error)
	LockCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) error
	Create(ctx context.Context, exec sqlx.ExtContext, result *models.Result) error
	Update(ctx context.Context, exec sqlx.ExtContext, result *models.Result) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type courseResultRepository interface {
	ListByResult(ctx context.Context, exec sqlx.ExtContext, resultID string) ([]models.CourseResult, error)
	ListByResults(ctx context.Context, exec sqlx.ExtContext, resultIDs []string) ([]models.CourseResult, error)
	Create(ctx context.Context, exec sqlx.ExtContext, item *models.CourseResult) error
	Update(ctx context.Context, exec sqlx.ExtContext, item *models.CourseResult) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type resultStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByClass(ctx context.Context, className string) ([]models.Student, error)
}

type resultClassCourseRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.ClassCourse, error)
	ListActive(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error)
}

type resultAuditor interface {
	Record(ctx context.Context, exec sqlx.ExtContext, resultID, actorEmail, field, previous, next string) (bool, error)
	RecordDiff(ctx context.Context, exec sqlx.ExtContext, resultID, actorEmail string, before, after ResultSnapshot) (int, error)
	List(ctx context.Context, resultID string) ([]models.ResultChangeLog, error)
}

type dueSweeper interface {
	SweepDue(ctx context.Context) ([]string, error)
}

type reportCardStore interface {
	artifactRegenerator
	Load(ctx context.Context, relPath string) ([]byte, error)
}

type downloadSigner interface {
	Generate(ownerID, relPath string) (string, time.Time, error)
	Parse(token string) (ownerID, relPath string, expiresAt time.Time, err error)
}

// ResultConfig tunes result links.
type ResultConfig struct {
	APIPrefix string
}

// ResultDeps groups the collaborators of ResultService.
type ResultDeps struct {
	Tx            transactor
	Results       resultRepository
	CourseResults courseResultRepository
	Students      resultStudentRepository
	ClassCourses  resultClassCourseRepository
	Sizes         cohortSizeReader
	Positions     cohortRecalculator
	Audit         resultAuditor
	Publication   dueSweeper
	Notifier      publishNotifier
	Artifacts     reportCardStore
	Signer        downloadSigner
	Validator     *validator.Validate
	Logger        *zap.Logger
	Config        ResultConfig
}

// ResultService orchestrates result mutations and reads.
type ResultService struct {
	tx            transactor
	results       resultRepository
	courseResults courseResultRepository
	students      resultStudentRepository
	classCourses  resultClassCourseRepository
	sizes         cohortSizeReader
	positions     cohortRecalculator
	audit         resultAuditor
	publication   dueSweeper
	notifier      publishNotifier
	artifacts     reportCardStore
	signer        downloadSigner
	validator     *validator.Validate
	logger        *zap.Logger
	cfg           ResultConfig
	now           func() time.Time
}

// NewResultService constructs a ResultService.
func NewResultService(deps ResultDeps) *ResultService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Config.APIPrefix == "" {
		deps.Config.APIPrefix = "/api/v1"
	}
	return &ResultService{
		tx:            deps.Tx,
		results:       deps.Results,
		courseResults: deps.CourseResults,
		students:      deps.Students,
		classCourses:  deps.ClassCourses,
		sizes:         deps.Sizes,
		positions:     deps.Positions,
		audit:         deps.Audit,
		publication:   deps.Publication,
		notifier:      deps.Notifier,
		artifacts:     deps.Artifacts,
		signer:        deps.Signer,
		validator:     deps.Validator,
		logger:        deps.Logger,
		cfg:           deps.Config,
		now:           time.Now,
	}
}

// Create validates and stores a result with its course entries, then ranks its cohort.
func (s *ResultService) Create(ctx context.Context, actor models.Actor, req dto.CreateResultRequest) (*models.Result, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may create results")
	}
	req.ClassName = strings.TrimSpace(req.ClassName)
	req.AcademicYear = strings.TrimSpace(req.AcademicYear)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid result payload")
	}
	if err := s.ensureStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	result := &models.Result{
		StudentID:      req.StudentID,
		ClassName:      req.ClassName,
		Term:           req.Term,
		AcademicYear:   req.AcademicYear,
		Status:         req.Status,
		ScheduledDate:  req.ScheduledDate,
		DaysPresent:    req.DaysPresent,
		DaysAbsent:     req.DaysAbsent,
		PromotedTo:     req.PromotedTo,
		TeacherRemarks: strings.TrimSpace(req.TeacherRemarks),
		NextTermBegins: req.NextTermBegins,
	}
	if actor.ID != "" {
		createdBy := actor.ID
		result.CreatedBy = &createdBy
	}
	if err := applyLifecycle(nil, result, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.checkCourseInputs(ctx, result.Cohort(), req.CourseResults); err != nil {
		return nil, err
	}

	cohort := result.Cohort()
	err := s.tx.WithinTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.results.LockCohort(ctx, exec, cohort); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock cohort")
		}
		if err := s.results.Create(ctx, exec, result); err != nil {
			return s.mapResultWriteError(err, "failed to create result")
		}
		for i, input := range req.CourseResults {
			item := &models.CourseResult{
				ResultID:      result.ID,
				ClassCourseID: input.ClassCourseID,
				ClassScore:    input.ClassScore,
				ExamScore:     input.ExamScore,
				Remarks:       strings.TrimSpace(input.Remarks),
			}
			if err := s.courseResults.Create(ctx, exec, item); err != nil {
				return mapCourseWriteError(err, i)
			}
		}
		_, err := s.positions.RecalculateTx(ctx, exec, cohort)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.positions.Committed(ctx, cohort)

	s.logger.Info("result created",
		zap.String("result_id", result.ID),
		zap.String("cohort", cohort.String()),
		zap.String("actor", actor.Email),
	)
	created, err := s.load(ctx, result.ID)
	if err != nil {
		return nil, err
	}
	if created.Status == models.ResultStatusPublished && s.notifier != nil {
		s.notifier.ResultPublished(ctx, *created)
	}
	applyArtifactPlan(ctx, s.artifacts, PlanArtifacts(ArtifactChange{ResultID: result.ID, Created: true}))
	return s.load(ctx, result.ID)
}

// Update applies a partial update. A non-nil course list replaces the result's course entries.
func (s *ResultService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateResultRequest) (*models.Result, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may update results")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid result payload")
	}
	current, err := s.results.FindByID(ctx, nil, id)
	if err != nil {
		return nil, s.notFound(err, "result not found")
	}
	if current.Status == models.ResultStatusPublished && !actor.IsPrincipal() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the principal may modify published results")
	}

	target := *current
	applyUpdateRequest(&target, req)
	if req.StudentID != nil && target.StudentID != current.StudentID {
		if err := s.ensureStudent(ctx, target.StudentID); err != nil {
			return nil, err
		}
	}
	if req.CourseResults != nil {
		if err := s.checkCourseInputs(ctx, target.Cohort(), *req.CourseResults); err != nil {
			return nil, err
		}
	}

	lockOrder := sortedCohorts(current.Cohort(), target.Cohort())
	var (
		before  models.Result
		next    models.Result
		changes courseChanges
		changed []string
	)
	err = s.tx.WithinTx(ctx, func(exec sqlx.ExtContext) error {
		for _, c := range lockOrder {
			if err := s.results.LockCohort(ctx, exec, c); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock cohort")
			}
		}
		locked, err := s.results.FindForUpdate(ctx, exec, id)
		if err != nil {
			return s.notFound(err, "result not found")
		}
		if locked.Cohort() != current.Cohort() {
			return appErrors.Clone(appErrors.ErrConflict, "result was moved by another request, retry the update")
		}
		before = *locked
		beforeCourses, err := s.courseResults.ListByResult(ctx, exec, id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course results")
		}

		next = before
		applyUpdateRequest(&next, req)
		if req.CourseResults == nil && len(beforeCourses) > 0 && (next.ClassName != before.ClassName || next.Term != before.Term) {
			return appErrors.FieldInvalid("course_results", "must be supplied when moving a result to another class or term")
		}
		if err := applyLifecycle(&before, &next, s.now().UTC()); err != nil {
			return err
		}
		if err := s.results.Update(ctx, exec, &next); err != nil {
			return s.mapResultWriteError(err, "failed to update result")
		}
		if req.CourseResults != nil {
			changes, err = s.replaceCourseResults(ctx, exec, id, beforeCourses, *req.CourseResults)
			if err != nil {
				return err
			}
		}

		if changes.any() || before.Cohort() != next.Cohort() {
			for _, c := range sortedCohorts(before.Cohort(), next.Cohort()) {
				ids, err := s.positions.RecalculateTx(ctx, exec, c)
				if err != nil {
					return err
				}
				changed = append(changed, ids...)
			}
		}

		afterCourses, err := s.courseResults.ListByResult(ctx, exec, id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course results")
		}
		_, err = s.audit.RecordDiff(ctx, exec, id, actor.Email, SnapshotOf(&before, beforeCourses), SnapshotOf(&next, afterCourses))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.positions.Committed(ctx, lockOrder...)

	s.logger.Info("result updated",
		zap.String("result_id", id),
		zap.String("cohort", next.Cohort().String()),
		zap.Bool("scores_changed", changes.any()),
		zap.Int("positions_changed", len(changed)),
		zap.String("actor", actor.Email),
	)

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Status != models.ResultStatusPublished && updated.Status == models.ResultStatusPublished && s.notifier != nil {
		s.notifier.ResultPublished(ctx, *updated)
	}
	change := ArtifactChange{
		ResultID:           id,
		StatusChanged:      before.Status != next.Status,
		SignificantChanged: significantChange(before, next),
		ScoresChanged:      changes.any(),
		Status:             next.Status,
		HasArtifact:        before.HasReportCard(),
		Cohort:             next.Cohort(),
	}
	if before.Cohort() != next.Cohort() {
		previous := before.Cohort()
		change.PreviousCohort = &previous
	}
	plan := PlanArtifacts(change)
	if plan.Empty() {
		return updated, nil
	}
	applyArtifactPlan(ctx, s.artifacts, plan)
	return s.load(ctx, id)
}

// Delete removes a result and re-ranks its cohort in the same transaction.
func (s *ResultService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsPrincipal() {
		return appErrors.Clone(appErrors.ErrForbidden, "only the principal may delete results")
	}
	current, err := s.results.FindByID(ctx, nil, id)
	if err != nil {
		return s.notFound(err, "result not found")
	}
	cohort := current.Cohort()

	var changed []string
	err = s.tx.WithinTx(ctx, func(exec sqlx.ExtContext) error {
		if err := s.results.LockCohort(ctx, exec, cohort); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock cohort")
		}
		locked, err := s.results.FindForUpdate(ctx, exec, id)
		if err != nil {
			return s.notFound(err, "result not found")
		}
		if locked.Cohort() != cohort {
			return appErrors.Clone(appErrors.ErrConflict, "result was moved by another request, retry the delete")
		}
		if err := s.results.Delete(ctx, exec, id); err != nil {
			return s.notFound(err, "result not found")
		}
		if _, err := s.audit.Record(ctx, exec, id, actor.Email, "result", "Present", "Deleted"); err != nil {
			return err
		}
		changed, err = s.positions.RecalculateTx(ctx, exec, cohort)
		return err
	})
	if err != nil {
		return err
	}
	s.positions.Committed(ctx, cohort)
	s.logger.Info("result deleted",
		zap.String("result_id", id),
		zap.String("cohort", cohort.String()),
		zap.String("actor", actor.Email),
	)
	if s.artifacts != nil && len(changed) > 0 {
		s.artifacts.RegenerateMany(ctx, changed)
	}
	return nil
}

// RecalculatePositions re-ranks a cohort and regenerates the report cards whose positions moved.
func (s *ResultService) RecalculatePositions(ctx context.Context, actor models.Actor, req dto.CohortRequest) (*dto.RecalculateResponse, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may recalculate positions")
	}
	req.ClassName = strings.TrimSpace(req.ClassName)
	req.AcademicYear = strings.TrimSpace(req.AcademicYear)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid cohort")
	}
	cohort := models.Cohort{ClassName: req.ClassName, Term: req.Term, AcademicYear: req.AcademicYear}

	var changed []string
	err := s.tx.WithinTx(ctx, func(exec sqlx.ExtContext) error {
		var err error
		changed, err = s.positions.RecalculateTx(ctx, exec, cohort)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.positions.Committed(ctx, cohort)
	if s.artifacts != nil && len(changed) > 0 {
		s.artifacts.RegenerateMany(ctx, changed)
	}
	if changed == nil {
		changed = []string{}
	}
	return &dto.RecalculateResponse{ChangedResultIDs: changed, ChangedCount: len(changed)}, nil
}

// List returns a filtered page of results for staff.
func (s *ResultService) List(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error) {
	if !actor.IsStaff() {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may list results")
	}
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, nil, err
	}
	return s.list(ctx, filter)
}

// Get returns one result. Students may only read their own published results.
func (s *ResultService) Get(ctx context.Context, actor models.Actor, id string) (*models.Result, error) {
	s.sweep(ctx)
	result, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && (result.StudentID != actor.ID || result.Status != models.ResultStatusPublished) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	return result, nil
}

// StudentResults lists a student's results, defaulting to the student's current class.
func (s *ResultService) StudentResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error) {
	if !actor.IsStaff() {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may view student results")
	}
	if strings.TrimSpace(query.StudentID) == "" {
		return nil, nil, appErrors.FieldInvalid("student_id", "is required")
	}
	student, err := s.students.FindByID(ctx, query.StudentID)
	if err != nil {
		return nil, nil, s.notFound(err, "student not found")
	}
	if strings.TrimSpace(query.ClassName) == "" {
		query.ClassName = student.CurrentClass()
	}
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, nil, err
	}
	return s.list(ctx, filter)
}

// ClassResults lists results of students currently enrolled in a class.
func (s *ResultService) ClassResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error) {
	if !actor.IsStaff() {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may view class results")
	}
	if strings.TrimSpace(query.ClassName) == "" {
		return nil, nil, appErrors.FieldInvalid("class_name", "is required")
	}
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, nil, err
	}
	filter.EnrolledOnly = true
	return s.list(ctx, filter)
}

// MyResults lists the acting student's published results.
func (s *ResultService) MyResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error) {
	if actor.Role != models.RoleStudent {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only students have personal results")
	}
	filter, err := filterFromQuery(dto.ResultQuery{
		ClassName: query.ClassName,
		Term:      query.Term,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		return nil, nil, err
	}
	filter.StudentID = actor.ID
	filter.Status = models.ResultStatusPublished
	return s.list(ctx, filter)
}

// CurrentClassResults lists the acting student's published results for the class they are in now.
func (s *ResultService) CurrentClassResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error) {
	if actor.Role != models.RoleStudent {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only students have personal results")
	}
	student, err := s.students.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, nil, s.notFound(err, "student not found")
	}
	if student.CurrentClass() == "" {
		return []models.Result{}, &models.Pagination{Page: 1, PageSize: 0, TotalCount: 0}, nil
	}
	query.ClassName = student.CurrentClass()
	return s.MyResults(ctx, actor, query)
}

// PreviousClassResults lists the acting student's published results from classes they have left.
func (s *ResultService) PreviousClassResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error) {
	if actor.Role != models.RoleStudent {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only students have personal results")
	}
	student, err := s.students.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, nil, s.notFound(err, "student not found")
	}
	filter, err := filterFromQuery(dto.ResultQuery{
		Term:      query.Term,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		return nil, nil, err
	}
	filter.StudentID = actor.ID
	filter.Status = models.ResultStatusPublished
	filter.ExcludeClass = student.CurrentClass()
	return s.list(ctx, filter)
}

// ChangeLog returns a result's audit entries newest first. Entries outlive deleted results.
func (s *ResultService) ChangeLog(ctx context.Context, actor models.Actor, id string) ([]models.ResultChangeLog, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may view change logs")
	}
	entries, err := s.audit.List(ctx, id)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ResultChangeLog{}
	}
	return entries, nil
}

// AvailableCourses lists the active courses of a class and term.
func (s *ResultService) AvailableCourses(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error) {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil, appErrors.FieldInvalid("class_name", "is required")
	}
	if !term.Valid() {
		return nil, appErrors.FieldInvalid("term", "must be one of: first second third")
	}
	courses, err := s.classCourses.ListActive(ctx, className, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class courses")
	}
	if courses == nil {
		courses = []models.ClassCourse{}
	}
	return courses, nil
}

// StudentsByClass lists the students currently enrolled in a class.
func (s *ResultService) StudentsByClass(ctx context.Context, className string) ([]models.Student, error) {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil, appErrors.FieldInvalid("class_name", "is required")
	}
	students, err := s.students.ListByClass(ctx, className)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// ReportCardLink returns a signed download link, rendering the report card first when missing.
func (s *ResultService) ReportCardLink(ctx context.Context, actor models.Actor, id string) (*dto.ReportCardLink, error) {
	result, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !result.HasReportCard() && s.artifacts != nil && s.artifacts.Regenerate(ctx, id) {
		if result, err = s.load(ctx, id); err != nil {
			return nil, err
		}
	}
	if !result.HasReportCard() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report card is not available yet")
	}
	token, expiresAt, err := s.signer.Generate(result.ID, *result.ReportCardPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign report card link")
	}
	return &dto.ReportCardLink{
		ResultID:  result.ID,
		URL:       fmt.Sprintf("%s/report-cards/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ReportCardDownload resolves a signed token into the stored report card.
func (s *ResultService) ReportCardDownload(ctx context.Context, token string) (*dto.FileDownload, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "download link is invalid or expired")
	}
	data, err := s.artifacts.Load(ctx, relPath)
	if err != nil {
		s.logger.Warn("report card missing from storage", zap.String("path", relPath), zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report card not found")
	}
	return &dto.FileDownload{Filename: path.Base(relPath), ContentType: "application/pdf", Data: data}, nil
}

func (s *ResultService) sweep(ctx context.Context) {
	if s.publication == nil {
		return
	}
	if _, err := s.publication.SweepDue(ctx); err != nil {
		s.logger.Error("scheduled publication sweep failed", zap.Error(err))
	}
}

func (s *ResultService) list(ctx context.Context, filter models.ResultFilter) ([]models.Result, *models.Pagination, error) {
	s.sweep(ctx)
	results, total, err := s.results.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	if err := s.decorateAll(ctx, results); err != nil {
		return nil, nil, err
	}
	if results == nil {
		results = []models.Result{}
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return results, pagination, nil
}

func (s *ResultService) load(ctx context.Context, id string) (*models.Result, error) {
	result, err := s.results.FindByID(ctx, nil, id)
	if err != nil {
		return nil, s.notFound(err, "result not found")
	}
	courses, err := s.courseResults.ListByResult(ctx, nil, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course results")
	}
	size, err := s.sizes.Get(ctx, result.Cohort())
	if err != nil {
		return nil, err
	}
	decorate(result, courses, size)
	return result, nil
}

func (s *ResultService) decorateAll(ctx context.Context, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	courses, err := s.courseResults.ListByResults(ctx, nil, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course results")
	}
	grouped := groupCourseResults(courses)
	sizes := make(map[models.Cohort]int)
	for i := range results {
		cohort := results[i].Cohort()
		size, ok := sizes[cohort]
		if !ok {
			if size, err = s.sizes.Get(ctx, cohort); err != nil {
				return err
			}
			sizes[cohort] = size
		}
		decorate(&results[i], grouped[results[i].ID], size)
	}
	return nil
}

func (s *ResultService) ensureStudent(ctx context.Context, studentID string) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.FieldInvalid("student_id", "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return nil
}

// checkCourseInputs requires every course entry to reference a distinct class course of the cohort.
func (s *ResultService) checkCourseInputs(ctx context.Context, cohort models.Cohort, inputs []dto.CourseResultInput) error {
	if len(inputs) == 0 {
		return nil
	}
	seen := make(map[string]int, len(inputs))
	ids := make([]string, 0, len(inputs))
	for i, input := range inputs {
		if first, ok := seen[input.ClassCourseID]; ok {
			return appErrors.FieldInvalid(courseField(i), fmt.Sprintf("duplicates course_results[%d]", first))
		}
		seen[input.ClassCourseID] = i
		ids = append(ids, input.ClassCourseID)
	}
	found, err := s.classCourses.FindByIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class courses")
	}
	byID := make(map[string]models.ClassCourse, len(found))
	for _, cc := range found {
		byID[cc.ID] = cc
	}
	for i, input := range inputs {
		cc, ok := byID[input.ClassCourseID]
		switch {
		case !ok:
			return appErrors.FieldInvalid(courseField(i), "class course not found")
		case cc.ClassName != cohort.ClassName || cc.Term != cohort.Term:
			return appErrors.FieldInvalid(courseField(i), fmt.Sprintf("course is assigned to %s %s, not %s %s", cc.ClassName, cc.Term.Label(), cohort.ClassName, cohort.Term.Label()))
		}
	}
	return nil
}

type courseChanges struct {
	created int
	updated int
	deleted int
}

func (c courseChanges) any() bool {
	return c.created+c.updated+c.deleted > 0
}

func (s *ResultService) replaceCourseResults(ctx context.Context, exec sqlx.ExtContext, resultID string, existing []models.CourseResult, inputs []dto.CourseResultInput) (courseChanges, error) {
	var changes courseChanges
	byClassCourse := make(map[string]models.CourseResult, len(existing))
	for _, cr := range existing {
		byClassCourse[cr.ClassCourseID] = cr
	}
	kept := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		kept[input.ClassCourseID] = struct{}{}
		remarks := strings.TrimSpace(input.Remarks)
		cur, ok := byClassCourse[input.ClassCourseID]
		if !ok {
			item := &models.CourseResult{
				ResultID:      resultID,
				ClassCourseID: input.ClassCourseID,
				ClassScore:    input.ClassScore,
				ExamScore:     input.ExamScore,
				Remarks:       remarks,
			}
			if err := s.courseResults.Create(ctx, exec, item); err != nil {
				return changes, mapCourseWriteError(err, i)
			}
			changes.created++
			continue
		}
		if cur.ClassScore == input.ClassScore && cur.ExamScore == input.ExamScore && cur.Remarks == remarks {
			continue
		}
		cur.ClassScore = input.ClassScore
		cur.ExamScore = input.ExamScore
		cur.Remarks = remarks
		if err := s.courseResults.Update(ctx, exec, &cur); err != nil {
			return changes, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course result")
		}
		changes.updated++
	}
	for _, cr := range existing {
		if _, ok := kept[cr.ClassCourseID]; ok {
			continue
		}
		if err := s.courseResults.Delete(ctx, exec, cr.ID); err != nil {
			return changes, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course result")
		}
		changes.deleted++
	}
	return changes, nil
}

func (s *ResultService) mapResultWriteError(err error, message string) error {
	if repository.IsUniqueViolation(err) {
		return appErrors.FieldInvalid("student_id", "a result already exists for this student, class, term and academic year")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *ResultService) notFound(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func mapCourseWriteError(err error, index int) error {
	if repository.IsUniqueViolation(err) {
		return appErrors.FieldInvalid(courseField(index), "course already has scores in this result")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store course result")
}

func courseField(index int) string {
	return fmt.Sprintf("course_results[%d].class_course_id", index)
}

func applyUpdateRequest(result *models.Result, req dto.UpdateResultRequest) {
	if req.StudentID != nil {
		result.StudentID = strings.TrimSpace(*req.StudentID)
	}
	if req.ClassName != nil {
		result.ClassName = strings.TrimSpace(*req.ClassName)
	}
	if req.Term != nil {
		result.Term = *req.Term
	}
	if req.AcademicYear != nil {
		result.AcademicYear = strings.TrimSpace(*req.AcademicYear)
	}
	if req.Status != nil {
		result.Status = *req.Status
	}
	if req.ScheduledDate != nil {
		result.ScheduledDate = req.ScheduledDate
	}
	if req.DaysPresent != nil {
		result.DaysPresent = *req.DaysPresent
	}
	if req.DaysAbsent != nil {
		result.DaysAbsent = *req.DaysAbsent
	}
	if req.PromotedTo != nil {
		result.PromotedTo = req.PromotedTo
	}
	if req.TeacherRemarks != nil {
		result.TeacherRemarks = strings.TrimSpace(*req.TeacherRemarks)
	}
	if req.NextTermBegins != nil {
		result.NextTermBegins = req.NextTermBegins
	}
}

// significantChange reports changes that alter the printed report card.
func significantChange(before, after models.Result) bool {
	return before.StudentID != after.StudentID ||
		before.Cohort() != after.Cohort() ||
		before.DaysPresent != after.DaysPresent ||
		before.DaysAbsent != after.DaysAbsent ||
		before.Promotion() != after.Promotion() ||
		before.TeacherRemarks != after.TeacherRemarks
}

// sortedCohorts returns the distinct cohorts in lock order.
func sortedCohorts(cohorts ...models.Cohort) []models.Cohort {
	seen := make(map[models.Cohort]struct{}, len(cohorts))
	out := make([]models.Cohort, 0, len(cohorts))
	for _, c := range cohorts {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func filterFromQuery(query dto.ResultQuery) (models.ResultFilter, error) {
	filter := models.ResultFilter{
		StudentID:    strings.TrimSpace(query.StudentID),
		ClassName:    strings.TrimSpace(query.ClassName),
		Term:         models.Term(strings.TrimSpace(query.Term)),
		AcademicYear: strings.TrimSpace(query.AcademicYear),
		Status:       models.ResultStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		Page:         query.Page,
		PageSize:     query.PageSize,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
	}
	if filter.Term != "" && !filter.Term.Valid() {
		return filter, appErrors.FieldInvalid("term", "must be one of: first second third")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, appErrors.FieldInvalid("status", "must be one of: DRAFT SCHEDULED PUBLISHED")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return filter, nil
}
