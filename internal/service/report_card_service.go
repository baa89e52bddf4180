package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/pkg/export"
)

const defaultRenderTimeout = 30 * time.Second

type reportCardResultRepository interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error)
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.Result, error)
	SetReportCard(ctx context.Context, id, path string) error
}

type reportCardCourseRepository interface {
	ListByResult(ctx context.Context, exec sqlx.ExtContext, resultID string) ([]models.CourseResult, error)
}

type cohortSizeReader interface {
	Get(ctx context.Context, cohort models.Cohort) (int, error)
}

type reportCardRenderer interface {
	Render(card export.ReportCard) ([]byte, error)
}

type artifactStorage interface {
	Save(relPath string, data []byte) (string, error)
	Read(relPath string) ([]byte, error)
}

// ReportCardConfig tunes report card rendering.
type ReportCardConfig struct {
	SchoolName    string
	RenderTimeout time.Duration
}

// ReportCardService renders and stores report cards. Failures never propagate to callers.
type ReportCardService struct {
	results  reportCardResultRepository
	courses  reportCardCourseRepository
	sizes    cohortSizeReader
	renderer reportCardRenderer
	storage  artifactStorage
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ReportCardConfig
	now      func() time.Time
}

// NewReportCardService constructs a ReportCardService.
func NewReportCardService(results reportCardResultRepository, courses reportCardCourseRepository, sizes cohortSizeReader, renderer reportCardRenderer, storage artifactStorage, metrics *MetricsService, cfg ReportCardConfig, logger *zap.Logger) *ReportCardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewReportCardRenderer()
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = defaultRenderTimeout
	}
	return &ReportCardService{
		results:  results,
		courses:  courses,
		sizes:    sizes,
		renderer: renderer,
		storage:  storage,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Regenerate renders the current state of a result and stores the artifact reference.
func (s *ReportCardService) Regenerate(ctx context.Context, resultID string) bool {
	logger := s.logger.With(zap.String("result_id", resultID))

	card, err := s.buildCard(ctx, resultID)
	if err != nil {
		s.metrics.RecordReportCard(OutcomeFailure)
		logger.Error("failed to load report card data", zap.Error(err))
		return false
	}
	data, err := s.render(ctx, card)
	if err != nil {
		outcome := OutcomeFailure
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeTimeout
		}
		s.metrics.RecordReportCard(outcome)
		logger.Error("failed to render report card", zap.String("outcome", outcome), zap.Error(err))
		return false
	}
	relPath, err := s.storage.Save(ReportCardPath(card.result), data)
	if err != nil {
		s.metrics.RecordReportCard(OutcomeFailure)
		logger.Error("failed to store report card", zap.Error(err))
		return false
	}
	if err := s.results.SetReportCard(ctx, resultID, relPath); err != nil {
		s.metrics.RecordReportCard(OutcomeFailure)
		logger.Error("failed to record report card path", zap.Error(err))
		return false
	}
	s.metrics.RecordReportCard(OutcomeSuccess)
	logger.Debug("report card generated", zap.String("path", relPath))
	return true
}

// RegenerateMany renders each result independently and returns the number of failures.
func (s *ReportCardService) RegenerateMany(ctx context.Context, ids []string) int {
	failed := 0
	for _, id := range ids {
		if !s.Regenerate(ctx, id) {
			failed++
		}
	}
	return failed
}

// RegenerateCohort renders every result in a cohort and returns the number of failures.
func (s *ReportCardService) RegenerateCohort(ctx context.Context, cohort models.Cohort) int {
	results, err := s.results.ListByCohort(ctx, nil, cohort)
	if err != nil {
		s.logger.Error("failed to list cohort for report cards", zap.String("cohort", cohort.String()), zap.Error(err))
		return 0
	}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	failed := s.RegenerateMany(ctx, ids)
	s.logger.Info("cohort report cards regenerated",
		zap.String("cohort", cohort.String()),
		zap.Int("total", len(ids)),
		zap.Int("failed", failed),
	)
	return failed
}

// Load reads a stored report card.
func (s *ReportCardService) Load(ctx context.Context, relPath string) ([]byte, error) {
	return s.storage.Read(relPath)
}

type reportCardData struct {
	export.ReportCard
	result models.Result
}

func (s *ReportCardService) buildCard(ctx context.Context, resultID string) (reportCardData, error) {
	result, err := s.results.FindByID(ctx, nil, resultID)
	if err != nil {
		return reportCardData{}, fmt.Errorf("load result: %w", err)
	}
	courses, err := s.courses.ListByResult(ctx, nil, resultID)
	if err != nil {
		return reportCardData{}, fmt.Errorf("load course results: %w", err)
	}
	size, err := s.sizes.Get(ctx, result.Cohort())
	if err != nil {
		return reportCardData{}, fmt.Errorf("load cohort size: %w", err)
	}
	decorate(result, courses, size)

	card := export.ReportCard{
		SchoolName:     s.cfg.SchoolName,
		StudentName:    result.StudentName,
		StudentEmail:   result.StudentEmail,
		ClassName:      result.ClassName,
		Term:           string(result.Term),
		AcademicYear:   result.AcademicYear,
		Status:         string(result.Status),
		Published:      result.Status == models.ResultStatusPublished,
		TotalScore:     result.TotalScore,
		AverageScore:   result.AverageScore,
		Position:       result.PositionContext,
		CohortSize:     result.CohortSize,
		DaysPresent:    result.DaysPresent,
		DaysAbsent:     result.DaysAbsent,
		AttendanceRate: result.AttendancePercentage,
		TeacherRemarks: result.TeacherRemarks,
		PromotedTo:     result.Promotion(),
		NextTermBegins: result.NextTermBegins,
		GeneratedAt:    s.now().UTC(),
	}
	if card.StudentName == "" {
		card.StudentName = result.StudentID
	}
	for _, cr := range result.CourseResults {
		card.Courses = append(card.Courses, export.ReportCardCourse{
			Name:       cr.CourseName,
			ClassScore: cr.ClassScore,
			ExamScore:  cr.ExamScore,
			Total:      cr.TotalScore,
			Grade:      cr.Grade,
			Position:   cr.PositionContext,
			Remarks:    cr.Remarks,
		})
	}
	return reportCardData{ReportCard: card, result: *result}, nil
}

func (s *ReportCardService) render(ctx context.Context, card reportCardData) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RenderTimeout)
	defer cancel()

	type outcome struct {
		data []byte
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("renderer panicked: %v", r)}
			}
		}()
		data, err := s.renderer.Render(card.ReportCard)
		done <- outcome{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.data, out.err
	}
}

// ReportCardPath is the storage location of a result's report card.
func ReportCardPath(result models.Result) string {
	return path.Join("report_cards",
		pathSegment(result.AcademicYear),
		pathSegment(result.ClassName),
		pathSegment(string(result.Term)),
		pathSegment(result.ID)+".pdf",
	)
}

func pathSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	return replacer.Replace(raw)
}

// ArtifactChange describes what a committed mutation changed.
type ArtifactChange struct {
	ResultID           string
	Created            bool
	StatusChanged      bool
	SignificantChanged bool
	ScoresChanged      bool
	Status             models.ResultStatus
	HasArtifact        bool
	Cohort             models.Cohort
	PreviousCohort     *models.Cohort
}

// ArtifactPlan lists the single results and whole cohorts to regenerate.
type ArtifactPlan struct {
	Results []string
	Cohorts []models.Cohort
}

// Empty reports whether nothing needs rendering.
func (p ArtifactPlan) Empty() bool {
	return len(p.Results) == 0 && len(p.Cohorts) == 0
}

// PlanArtifacts applies the report card trigger policy to a change.
func PlanArtifacts(change ArtifactChange) ArtifactPlan {
	var plan ArtifactPlan
	if change.Created {
		plan.Results = []string{change.ResultID}
		return plan
	}

	locationChanged := change.PreviousCohort != nil && *change.PreviousCohort != change.Cohort
	if change.ScoresChanged || locationChanged {
		plan.Cohorts = append(plan.Cohorts, change.Cohort)
	}
	if locationChanged {
		plan.Cohorts = append(plan.Cohorts, *change.PreviousCohort)
	}
	if len(plan.Cohorts) > 0 {
		// the result belongs to its current cohort, which is already covered
		return plan
	}

	missing := change.Status == models.ResultStatusPublished && !change.HasArtifact
	if change.StatusChanged || change.SignificantChanged || missing {
		plan.Results = []string{change.ResultID}
	}
	return plan
}

type artifactRegenerator interface {
	Regenerate(ctx context.Context, resultID string) bool
	RegenerateMany(ctx context.Context, ids []string) int
	RegenerateCohort(ctx context.Context, cohort models.Cohort) int
}

func applyArtifactPlan(ctx context.Context, artifacts artifactRegenerator, plan ArtifactPlan) {
	if artifacts == nil {
		return
	}
	for _, cohort := range plan.Cohorts {
		artifacts.RegenerateCohort(ctx, cohort)
	}
	artifacts.RegenerateMany(ctx, plan.Results)
}
