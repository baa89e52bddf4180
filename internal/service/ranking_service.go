package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/internal/scoring"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
	"github.com/noah-isme/sma-results-api/pkg/export"
)

type rankingResultRepository interface {
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.Result, error)
}

type rankingCourseResultRepository interface {
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.CourseResult, error)
}

type rankingCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

// RankingService builds the ordered class ranking and broadsheet exports.
type RankingService struct {
	results       rankingResultRepository
	courseResults rankingCourseResultRepository
	sizes         cohortSizeReader
	publication   dueSweeper
	cache         rankingCache
	validator     *validator.Validate
	logger        *zap.Logger
	cacheTTL      time.Duration
	now           func() time.Time
}

// NewRankingService constructs a RankingService.
func NewRankingService(results rankingResultRepository, courseResults rankingCourseResultRepository, sizes cohortSizeReader, publication dueSweeper, cache rankingCache, cacheTTL time.Duration, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{
		results:       results,
		courseResults: courseResults,
		sizes:         sizes,
		publication:   publication,
		cache:         cache,
		validator:     NewValidator(),
		logger:        logger,
		cacheTTL:      cacheTTL,
		now:           time.Now,
	}
}

// ClassRanking returns a cohort ordered by overall position and whether it was served from cache.
func (s *RankingService) ClassRanking(ctx context.Context, req dto.CohortRequest) (*models.ClassRanking, bool, error) {
	cohort, err := s.cohort(req)
	if err != nil {
		return nil, false, err
	}
	s.sweep(ctx)

	key := RankingKey(cohort)
	var cached models.ClassRanking
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	ranking, _, err := s.build(ctx, cohort)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, ranking, s.cacheTTL)
	}
	return ranking, false, nil
}

// ExportBroadsheet renders the cohort ranking with per-course totals.
func (s *RankingService) ExportBroadsheet(ctx context.Context, req dto.ExportRequest) (*dto.FileDownload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid export request")
	}
	cohort, err := s.cohort(req.CohortRequest)
	if err != nil {
		return nil, err
	}
	renderer, err := export.RendererFor(export.Format(strings.ToLower(req.Format)))
	if err != nil {
		return nil, appErrors.FieldInvalid("format", err.Error())
	}
	s.sweep(ctx)
	ranking, results, err := s.build(ctx, cohort)
	if err != nil {
		return nil, err
	}

	courseNames := broadsheetCourses(results)
	headers := append([]string{"Position", "Student"}, courseNames...)
	headers = append(headers, "Total", "Average")

	byResult := make(map[string]models.Result, len(results))
	for _, r := range results {
		byResult[r.ID] = r
	}
	rows := make([]map[string]string, 0, len(ranking.Entries))
	for _, entry := range ranking.Entries {
		row := map[string]string{
			"Position": positionCell(entry.Position),
			"Student":  entry.StudentName,
			"Total":    strconv.FormatFloat(entry.TotalScore, 'f', 2, 64),
			"Average":  strconv.FormatFloat(entry.AverageScore, 'f', 2, 64),
		}
		for _, cr := range byResult[entry.ResultID].CourseResults {
			row[cr.CourseName] = strconv.FormatFloat(cr.TotalScore, 'f', 2, 64)
		}
		rows = append(rows, row)
	}

	data, err := renderer.Render(export.Table{
		Title:    fmt.Sprintf("%s Broadsheet", cohort.ClassName),
		Subtitle: fmt.Sprintf("%s, %s (%d students)", cohort.Term.Label(), cohort.AcademicYear, ranking.CohortSize),
		Headers:  headers,
		Rows:     rows,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render broadsheet")
	}
	filename := fmt.Sprintf("broadsheet_%s_%s_%s.%s", pathSegment(cohort.ClassName), cohort.Term, pathSegment(cohort.AcademicYear), renderer.Extension())
	return &dto.FileDownload{Filename: filename, ContentType: renderer.ContentType(), Data: data}, nil
}

// sweep publishes due results before a cohort read; failures leave the read untouched.
func (s *RankingService) sweep(ctx context.Context) {
	if s.publication == nil {
		return
	}
	if _, err := s.publication.SweepDue(ctx); err != nil {
		s.logger.Error("scheduled publication sweep failed", zap.Error(err))
	}
}

func (s *RankingService) cohort(req dto.CohortRequest) (models.Cohort, error) {
	req.ClassName = strings.TrimSpace(req.ClassName)
	req.AcademicYear = strings.TrimSpace(req.AcademicYear)
	if err := s.validator.Struct(req); err != nil {
		return models.Cohort{}, validationError(err, "invalid cohort")
	}
	return models.Cohort{ClassName: req.ClassName, Term: req.Term, AcademicYear: req.AcademicYear}, nil
}

func (s *RankingService) build(ctx context.Context, cohort models.Cohort) (*models.ClassRanking, []models.Result, error) {
	results, err := s.results.ListByCohort(ctx, nil, cohort)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort results")
	}
	courses, err := s.courseResults.ListByCohort(ctx, nil, cohort)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort course results")
	}
	size, err := s.sizes.Get(ctx, cohort)
	if err != nil {
		return nil, nil, err
	}

	grouped := groupCourseResults(courses)
	entries := make([]models.RankingEntry, 0, len(results))
	for i := range results {
		r := &results[i]
		decorate(r, grouped[r.ID], size)
		entries = append(entries, models.RankingEntry{
			ResultID:        r.ID,
			StudentID:       r.StudentID,
			StudentName:     r.StudentName,
			Position:        r.OverallPosition,
			PositionContext: r.PositionContext,
			TotalScore:      r.TotalScore,
			AverageScore:    r.AverageScore,
			Grade:           scoring.Grade(r.AverageScore),
			Status:          r.Status,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Position, entries[j].Position
		switch {
		case a == nil && b == nil:
			return entries[i].StudentName < entries[j].StudentName
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		}
		return entries[i].StudentName < entries[j].StudentName
	})

	return &models.ClassRanking{
		Cohort:      cohort,
		CohortSize:  size,
		Entries:     entries,
		GeneratedAt: s.now().UTC(),
	}, results, nil
}

func broadsheetCourses(results []models.Result) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range results {
		for _, cr := range r.CourseResults {
			if _, ok := seen[cr.CourseName]; ok {
				continue
			}
			seen[cr.CourseName] = struct{}{}
			names = append(names, cr.CourseName)
		}
	}
	sort.Strings(names)
	return names
}

func positionCell(position *int) string {
	if position == nil {
		return "-"
	}
	return scoring.Ordinal(*position)
}
