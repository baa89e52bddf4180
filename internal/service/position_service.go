package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/internal/scoring"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

// transactor runs fn inside one database transaction.
type transactor interface {
	WithinTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error
}

type positionResultRepository interface {
	LockCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) error
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.Result, error)
	UpdatePosition(ctx context.Context, exec sqlx.ExtContext, id string, position *int) error
}

type positionCourseResultRepository interface {
	ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.CourseResult, error)
	UpdatePosition(ctx context.Context, exec sqlx.ExtContext, id string, position *int) error
}

type cohortSizeUpdater interface {
	UpdateTx(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error)
}

type rankingInvalidator interface {
	InvalidateCohorts(ctx context.Context, cohorts ...models.Cohort)
}

// PositionService ranks every result and course entry of a cohort.
type PositionService struct {
	tx            transactor
	results       positionResultRepository
	courseResults positionCourseResultRepository
	sizes         cohortSizeUpdater
	cache         rankingInvalidator
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewPositionService constructs a PositionService.
func NewPositionService(tx transactor, results positionResultRepository, courseResults positionCourseResultRepository, sizes cohortSizeUpdater, cache rankingInvalidator, metrics *MetricsService, logger *zap.Logger) *PositionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionService{tx: tx, results: results, courseResults: courseResults, sizes: sizes, cache: cache, metrics: metrics, logger: logger}
}

// Recalculate ranks a cohort in its own transaction and returns the IDs of results whose
// overall or course positions changed.
func (s *PositionService) Recalculate(ctx context.Context, cohort models.Cohort) ([]string, error) {
	var changed []string
	err := s.tx.WithinTx(ctx, func(exec sqlx.ExtContext) error {
		var err error
		changed, err = s.RecalculateTx(ctx, exec, cohort)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Committed(ctx, cohort)
	return changed, nil
}

// Committed must be called once the caller's transaction containing RecalculateTx commits.
func (s *PositionService) Committed(ctx context.Context, cohorts ...models.Cohort) {
	if s.cache != nil {
		s.cache.InvalidateCohorts(ctx, cohorts...)
	}
}

// RecalculateTx ranks a cohort inside the caller's transaction.
func (s *PositionService) RecalculateTx(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]string, error) {
	start := time.Now()

	if err := s.results.LockCohort(ctx, exec, cohort); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock cohort")
	}
	size, err := s.sizes.UpdateTx(ctx, exec, cohort)
	if err != nil {
		return nil, err
	}
	results, err := s.results.ListByCohort(ctx, exec, cohort)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort results")
	}
	if len(results) == 0 {
		return []string{}, nil
	}
	courseResults, err := s.courseResults.ListByCohort(ctx, exec, cohort)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort course results")
	}

	changed := make(map[string]struct{})

	totalsByResult := make(map[string][]float64, len(results))
	byClassCourse := make(map[string][]models.CourseResult)
	for _, cr := range courseResults {
		totalsByResult[cr.ResultID] = append(totalsByResult[cr.ResultID], scoring.TotalScore(cr.ClassScore, cr.ExamScore))
		byClassCourse[cr.ClassCourseID] = append(byClassCourse[cr.ClassCourseID], cr)
	}

	entries := make([]scoring.Entry, 0, len(results))
	for _, r := range results {
		totals := totalsByResult[r.ID]
		entries = append(entries, scoring.Entry{ID: r.ID, Key: scoring.Key{Primary: scoring.ResultTotal(totals), Secondary: scoring.ResultAverage(totals)}})
	}
	overall := scoring.CompetitionRank(entries)
	for _, r := range results {
		rank := overall[r.ID]
		if !scoring.ValidPosition(rank, size) {
			return nil, appErrors.FieldInvalid("overall_position", fmt.Sprintf("position %d exceeds cohort size %d", rank, size))
		}
		if samePosition(r.OverallPosition, rank) {
			continue
		}
		if err := s.results.UpdatePosition(ctx, exec, r.ID, &rank); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store overall position")
		}
		changed[r.ID] = struct{}{}
	}

	for _, items := range byClassCourse {
		courseEntries := make([]scoring.Entry, 0, len(items))
		for _, cr := range items {
			courseEntries = append(courseEntries, scoring.Entry{ID: cr.ID, Key: scoring.Key{Primary: scoring.TotalScore(cr.ClassScore, cr.ExamScore)}})
		}
		ranks := scoring.CompetitionRank(courseEntries)
		for _, cr := range items {
			rank := ranks[cr.ID]
			if !scoring.ValidPosition(rank, size) {
				return nil, appErrors.FieldInvalid("position", fmt.Sprintf("course position %d exceeds cohort size %d", rank, size))
			}
			if samePosition(cr.Position, rank) {
				continue
			}
			if err := s.courseResults.UpdatePosition(ctx, exec, cr.ID, &rank); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store course position")
			}
			changed[cr.ResultID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(changed))
	for id := range changed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.metrics.ObserveRecalculation(time.Since(start), len(ids))
	s.logger.Debug("cohort positions recalculated",
		zap.String("cohort", cohort.String()),
		zap.Int("cohort_size", size),
		zap.Int("changed", len(ids)),
	)
	return ids, nil
}

func samePosition(stored *int, rank int) bool {
	return stored != nil && *stored == rank
}
