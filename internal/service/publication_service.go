package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

type publicationRepository interface {
	PublishDue(ctx context.Context, now time.Time) ([]string, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error)
}

type auditRecorder interface {
	Record(ctx context.Context, exec sqlx.ExtContext, resultID, actorEmail, field, previous, next string) (bool, error)
}

type publishNotifier interface {
	ResultPublished(ctx context.Context, result models.Result)
}

// PublicationService realises scheduled publication lazily on the read path.
type PublicationService struct {
	results   publicationRepository
	audit     auditRecorder
	notifier  publishNotifier
	artifacts artifactRegenerator
	cache     rankingInvalidator
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewPublicationService constructs a PublicationService.
func NewPublicationService(results publicationRepository, audit auditRecorder, notifier publishNotifier, artifacts artifactRegenerator, cache rankingInvalidator, metrics *MetricsService, logger *zap.Logger) *PublicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicationService{
		results:   results,
		audit:     audit,
		notifier:  notifier,
		artifacts: artifacts,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// SweepDue publishes every SCHEDULED result whose date has elapsed. Each result is flipped by
// exactly one conditional update, so concurrent sweeps never process the same result twice.
func (s *PublicationService) SweepDue(ctx context.Context) ([]string, error) {
	now := s.now().UTC()
	ids, err := s.results.PublishDue(ctx, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish due results")
	}
	if len(ids) == 0 {
		return ids, nil
	}

	cohorts := make(map[models.Cohort]struct{})
	for _, id := range ids {
		result, err := s.results.FindByID(ctx, nil, id)
		if err != nil {
			s.logger.Error("failed to load auto-published result", zap.String("result_id", id), zap.Error(err))
			continue
		}
		cohorts[result.Cohort()] = struct{}{}
		s.recordTransition(ctx, result)
		if s.notifier != nil {
			s.notifier.ResultPublished(ctx, *result)
		}
		if s.artifacts != nil {
			s.artifacts.Regenerate(ctx, id)
		}
	}

	if s.cache != nil {
		list := make([]models.Cohort, 0, len(cohorts))
		for c := range cohorts {
			list = append(list, c)
		}
		s.cache.InvalidateCohorts(ctx, list...)
	}
	s.metrics.RecordAutoPublished(len(ids))
	s.logger.Info("scheduled results published", zap.Int("count", len(ids)))
	return ids, nil
}

func (s *PublicationService) recordTransition(ctx context.Context, result *models.Result) {
	if s.audit == nil {
		return
	}
	actor := models.SystemActor.Email
	if _, err := s.audit.Record(ctx, nil, result.ID, actor, "status", string(models.ResultStatusScheduled), string(models.ResultStatusPublished)); err != nil {
		s.logger.Error("failed to audit auto-publication", zap.String("result_id", result.ID), zap.Error(err))
	}
	if _, err := s.audit.Record(ctx, nil, result.ID, actor, "published_date", "", formatTime(result.PublishedDate)); err != nil {
		s.logger.Error("failed to audit published date", zap.String("result_id", result.ID), zap.Error(err))
	}
}
