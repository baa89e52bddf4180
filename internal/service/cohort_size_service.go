package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

type cohortSizeRepository interface {
	Refresh(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error)
	Get(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error)
}

// CohortSizeService tracks how many results each cohort holds.
type CohortSizeService struct {
	repo   cohortSizeRepository
	logger *zap.Logger
}

// NewCohortSizeService constructs a CohortSizeService.
func NewCohortSizeService(repo cohortSizeRepository, logger *zap.Logger) *CohortSizeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CohortSizeService{repo: repo, logger: logger}
}

// Update recounts a cohort and persists the count.
func (s *CohortSizeService) Update(ctx context.Context, cohort models.Cohort) (int, error) {
	return s.UpdateTx(ctx, nil, cohort)
}

// UpdateTx recounts a cohort using the caller's transaction.
func (s *CohortSizeService) UpdateTx(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error) {
	total, err := s.repo.Refresh(ctx, exec, cohort)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cohort size")
	}
	return total, nil
}

// Get returns the tracked count, filling it on first access.
func (s *CohortSizeService) Get(ctx context.Context, cohort models.Cohort) (int, error) {
	total, err := s.repo.Get(ctx, nil, cohort)
	if err == nil {
		return total, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort size")
	}
	s.logger.Debug("cohort size not tracked yet", zap.String("cohort", cohort.String()))
	return s.Update(ctx, cohort)
}
