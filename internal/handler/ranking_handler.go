package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/middleware"
	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
	"github.com/noah-isme/sma-results-api/pkg/response"
)

type rankingService interface {
	ClassRanking(ctx context.Context, req dto.CohortRequest) (*models.ClassRanking, bool, error)
	ExportBroadsheet(ctx context.Context, req dto.ExportRequest) (*dto.FileDownload, error)
}

// RankingHandler serves class rankings and broadsheet exports.
type RankingHandler struct {
	service rankingService
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service rankingService) *RankingHandler {
	return &RankingHandler{service: service}
}

// ClassRanking godoc
// @Summary Ranked view of a class for a term
// @Tags Rankings
// @Produce json
// @Param class_name query string true "Class name"
// @Param term query string true "Term"
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /rankings [get]
func (h *RankingHandler) ClassRanking(c *gin.Context) {
	var req dto.CohortRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	ranking, cacheHit, err := h.service.ClassRanking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, ranking, nil, middleware.ResponseMeta(c))
}

// Export godoc
// @Summary Download the class broadsheet
// @Tags Rankings
// @Produce text/csv
// @Produce application/pdf
// @Param class_name query string true "Class name"
// @Param term query string true "Term"
// @Param academic_year query string true "Academic year"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /rankings/export [get]
func (h *RankingHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.service.ExportBroadsheet(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
