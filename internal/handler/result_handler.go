package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
	"github.com/noah-isme/sma-results-api/pkg/response"
)

type resultService interface {
	List(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Result, error)
	Create(ctx context.Context, actor models.Actor, req dto.CreateResultRequest) (*models.Result, error)
	Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateResultRequest) (*models.Result, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	ChangeLog(ctx context.Context, actor models.Actor, id string) ([]models.ResultChangeLog, error)
	StudentResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)
	ClassResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)
	MyResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)
	CurrentClassResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)
	PreviousClassResults(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)
	AvailableCourses(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error)
	StudentsByClass(ctx context.Context, className string) ([]models.Student, error)
	RecalculatePositions(ctx context.Context, actor models.Actor, req dto.CohortRequest) (*dto.RecalculateResponse, error)
	ReportCardLink(ctx context.Context, actor models.Actor, id string) (*dto.ReportCardLink, error)
	ReportCardDownload(ctx context.Context, token string) (*dto.FileDownload, error)
}

type bulkStatusService interface {
	Apply(ctx context.Context, actor models.Actor, req dto.BulkStatusRequest) (*dto.BulkStatusResponse, error)
}

// ResultHandler exposes result management endpoints.
type ResultHandler struct {
	results resultService
	bulk    bulkStatusService
}

// NewResultHandler builds a new handler.
func NewResultHandler(results resultService, bulk bulkStatusService) *ResultHandler {
	return &ResultHandler{results: results, bulk: bulk}
}

type resultListFunc func(ctx context.Context, actor models.Actor, query dto.ResultQuery) ([]models.Result, *models.Pagination, error)

func (h *ResultHandler) list(c *gin.Context, fetch resultListFunc) {
	var query dto.ResultQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := fetch(c.Request.Context(), actorFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// List godoc
// @Summary List results
// @Tags Results
// @Produce json
// @Param student_id query string false "Student ID"
// @Param class_name query string false "Class name"
// @Param term query string false "Term (first, second, third)"
// @Param academic_year query string false "Academic year"
// @Param status query string false "DRAFT, SCHEDULED or PUBLISHED"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort field"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	h.list(c, h.results.List)
}

// Get godoc
// @Summary Get a result with its course entries
// @Tags Results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} response.Envelope
// @Router /results/{id} [get]
func (h *ResultHandler) Get(c *gin.Context) {
	result, err := h.results.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Create a result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.CreateResultRequest true "Result payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	var req dto.CreateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	result, err := h.results.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update a result
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body dto.UpdateResultRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /results/{id} [patch]
func (h *ResultHandler) Update(c *gin.Context) {
	var req dto.UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	result, err := h.results.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a result
// @Tags Results
// @Param id path string true "Result ID"
// @Success 204
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	if err := h.results.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ChangeLog godoc
// @Summary List the audit trail of a result
// @Tags Results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} response.Envelope
// @Router /results/{id}/change-log [get]
func (h *ResultHandler) ChangeLog(c *gin.Context) {
	logs, err := h.results.ChangeLog(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// ReportCardLink godoc
// @Summary Get a signed report card download link
// @Tags Results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} response.Envelope
// @Router /results/{id}/report-card [get]
func (h *ResultHandler) ReportCardLink(c *gin.Context) {
	link, err := h.results.ReportCardLink(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// DownloadReportCard godoc
// @Summary Download a report card with a signed token
// @Tags Report Cards
// @Produce application/pdf
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Router /report-cards/{token} [get]
func (h *ResultHandler) DownloadReportCard(c *gin.Context) {
	file, err := h.results.ReportCardDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// StudentResults godoc
// @Summary List results of one student
// @Tags Results
// @Produce json
// @Param student_id query string true "Student ID"
// @Param term query string false "Term"
// @Param academic_year query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /results/student [get]
func (h *ResultHandler) StudentResults(c *gin.Context) {
	h.list(c, h.results.StudentResults)
}

// ClassResults godoc
// @Summary List results of the students enrolled in a class
// @Tags Results
// @Produce json
// @Param class_name query string true "Class name"
// @Param term query string false "Term"
// @Param academic_year query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /results/class [get]
func (h *ResultHandler) ClassResults(c *gin.Context) {
	h.list(c, h.results.ClassResults)
}

// MyResults godoc
// @Summary List the caller's published results
// @Tags Student Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/results [get]
func (h *ResultHandler) MyResults(c *gin.Context) {
	h.list(c, h.results.MyResults)
}

// MyCurrentClassResults godoc
// @Summary List the caller's published results for their current class
// @Tags Student Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/results/current-class [get]
func (h *ResultHandler) MyCurrentClassResults(c *gin.Context) {
	h.list(c, h.results.CurrentClassResults)
}

// MyPreviousClassResults godoc
// @Summary List the caller's published results from earlier classes
// @Tags Student Portal
// @Produce json
// @Param term query string false "Term"
// @Success 200 {object} response.Envelope
// @Router /me/results/previous-classes [get]
func (h *ResultHandler) MyPreviousClassResults(c *gin.Context) {
	h.list(c, h.results.PreviousClassResults)
}

// AvailableCourses godoc
// @Summary List the active courses of a class and term
// @Tags Results
// @Produce json
// @Param class_name query string true "Class name"
// @Param term query string true "Term"
// @Success 200 {object} response.Envelope
// @Router /results/available-courses [get]
func (h *ResultHandler) AvailableCourses(c *gin.Context) {
	courses, err := h.results.AvailableCourses(c.Request.Context(), c.Query("class_name"), models.Term(c.Query("term")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Students godoc
// @Summary List the students enrolled in a class
// @Tags Results
// @Produce json
// @Param class_name query string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /results/students [get]
func (h *ResultHandler) Students(c *gin.Context) {
	students, err := h.results.StudentsByClass(c.Request.Context(), c.Query("class_name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// RecalculatePositions godoc
// @Summary Recalculate the positions of a cohort
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.CohortRequest true "Cohort"
// @Success 200 {object} response.Envelope
// @Router /results/recalculate-positions [post]
func (h *ResultHandler) RecalculatePositions(c *gin.Context) {
	var req dto.CohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cohort payload"))
		return
	}
	resp, err := h.results.RecalculatePositions(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// BulkStatus godoc
// @Summary Move every result of a class and term to a new status
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.BulkStatusRequest true "Bulk status payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /results/bulk-status [post]
func (h *ResultHandler) BulkStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk status payload"))
		return
	}
	resp, err := h.bulk.Apply(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
