package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
	"github.com/noah-isme/sma-results-api/pkg/response"
)

type classCourseService interface {
	List(ctx context.Context, filter models.ClassCourseFilter) ([]models.ClassCourse, error)
	ByClassAndTerm(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error)
	Create(ctx context.Context, req dto.CreateClassCourseRequest) (*models.ClassCourse, error)
	Update(ctx context.Context, id string, req dto.UpdateClassCourseRequest) (*models.ClassCourse, error)
	Delete(ctx context.Context, id string) error
	BulkAssign(ctx context.Context, req dto.BulkAssignRequest) (*dto.BulkAssignResponse, error)
}

// ClassCourseHandler manages course assignments to classes.
type ClassCourseHandler struct {
	service classCourseService
}

// NewClassCourseHandler constructs the handler.
func NewClassCourseHandler(service classCourseService) *ClassCourseHandler {
	return &ClassCourseHandler{service: service}
}

// List godoc
// @Summary List class course assignments
// @Tags Class Courses
// @Produce json
// @Param class_name query string false "Class name"
// @Param term query string false "Term"
// @Param is_active query bool false "Only active or inactive assignments"
// @Success 200 {object} response.Envelope
// @Router /class-courses [get]
func (h *ClassCourseHandler) List(c *gin.Context) {
	filter := models.ClassCourseFilter{
		ClassName: c.Query("class_name"),
		Term:      models.Term(c.Query("term")),
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.FieldInvalid("is_active", "must be a boolean"))
			return
		}
		filter.Active = &active
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ByClass godoc
// @Summary List the courses assigned to a class for a term
// @Tags Class Courses
// @Produce json
// @Param class_name query string true "Class name"
// @Param term query string true "Term"
// @Success 200 {object} response.Envelope
// @Router /class-courses/by-class [get]
func (h *ClassCourseHandler) ByClass(c *gin.Context) {
	items, err := h.service.ByClassAndTerm(c.Request.Context(), c.Query("class_name"), models.Term(c.Query("term")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Assign a course to a class
// @Tags Class Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassCourseRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /class-courses [post]
func (h *ClassCourseHandler) Create(c *gin.Context) {
	var req dto.CreateClassCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update a class course assignment
// @Tags Class Courses
// @Accept json
// @Produce json
// @Param id path string true "Class course ID"
// @Param payload body dto.UpdateClassCourseRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /class-courses/{id} [put]
func (h *ClassCourseHandler) Update(c *gin.Context) {
	var req dto.UpdateClassCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Remove a class course assignment
// @Tags Class Courses
// @Param id path string true "Class course ID"
// @Success 204
// @Router /class-courses/{id} [delete]
func (h *ClassCourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkAssign godoc
// @Summary Assign several courses to a class at once
// @Tags Class Courses
// @Accept json
// @Produce json
// @Param payload body dto.BulkAssignRequest true "Bulk assignment payload"
// @Success 200 {object} response.Envelope
// @Router /class-courses/bulk-assign [post]
func (h *ClassCourseHandler) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.service.BulkAssign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
