package dto

import "github.com/noah-isme/sma-results-api/internal/models"

// CreateCourseRequest payload for POST /courses.
type CreateCourseRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=20"`
}

// UpdateCourseRequest payload for PUT /courses/:id.
type UpdateCourseRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code *string `json:"code" validate:"omitempty,min=1,max=20"`
}

// CreateClassCourseRequest assigns a course to a class and term.
type CreateClassCourseRequest struct {
	CourseID  string      `json:"course_id" validate:"required"`
	ClassName string      `json:"class_name" validate:"required,max=50"`
	Term      models.Term `json:"term" validate:"required,oneof=first second third"`
	IsActive  *bool       `json:"is_active"`
}

// UpdateClassCourseRequest payload for PUT /class-courses/:id.
type UpdateClassCourseRequest struct {
	ClassName *string      `json:"class_name" validate:"omitempty,min=1,max=50"`
	Term      *models.Term `json:"term" validate:"omitempty,oneof=first second third"`
	IsActive  *bool        `json:"is_active"`
}

// BulkAssignRequest assigns several courses to one class and term.
type BulkAssignRequest struct {
	CourseIDs []string    `json:"course_ids" validate:"required,min=1,dive,required"`
	ClassName string      `json:"class_name" validate:"required,max=50"`
	Term      models.Term `json:"term" validate:"required,oneof=first second third"`
}

// BulkAssignResponse reports created and skipped assignments.
type BulkAssignResponse struct {
	Created []models.ClassCourse `json:"created"`
	Skipped []string             `json:"skipped"`
	Message string               `json:"message"`
}
