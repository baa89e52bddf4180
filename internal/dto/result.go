package dto

import (
	"time"

	"github.com/noah-isme/sma-results-api/internal/models"
)

// CourseResultInput carries the scores of one course in a result payload.
type CourseResultInput struct {
	ClassCourseID string  `json:"class_course_id" validate:"required"`
	ClassScore    float64 `json:"class_score" validate:"gte=0,lte=40"`
	ExamScore     float64 `json:"exam_score" validate:"gte=0,lte=60"`
	Remarks       string  `json:"remarks" validate:"max=255"`
}

// CreateResultRequest is the payload for POST /results.
type CreateResultRequest struct {
	StudentID      string              `json:"student_id" validate:"required"`
	ClassName      string              `json:"class_name" validate:"required,max=50"`
	Term           models.Term         `json:"term" validate:"required,oneof=first second third"`
	AcademicYear   string              `json:"academic_year" validate:"required,max=20"`
	Status         models.ResultStatus `json:"status" validate:"omitempty,oneof=DRAFT SCHEDULED PUBLISHED"`
	ScheduledDate  *time.Time          `json:"scheduled_date"`
	DaysPresent    int                 `json:"days_present" validate:"gte=0"`
	DaysAbsent     int                 `json:"days_absent" validate:"gte=0"`
	PromotedTo     *string             `json:"promoted_to" validate:"omitempty,max=50"`
	TeacherRemarks string              `json:"teacher_remarks"`
	NextTermBegins *time.Time          `json:"next_term_begins"`
	CourseResults  []CourseResultInput `json:"course_results" validate:"dive"`
}

// UpdateResultRequest is the PATCH payload; nil fields are left untouched.
// A non-nil CourseResults replaces the full set of course entries.
type UpdateResultRequest struct {
	StudentID      *string              `json:"student_id" validate:"omitempty,min=1"`
	ClassName      *string              `json:"class_name" validate:"omitempty,min=1,max=50"`
	Term           *models.Term         `json:"term" validate:"omitempty,oneof=first second third"`
	AcademicYear   *string              `json:"academic_year" validate:"omitempty,min=1,max=20"`
	Status         *models.ResultStatus `json:"status" validate:"omitempty,oneof=DRAFT SCHEDULED PUBLISHED"`
	ScheduledDate  *time.Time           `json:"scheduled_date"`
	DaysPresent    *int                 `json:"days_present" validate:"omitempty,gte=0"`
	DaysAbsent     *int                 `json:"days_absent" validate:"omitempty,gte=0"`
	PromotedTo     *string              `json:"promoted_to" validate:"omitempty,max=50"`
	TeacherRemarks *string              `json:"teacher_remarks"`
	NextTermBegins *time.Time           `json:"next_term_begins"`
	CourseResults  *[]CourseResultInput `json:"course_results" validate:"omitempty,dive"`
}

// CohortRequest addresses one cohort.
type CohortRequest struct {
	ClassName    string      `json:"class_name" form:"class_name" validate:"required"`
	Term         models.Term `json:"term" form:"term" validate:"required,oneof=first second third"`
	AcademicYear string      `json:"academic_year" form:"academic_year" validate:"required"`
}

// RecalculateResponse lists the results whose positions moved.
type RecalculateResponse struct {
	ChangedResultIDs []string `json:"changed_result_ids"`
	ChangedCount     int      `json:"changed_count"`
}

// BulkStatusRequest transitions every result of a class and term.
type BulkStatusRequest struct {
	ClassName     string              `json:"class_name" validate:"required"`
	Term          models.Term         `json:"term" validate:"required,oneof=first second third"`
	AcademicYear  string              `json:"academic_year"`
	Status        models.ResultStatus `json:"status" validate:"required,oneof=DRAFT SCHEDULED PUBLISHED"`
	ScheduledDate *time.Time          `json:"scheduled_date"`
}

// BulkStatusResponse summarises a bulk transition.
type BulkStatusResponse struct {
	Message      string              `json:"message"`
	AcademicYear string              `json:"academic_year"`
	Status       models.ResultStatus `json:"status"`
	UpdatedCount int                 `json:"updated_count"`
	SkippedCount int                 `json:"skipped_count"`
}

// ReportCardLink is a signed download reference for a report card.
type ReportCardLink struct {
	ResultID  string    `json:"result_id"`
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileDownload is a resolved file ready to stream.
type FileDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ResultQuery captures the optional query filters of result read endpoints.
type ResultQuery struct {
	StudentID    string `form:"student_id"`
	ClassName    string `form:"class_name"`
	Term         string `form:"term"`
	AcademicYear string `form:"academic_year"`
	Status       string `form:"status"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
}

// ExportRequest selects a broadsheet encoding.
type ExportRequest struct {
	CohortRequest
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
