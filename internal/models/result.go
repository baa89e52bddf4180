package models

import (
	"fmt"
	"strings"
	"time"
)

// Term identifies a school term.
type Term string

const (
	TermFirst  Term = "first"
	TermSecond Term = "second"
	TermThird  Term = "third"
)

// Valid reports whether the term is known.
func (t Term) Valid() bool {
	switch t {
	case TermFirst, TermSecond, TermThird:
		return true
	}
	return false
}

// IsTerminal reports whether promotion decisions are made in this term.
func (t Term) IsTerminal() bool {
	return t == TermThird
}

// Label renders the term for documents and emails.
func (t Term) Label() string {
	switch t {
	case TermFirst:
		return "First Term"
	case TermSecond:
		return "Second Term"
	case TermThird:
		return "Third Term"
	}
	return string(t)
}

// ResultStatus is the publication state of a result.
type ResultStatus string

const (
	ResultStatusDraft     ResultStatus = "DRAFT"
	ResultStatusScheduled ResultStatus = "SCHEDULED"
	ResultStatusPublished ResultStatus = "PUBLISHED"
)

// Valid reports whether the status is known.
func (s ResultStatus) Valid() bool {
	switch s {
	case ResultStatusDraft, ResultStatusScheduled, ResultStatusPublished:
		return true
	}
	return false
}

// Cohort is the set of results sharing class, term and academic year.
type Cohort struct {
	ClassName    string `json:"class_name"`
	Term         Term   `json:"term"`
	AcademicYear string `json:"academic_year"`
}

func (c Cohort) String() string {
	return fmt.Sprintf("%s/%s/%s", c.ClassName, c.Term, c.AcademicYear)
}

// Result is one student's record for a cohort.
type Result struct {
	ID              string       `db:"id" json:"id"`
	StudentID       string       `db:"student_id" json:"student_id"`
	ClassName       string       `db:"class_name" json:"class_name"`
	Term            Term         `db:"term" json:"term"`
	AcademicYear    string       `db:"academic_year" json:"academic_year"`
	Status          ResultStatus `db:"status" json:"status"`
	ScheduledDate   *time.Time   `db:"scheduled_date" json:"scheduled_date,omitempty"`
	PublishedDate   *time.Time   `db:"published_date" json:"published_date,omitempty"`
	OverallPosition *int         `db:"overall_position" json:"overall_position,omitempty"`
	DaysPresent     int          `db:"days_present" json:"days_present"`
	DaysAbsent      int          `db:"days_absent" json:"days_absent"`
	PromotedTo      *string      `db:"promoted_to" json:"promoted_to,omitempty"`
	TeacherRemarks  string       `db:"teacher_remarks" json:"teacher_remarks"`
	NextTermBegins  *time.Time   `db:"next_term_begins" json:"next_term_begins,omitempty"`
	ReportCardPath  *string      `db:"report_card_path" json:"report_card_path,omitempty"`
	CreatedBy       *string      `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`

	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"-"`

	CourseResults        []CourseResult `db:"-" json:"course_results"`
	TotalScore           float64        `db:"-" json:"total_score"`
	AverageScore         float64        `db:"-" json:"average_score"`
	AttendancePercentage float64        `db:"-" json:"attendance_percentage"`
	CohortSize           int            `db:"-" json:"cohort_size"`
	PositionContext      string         `db:"-" json:"position_context,omitempty"`
}

// Cohort returns the cohort the result belongs to.
func (r Result) Cohort() Cohort {
	return Cohort{ClassName: r.ClassName, Term: r.Term, AcademicYear: r.AcademicYear}
}

// Promotion returns the promotion target or an empty string.
func (r Result) Promotion() string {
	if r.PromotedTo == nil {
		return ""
	}
	return strings.TrimSpace(*r.PromotedTo)
}

// HasReportCard reports whether an artifact reference is stored.
func (r Result) HasReportCard() bool {
	return r.ReportCardPath != nil && *r.ReportCardPath != ""
}

// CourseResult holds one course's scores inside a result.
type CourseResult struct {
	ID            string  `db:"id" json:"id"`
	ResultID      string  `db:"result_id" json:"result_id"`
	ClassCourseID string  `db:"class_course_id" json:"class_course_id"`
	ClassScore    float64 `db:"class_score" json:"class_score"`
	ExamScore     float64 `db:"exam_score" json:"exam_score"`
	Remarks       string  `db:"remarks" json:"remarks"`
	Position      *int    `db:"position" json:"position,omitempty"`
	CourseID      string  `db:"course_id" json:"course_id"`
	CourseName    string  `db:"course_name" json:"course_name"`
	CourseCode    string  `db:"course_code" json:"course_code"`

	TotalScore      float64 `db:"-" json:"total_score"`
	Grade           string  `db:"-" json:"grade"`
	PositionContext string  `db:"-" json:"position_context,omitempty"`
}

// ResultFilter narrows result listings.
type ResultFilter struct {
	StudentID    string
	ClassName    string
	Term         Term
	AcademicYear string
	Status       ResultStatus
	// EnrolledOnly keeps results whose student is currently in ClassName.
	EnrolledOnly bool
	ExcludeClass string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// ClassCohortSize is the cached number of results in a cohort.
type ClassCohortSize struct {
	ClassName     string    `db:"class_name" json:"class_name"`
	Term          Term      `db:"term" json:"term"`
	AcademicYear  string    `db:"academic_year" json:"academic_year"`
	TotalStudents int       `db:"total_students" json:"total_students"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
