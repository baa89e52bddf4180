package models

import "time"

// RankingEntry is one row of a class ranking.
type RankingEntry struct {
	ResultID        string       `json:"result_id"`
	StudentID       string       `json:"student_id"`
	StudentName     string       `json:"student_name"`
	Position        *int         `json:"position,omitempty"`
	PositionContext string       `json:"position_context,omitempty"`
	TotalScore      float64      `json:"total_score"`
	AverageScore    float64      `json:"average_score"`
	Grade           string       `json:"grade"`
	Status          ResultStatus `json:"status"`
}

// ClassRanking is the ordered ranking of a cohort.
type ClassRanking struct {
	Cohort
	CohortSize  int            `json:"cohort_size"`
	Entries     []RankingEntry `json:"entries"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// MissingResult reports an enrolled student without a result.
type MissingResult struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Error       string `json:"error"`
}

// MissingCourseResult reports a class course without scores for a student.
type MissingCourseResult struct {
	ResultID    string `json:"result_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name"`
	Error       string `json:"error"`
}

// CompletenessReport itemises the gaps that block a bulk transition.
type CompletenessReport struct {
	ClassName         string                `json:"class_name"`
	Term              Term                  `json:"term"`
	AcademicYear      string                `json:"academic_year"`
	MissingResults    []MissingResult       `json:"missing_results"`
	IncompleteResults []MissingCourseResult `json:"incomplete_results"`
}

// HasGaps reports whether anything is missing.
func (r CompletenessReport) HasGaps() bool {
	return len(r.MissingResults) > 0 || len(r.IncompleteResults) > 0
}
