package service

import (
	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/internal/scoring"
)

// decorate fills the computed fields of a result and its course entries.
func decorate(result *models.Result, courses []models.CourseResult, cohortSize int) {
	totals := make([]float64, 0, len(courses))
	for i := range courses {
		cr := &courses[i]
		cr.TotalScore = scoring.TotalScore(cr.ClassScore, cr.ExamScore)
		cr.Grade = scoring.Grade(cr.TotalScore)
		cr.PositionContext = scoring.PositionContext(cr.Position, cohortSize)
		totals = append(totals, cr.TotalScore)
	}
	result.CourseResults = courses
	if result.CourseResults == nil {
		result.CourseResults = []models.CourseResult{}
	}
	result.TotalScore = scoring.ResultTotal(totals)
	result.AverageScore = scoring.ResultAverage(totals)
	result.AttendancePercentage = scoring.AttendancePercentage(result.DaysPresent, result.DaysAbsent)
	result.CohortSize = cohortSize
	result.PositionContext = scoring.PositionContext(result.OverallPosition, cohortSize)
}

// groupCourseResults indexes course entries by their result.
func groupCourseResults(items []models.CourseResult) map[string][]models.CourseResult {
	grouped := make(map[string][]models.CourseResult)
	for _, cr := range items {
		grouped[cr.ResultID] = append(grouped[cr.ResultID], cr)
	}
	return grouped
}
