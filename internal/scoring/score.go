// Package scoring holds the pure score, grade and ranking functions used by the results engine.
package scoring

import "math"

// Score bounds for a course result.
const (
	MaxClassScore = 40.0
	MaxExamScore  = 60.0
)

// Round2 rounds to two decimals using banker's rounding, matching NUMERIC(5,2) storage.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// TotalScore sums class and exam scores.
func TotalScore(classScore, examScore float64) float64 {
	return Round2(classScore + examScore)
}

// Grade maps a course total onto the fixed letter bands.
func Grade(total float64) string {
	switch {
	case total >= 70:
		return "A"
	case total >= 60:
		return "B"
	case total >= 50:
		return "C"
	case total >= 45:
		return "D"
	case total >= 40:
		return "E"
	default:
		return "F"
	}
}

// ResultTotal sums course totals. An empty set totals 0.
func ResultTotal(totals []float64) float64 {
	sum := 0.0
	for _, t := range totals {
		sum += t
	}
	return Round2(sum)
}

// ResultAverage is the mean course total; an empty set averages 0.
func ResultAverage(totals []float64) float64 {
	if len(totals) == 0 {
		return 0
	}
	return Round2(ResultTotal(totals) / float64(len(totals)))
}

// AttendancePercentage returns present/(present+absent)*100, or 0 when no days were recorded.
func AttendancePercentage(present, absent int) float64 {
	days := present + absent
	if days <= 0 {
		return 0
	}
	return Round2(float64(present) / float64(days) * 100)
}
