package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeBoundaries(t *testing.T) {
	cases := map[float64]string{
		0:     "F",
		39.99: "F",
		40:    "E",
		44.99: "E",
		45:    "D",
		49.99: "D",
		50:    "C",
		59.99: "C",
		60:    "B",
		69.99: "B",
		70:    "A",
		100:   "A",
	}
	for total, expected := range cases {
		assert.Equal(t, expected, Grade(total), "total %.2f", total)
	}
}

func TestTotalScorePreservesTwoDecimals(t *testing.T) {
	assert.Equal(t, 72.75, TotalScore(32.5, 40.25))
	assert.Equal(t, 100.0, TotalScore(40, 60))
	assert.Equal(t, 0.3, TotalScore(0.1, 0.2))
}

func TestResultAggregates(t *testing.T) {
	assert.Equal(t, 0.0, ResultTotal(nil))
	assert.Equal(t, 0.0, ResultAverage(nil))

	totals := []float64{80, 70.5, 65.25}
	assert.Equal(t, 215.75, ResultTotal(totals))
	assert.Equal(t, 71.92, ResultAverage(totals))
}

func TestAttendancePercentage(t *testing.T) {
	assert.Equal(t, 0.0, AttendancePercentage(0, 0))
	assert.Equal(t, 100.0, AttendancePercentage(60, 0))
	assert.Equal(t, 66.67, AttendancePercentage(2, 1))
}
