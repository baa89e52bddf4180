package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	table := Table{
		Headers: []string{"Position", "Student", "Total"},
		Rows: []map[string]string{
			{"Position": "1", "Student": "Ama Mensah", "Total": "450.50"},
			{"Position": "2", "Student": "Kofi Owusu", "Total": "431.00"},
		},
	}
	out, err := CSVExporter{}.Render(table)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Position,Student,Total", lines[0])
	assert.Equal(t, "1,Ama Mensah,450.50", lines[1])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := PDFExporter{}.Render(Table{Title: "Broadsheet", Headers: []string{"A", "B"}, Rows: []map[string]string{{"A": "1", "B": "2"}}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestRendererFor(t *testing.T) {
	r, err := RendererFor(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "pdf", r.Extension())
	_, err = RendererFor("xlsx")
	require.Error(t, err)
}

func TestReportCardRender(t *testing.T) {
	next := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	card := ReportCard{
		StudentName:  "Ama Mensah",
		ClassName:    "JHS 3",
		Term:         "third",
		AcademicYear: "2024/2025",
		Status:       "PUBLISHED",
		Published:    true,
		Courses: []ReportCardCourse{
			{Name: "Mathematics", ClassScore: 35, ExamScore: 52.5, Total: 87.5, Grade: "A", Position: "1st of 3"},
		},
		TotalScore:     87.5,
		AverageScore:   87.5,
		Position:       "1st of 3",
		CohortSize:     3,
		DaysPresent:    58,
		DaysAbsent:     2,
		AttendanceRate: 96.67,
		PromotedTo:     "SHS 1",
		NextTermBegins: &next,
	}
	out, err := NewReportCardRenderer().Render(card)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
	assert.Equal(t, "ORIGINAL", card.Watermark())

	card.Published = false
	assert.Equal(t, "DRAFT", card.Watermark())

	_, err = NewReportCardRenderer().Render(ReportCard{})
	require.Error(t, err)
}
