package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReportCard holds everything printed on a student's term report.
type ReportCard struct {
	SchoolName     string
	StudentName    string
	StudentEmail   string
	ClassName      string
	Term           string
	AcademicYear   string
	Status         string
	Published      bool
	Courses        []ReportCardCourse
	TotalScore     float64
	AverageScore   float64
	Position       string
	CohortSize     int
	DaysPresent    int
	DaysAbsent     int
	AttendanceRate float64
	TeacherRemarks string
	PromotedTo     string
	NextTermBegins *time.Time
	GeneratedAt    time.Time
}

// ReportCardCourse is one row of the performance table.
type ReportCardCourse struct {
	Name       string
	ClassScore float64
	ExamScore  float64
	Total      float64
	Grade      string
	Position   string
	Remarks    string
}

// ReportCardRenderer draws report cards with gofpdf.
type ReportCardRenderer struct{}

// NewReportCardRenderer constructs a renderer.
func NewReportCardRenderer() *ReportCardRenderer {
	return &ReportCardRenderer{}
}

// Watermark returns the diagonal stamp for the card.
func (c ReportCard) Watermark() string {
	if c.Published {
		return "ORIGINAL"
	}
	return "DRAFT"
}

// Render produces the PDF bytes.
func (r *ReportCardRenderer) Render(card ReportCard) ([]byte, error) {
	if card.StudentName == "" {
		return nil, fmt.Errorf("report card requires a student name")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 15, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetHeaderFunc(func() { drawWatermark(pdf, card.Watermark()) })
	pdf.AddPage()

	school := card.SchoolName
	if school == "" {
		school = "School Administration"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, strings.ToUpper(school), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Terminal Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	infoRow(pdf, "Student", card.StudentName, "Class", card.ClassName)
	infoRow(pdf, "Term", termLabel(card.Term), "Academic Year", card.AcademicYear)
	infoRow(pdf, "Status", card.Status, "Position", positionOrNA(card.Position))
	pdf.Ln(4)

	headers := []string{"Subject", "Class (40)", "Exam (60)", "Total (100)", "Grade", "Position", "Remarks"}
	widths := []float64{42, 20, 20, 22, 14, 26, 42}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, course := range card.Courses {
		cells := []string{
			course.Name,
			formatScore(course.ClassScore),
			formatScore(course.ExamScore),
			formatScore(course.Total),
			course.Grade,
			positionOrNA(course.Position),
			course.Remarks,
		}
		for i, v := range cells {
			align := "C"
			if i == 0 || i == len(cells)-1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, truncate(v, 28), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	section(pdf, "Summary")
	infoRow(pdf, "Total Score", formatScore(card.TotalScore), "Average", formatScore(card.AverageScore)+"%")
	infoRow(pdf, "Class Position", positionOrNA(card.Position), "Students in Class", fmt.Sprintf("%d", card.CohortSize))
	pdf.Ln(2)

	section(pdf, "Attendance")
	infoRow(pdf, "Days Present", fmt.Sprintf("%d", card.DaysPresent), "Days Absent", fmt.Sprintf("%d", card.DaysAbsent))
	infoRow(pdf, "Attendance Rate", fmt.Sprintf("%.1f%%", card.AttendanceRate), "", "")
	pdf.Ln(2)

	if card.TeacherRemarks != "" {
		section(pdf, "Teacher's Remarks")
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, card.TeacherRemarks, "", "L", false)
		pdf.Ln(2)
	}

	if card.PromotedTo != "" || card.NextTermBegins != nil {
		section(pdf, "Promotion")
		if card.PromotedTo != "" {
			infoRow(pdf, "Promoted to", card.PromotedTo, "", "")
		}
		if card.NextTermBegins != nil {
			infoRow(pdf, "Next Term Begins", card.NextTermBegins.Format("January 02, 2006"), "", "")
		}
	}

	generated := card.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+generated.Format(time.RFC1123), "", 0, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render report card: %w", err)
	}
	return buf.Bytes(), nil
}

func drawWatermark(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 90)
	pdf.SetTextColor(225, 225, 225)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 150)
	pdf.Text(40, 170, text)
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func infoRow(pdf *gofpdf.Fpdf, label1, value1, label2, value2 string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(38, 6, label1+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(55, 6, value1, "", 0, "L", false, 0, "")
	if label2 != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(38, 6, label2+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, value2, "", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func termLabel(term string) string {
	switch term {
	case "first":
		return "First Term"
	case "second":
		return "Second Term"
	case "third":
		return "Third Term"
	}
	return term
}

func positionOrNA(p string) string {
	if p == "" {
		return "N/A"
	}
	return p
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func truncate(v string, max int) string {
	if len(v) <= max {
		return v
	}
	return v[:max-3] + "..."
}
