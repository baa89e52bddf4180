package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

// Values written when a course entry appears or disappears.
const (
	auditNotPresent = "Not present"
	auditRemoved    = "Removed"
)

type changeLogRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, entry *models.ResultChangeLog) error
	ListByResult(ctx context.Context, resultID string) ([]models.ResultChangeLog, error)
}

// CourseSnapshot is the audited state of one course entry.
type CourseSnapshot struct {
	CourseName string
	ClassScore float64
	ExamScore  float64
	Remarks    string
}

// ResultSnapshot is the audited state of a result and its course entries.
type ResultSnapshot struct {
	Fields  []AuditField
	Courses map[string]CourseSnapshot
}

// AuditField is one labelled, stringified field value.
type AuditField struct {
	Name  string
	Value string
}

// SnapshotOf captures a result before or after a mutation.
func SnapshotOf(result *models.Result, courses []models.CourseResult) ResultSnapshot {
	snap := ResultSnapshot{Courses: make(map[string]CourseSnapshot, len(courses))}
	if result == nil {
		return snap
	}
	snap.Fields = []AuditField{
		{Name: "student", Value: result.StudentID},
		{Name: "class_name", Value: result.ClassName},
		{Name: "term", Value: string(result.Term)},
		{Name: "academic_year", Value: result.AcademicYear},
		{Name: "status", Value: string(result.Status)},
		{Name: "scheduled_date", Value: formatTime(result.ScheduledDate)},
		{Name: "published_date", Value: formatTime(result.PublishedDate)},
		{Name: "promoted_to", Value: result.Promotion()},
		{Name: "days_present", Value: strconv.Itoa(result.DaysPresent)},
		{Name: "days_absent", Value: strconv.Itoa(result.DaysAbsent)},
		{Name: "teacher_remarks", Value: result.TeacherRemarks},
		{Name: "next_term_begins", Value: formatDate(result.NextTermBegins)},
	}
	for _, cr := range courses {
		snap.Courses[cr.ClassCourseID] = CourseSnapshot{
			CourseName: cr.CourseName,
			ClassScore: cr.ClassScore,
			ExamScore:  cr.ExamScore,
			Remarks:    cr.Remarks,
		}
	}
	return snap
}

// AuditService appends field-level change entries for results.
type AuditService struct {
	repo   changeLogRepository
	logger *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo changeLogRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record writes one entry unless previous and next are equal. It reports whether a row was written.
func (s *AuditService) Record(ctx context.Context, exec sqlx.ExtContext, resultID, actorEmail, field, previous, next string) (bool, error) {
	if previous == next {
		return false, nil
	}
	entry := &models.ResultChangeLog{
		ResultID:      resultID,
		ChangedBy:     actorEmail,
		FieldName:     field,
		PreviousValue: previous,
		NewValue:      next,
	}
	if err := s.repo.Create(ctx, exec, entry); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record result change")
	}
	return true, nil
}

// RecordDiff writes one entry for every field that differs between two snapshots.
func (s *AuditService) RecordDiff(ctx context.Context, exec sqlx.ExtContext, resultID, actorEmail string, before, after ResultSnapshot) (int, error) {
	written := 0
	record := func(field, previous, next string) error {
		ok, err := s.Record(ctx, exec, resultID, actorEmail, field, previous, next)
		if ok {
			written++
		}
		return err
	}

	previous := make(map[string]string, len(before.Fields))
	for _, f := range before.Fields {
		previous[f.Name] = f.Value
	}
	for _, f := range after.Fields {
		if err := record(f.Name, previous[f.Name], f.Value); err != nil {
			return written, err
		}
	}

	for _, id := range sortedCourseKeys(before.Courses, after.Courses) {
		old, hadOld := before.Courses[id]
		cur, hasCur := after.Courses[id]
		var err error
		switch {
		case !hadOld && hasCur:
			err = record(cur.CourseName, auditNotPresent, fmt.Sprintf("Added with scores: %s/%s", formatScore(cur.ClassScore), formatScore(cur.ExamScore)))
		case hadOld && !hasCur:
			err = record(old.CourseName, fmt.Sprintf("Scores: %s/%s", formatScore(old.ClassScore), formatScore(old.ExamScore)), auditRemoved)
		default:
			if err = record(cur.CourseName+" - Class Score", formatScore(old.ClassScore), formatScore(cur.ClassScore)); err != nil {
				break
			}
			if err = record(cur.CourseName+" - Exam Score", formatScore(old.ExamScore), formatScore(cur.ExamScore)); err != nil {
				break
			}
			err = record(cur.CourseName+" - Remarks", old.Remarks, cur.Remarks)
		}
		if err != nil {
			return written, err
		}
	}
	if written > 0 {
		s.logger.Debug("result changes recorded", zap.String("result_id", resultID), zap.Int("entries", written))
	}
	return written, nil
}

// List returns a result's entries newest first.
func (s *AuditService) List(ctx context.Context, resultID string) ([]models.ResultChangeLog, error) {
	entries, err := s.repo.ListByResult(ctx, resultID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load change log")
	}
	return entries, nil
}

func sortedCourseKeys(a, b map[string]CourseSnapshot) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	name := func(k string) string {
		if s, ok := b[k]; ok {
			return s.CourseName
		}
		return a[k].CourseName
	}
	sort.Slice(keys, func(i, j int) bool {
		if name(keys[i]) != name(keys[j]) {
			return name(keys[i]) < name(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
