package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/pkg/jobs"
	"github.com/noah-isme/sma-results-api/pkg/mailer"
)

const jobTypeResultPublished = "result_published"

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type notificationStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// PublishedNotice is the payload of a publication email job.
type PublishedNotice struct {
	ResultID     string
	StudentID    string
	StudentName  string
	StudentEmail string
	ClassName    string
	Term         models.Term
	AcademicYear string
}

// NotificationService dispatches publication notices without blocking the caller.
type NotificationService struct {
	queue   jobEnqueuer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(queue jobEnqueuer, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{queue: queue, metrics: metrics, logger: logger}
}

// ResultPublished enqueues a notice for the result's student. Errors are only logged.
func (s *NotificationService) ResultPublished(ctx context.Context, result models.Result) {
	if s == nil || s.queue == nil {
		return
	}
	notice := PublishedNotice{
		ResultID:     result.ID,
		StudentID:    result.StudentID,
		StudentName:  result.StudentName,
		StudentEmail: result.StudentEmail,
		ClassName:    result.ClassName,
		Term:         result.Term,
		AcademicYear: result.AcademicYear,
	}
	job := jobs.Job{ID: uuid.NewString(), Type: jobTypeResultPublished, Payload: notice}
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordNotification(OutcomeFailure)
		s.logger.Error("failed to enqueue publication notice", zap.String("result_id", result.ID), zap.Error(err))
	}
}

// NotificationSender describes the publication email sender.
type NotificationSender struct {
	SchoolName string
}

// NotificationWorker delivers queued publication notices.
type NotificationWorker struct {
	students notificationStudentRepository
	mailer   mailer.Mailer
	metrics  *MetricsService
	logger   *zap.Logger
	sender   NotificationSender
}

// NewNotificationWorker constructs a worker.
func NewNotificationWorker(students notificationStudentRepository, m mailer.Mailer, metrics *MetricsService, sender NotificationSender, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender.SchoolName == "" {
		sender.SchoolName = "School Administration"
	}
	return &NotificationWorker{students: students, mailer: m, metrics: metrics, logger: logger, sender: sender}
}

// Handle processes one queue job.
func (w *NotificationWorker) Handle(ctx context.Context, job jobs.Job) error {
	notice, ok := job.Payload.(PublishedNotice)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	if notice.StudentEmail == "" || notice.StudentName == "" {
		student, err := w.students.FindByID(ctx, notice.StudentID)
		if err != nil {
			return fmt.Errorf("load student %s: %w", notice.StudentID, err)
		}
		notice.StudentEmail = student.Email
		notice.StudentName = student.FullName()
	}
	if notice.StudentEmail == "" {
		w.logger.Warn("student has no email address, skipping notice", zap.String("result_id", notice.ResultID))
		return nil
	}

	msg, err := w.compose(notice)
	if err != nil {
		return err
	}
	if err := w.mailer.Send(ctx, msg); err != nil {
		return err
	}
	w.metrics.RecordNotification(OutcomeSuccess)
	w.logger.Info("publication notice sent", zap.String("result_id", notice.ResultID))
	return nil
}

// Failed is the queue hook for notices that exhausted their retries.
func (w *NotificationWorker) Failed(job jobs.Job, err error) {
	w.metrics.RecordNotification(OutcomeFailure)
	resultID := ""
	if notice, ok := job.Payload.(PublishedNotice); ok {
		resultID = notice.ResultID
	}
	w.logger.Error("publication notice failed", zap.String("result_id", resultID), zap.Int("attempts", job.Attempt), zap.Error(err))
}

var noticeHTML = template.Must(template.New("notice").Parse(`<p>Dear {{.StudentName}},</p>
<p>Your results for <strong>{{.ClassName}}</strong>, {{.TermLabel}} ({{.AcademicYear}}) have been published.</p>
<p>Please sign in to view your report card.</p>
<p>Regards,<br>{{.SchoolName}}</p>`))

type noticeView struct {
	PublishedNotice
	TermLabel  string
	SchoolName string
}

// PublishedSubject is the subject line of a publication notice.
func PublishedSubject(className string, term models.Term) string {
	return fmt.Sprintf("Your Results for %s - %s Have Been Published", className, term.Label())
}

func (w *NotificationWorker) compose(notice PublishedNotice) (mailer.Message, error) {
	view := noticeView{PublishedNotice: notice, TermLabel: notice.Term.Label(), SchoolName: w.sender.SchoolName}
	var html bytes.Buffer
	if err := noticeHTML.Execute(&html, view); err != nil {
		return mailer.Message{}, fmt.Errorf("render notice: %w", err)
	}
	text := fmt.Sprintf("Dear %s,\n\nYour results for %s, %s (%s) have been published.\nPlease sign in to view your report card.\n\nRegards,\n%s\n",
		notice.StudentName, notice.ClassName, view.TermLabel, notice.AcademicYear, w.sender.SchoolName)
	return mailer.Message{
		To:      mail.Address{Name: notice.StudentName, Address: notice.StudentEmail},
		Subject: PublishedSubject(notice.ClassName, notice.Term),
		Text:    text,
		HTML:    html.String(),
	}, nil
}
