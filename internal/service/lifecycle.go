package service

import (
	"strings"
	"time"

	"github.com/noah-isme/sma-results-api/internal/models"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

// canTransition reports whether a result may move between two states.
// PUBLISHED is terminal; every other move, including SCHEDULED back to DRAFT, is allowed.
func canTransition(from, to models.ResultStatus) bool {
	if from == models.ResultStatusPublished {
		return to == models.ResultStatusPublished
	}
	return to.Valid()
}

// applyLifecycle validates the state of next and fills derived lifecycle fields.
// previous is nil when the result is being created.
func applyLifecycle(previous, next *models.Result, now time.Time) error {
	if err := applyStatus(previous, next, now); err != nil {
		return err
	}
	return applyPromotion(next)
}

// applyStatus enforces the status machine and derives the schedule and publication dates.
func applyStatus(previous, next *models.Result, now time.Time) error {
	if next.Status == "" {
		next.Status = models.ResultStatusDraft
	}
	if !next.Status.Valid() {
		return appErrors.FieldInvalid("status", "must be one of: DRAFT SCHEDULED PUBLISHED")
	}
	if previous != nil && !canTransition(previous.Status, next.Status) {
		return appErrors.FieldInvalid("status", "published results cannot return to "+string(next.Status))
	}

	if next.Status != models.ResultStatusDraft {
		switch {
		case strings.TrimSpace(next.StudentID) == "":
			return appErrors.FieldInvalid("student_id", "must be set before publishing or scheduling")
		case strings.TrimSpace(next.ClassName) == "":
			return appErrors.FieldInvalid("class_name", "must be set before publishing or scheduling")
		case next.Term == "":
			return appErrors.FieldInvalid("term", "must be set before publishing or scheduling")
		}
	}

	switch next.Status {
	case models.ResultStatusDraft:
		next.ScheduledDate = nil
	case models.ResultStatusScheduled:
		if next.ScheduledDate == nil {
			return appErrors.FieldInvalid("scheduled_date", "is required when status is SCHEDULED")
		}
		if enteringSchedule(previous, next) && !next.ScheduledDate.After(now) {
			return appErrors.FieldInvalid("scheduled_date", "must be in the future")
		}
	case models.ResultStatusPublished:
		if next.PublishedDate == nil {
			published := now
			next.PublishedDate = &published
		}
	}
	if previous != nil && previous.PublishedDate != nil {
		next.PublishedDate = previous.PublishedDate
	}
	return nil
}

// enteringSchedule reports whether next sets a new schedule rather than keeping the stored one.
// A kept schedule may already be due; the publication sweep owns it from then on.
func enteringSchedule(previous, next *models.Result) bool {
	if previous == nil || previous.Status != models.ResultStatusScheduled || previous.ScheduledDate == nil {
		return true
	}
	return !next.ScheduledDate.Equal(*previous.ScheduledDate)
}

// applyPromotion requires a distinct promotion target in the terminal term and clears it otherwise.
func applyPromotion(result *models.Result) error {
	if !result.Term.IsTerminal() {
		result.PromotedTo = nil
		return nil
	}
	target := result.Promotion()
	if target == "" {
		return appErrors.FieldInvalid("promoted_to", "is required for third term results")
	}
	if strings.EqualFold(target, strings.TrimSpace(result.ClassName)) {
		return appErrors.FieldInvalid("promoted_to", "must differ from the current class")
	}
	result.PromotedTo = &target
	return nil
}
