package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
	"github.com/afkham/recurring-meeting-optimizer/internal/core/ports"
)

// CancellationNote is prepended to the event description before the
// occurrence is deleted, so attendees see the reason in the notification.
const CancellationNote = "Meeting canceled since there are no topics to be discussed today"

// CancelOccurrenceUseCase performs the two-phase cancellation: annotate
// the description, then delete the occurrence with attendee updates.
type CancelOccurrenceUseCase struct {
	calendar ports.CalendarService
	log      *slog.Logger
}

func NewCancelOccurrenceUseCase(calendar ports.CalendarService, log *slog.Logger) *CancelOccurrenceUseCase {
	return &CancelOccurrenceUseCase{calendar: calendar, log: log}
}

// Cancel runs both phases for one event. A description already starting
// with the note means a prior partial run got through phase 1, so the
// annotate is skipped and only the delete is attempted. An annotate
// failure aborts before the delete; a delete failure after a successful
// annotate leaves the event in an inconsistent state that is escalated
// and returned, never swallowed.
func (uc *CancelOccurrenceUseCase) Cancel(ctx context.Context, event domain.Event) (domain.CancellationOutcome, error) {
	var outcome domain.CancellationOutcome

	if strings.HasPrefix(event.Description, CancellationNote) {
		outcome.AlreadyAnnotated = true
		uc.log.Info("cancellation_note_already_present",
			"event_id", event.ID,
			"summary", event.DisplaySummary(),
		)
	} else {
		desc := strings.TrimSpace(CancellationNote + "\n\n" + event.Description)
		if err := uc.calendar.PatchDescription(ctx, event.ID, desc); err != nil {
			return outcome, domain.WrapError(domain.ErrAnnotate, "annotate event description", err)
		}
		outcome.Annotated = true
	}

	if err := uc.calendar.DeleteOccurrence(ctx, event.ID); err != nil {
		uc.log.Error("inconsistent_cancellation",
			"event_id", event.ID,
			"summary", event.DisplaySummary(),
			"annotated", outcome.Annotated || outcome.AlreadyAnnotated,
			"manual_resolution_required", true,
			"error", err,
		)
		return outcome, domain.WrapError(domain.ErrInconsistentCancellation, "delete occurrence", err)
	}
	outcome.Deleted = true

	uc.log.Info("occurrence_cancelled",
		"event_id", event.ID,
		"summary", event.DisplaySummary(),
	)
	return outcome, nil
}
