package ports

import (
	"context"
	"time"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

// CalendarService is the outbound contract against the calendar
// collaborator: read side for context and candidates, write side for the
// cancellation protocol.
type CalendarService interface {
	UserTimezone(ctx context.Context) (string, error)
	TodaysOccurrences(ctx context.Context, today time.Time, loc *time.Location) ([]domain.Event, error)
	PatchDescription(ctx context.Context, eventID, description string) error
	DeleteOccurrence(ctx context.Context, eventID string) error
}

// DocumentSource resolves one attached document into its flat element
// sequence.
type DocumentSource interface {
	FetchElements(ctx context.Context, docID string) ([]domain.Element, error)
}

// MeetingSweeper is the inbound contract for one full daily run.
type MeetingSweeper interface {
	Sweep(ctx context.Context) (domain.RunSummary, error)
}
