package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
	"github.com/afkham/recurring-meeting-optimizer/internal/core/ports"
)

// RunRecorder receives per-event observations for the run metrics.
type RunRecorder interface {
	EventEvaluated(reason domain.Reason)
	EventCancelled()
	EventWouldCancel()
	EventError()
	DocumentFetched(ok bool)
}

// NopRecorder satisfies RunRecorder without recording anything.
type NopRecorder struct{}

func (NopRecorder) EventEvaluated(domain.Reason) {}
func (NopRecorder) EventCancelled()              {}
func (NopRecorder) EventWouldCancel()            {}
func (NopRecorder) EventError()                  {}
func (NopRecorder) DocumentFetched(bool)         {}

// SweepParams wires one daily run. Today and Location are resolved once
// by the caller and held read-only for the whole run.
type SweepParams struct {
	Calendar  ports.CalendarService
	Docs      ports.DocumentSource
	Canceller *CancelOccurrenceUseCase
	Log       *slog.Logger
	Recorder  RunRecorder
	Today     time.Time
	Location  *time.Location
	DryRun    bool
}

// SweepUseCase evaluates today's recurring occurrences one at a time:
// all attached documents are parsed and the verdict acted upon before the
// next event is considered. Evaluation is deliberately sequential so log
// ordering stays auditable and the calendar write side never sees
// overlapping mutations.
type SweepUseCase struct {
	calendar  ports.CalendarService
	docs      ports.DocumentSource
	canceller *CancelOccurrenceUseCase
	log       *slog.Logger
	rec       RunRecorder
	today     time.Time
	loc       *time.Location
	dryRun    bool
}

func NewSweepUseCase(p SweepParams) *SweepUseCase {
	rec := p.Recorder
	if rec == nil {
		rec = NopRecorder{}
	}
	return &SweepUseCase{
		calendar:  p.Calendar,
		docs:      p.Docs,
		canceller: p.Canceller,
		log:       p.Log,
		rec:       rec,
		today:     p.Today,
		loc:       p.Location,
		dryRun:    p.DryRun,
	}
}

// Sweep runs one full pass. A listing failure is fatal to the run; any
// single event's failure is counted, logged and skipped.
func (uc *SweepUseCase) Sweep(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary

	events, err := uc.calendar.TodaysOccurrences(ctx, uc.today, uc.loc)
	if err != nil {
		return summary, fmt.Errorf("list today's occurrences: %w", err)
	}
	if len(events) == 0 {
		uc.log.Info("no_recurring_meetings_today")
		return summary, nil
	}
	uc.log.Info("recurring_meetings_found", "count", len(events), "date", domain.FormatDate(uc.today))

	for _, event := range events {
		if err := uc.processEvent(ctx, event, &summary); err != nil {
			summary.Errors++
			uc.rec.EventError()
			uc.log.Error("event_processing_failed",
				"event_id", event.ID,
				"summary", event.DisplaySummary(),
				"error", err,
			)
		}
	}

	uc.log.Info("sweep_finished",
		"evaluated", summary.Evaluated,
		"kept", summary.Kept,
		"cancelled", summary.Cancelled,
		"would_cancel", summary.WouldCancel,
		"errors", summary.Errors,
	)
	return summary, nil
}

// processEvent is the per-event failure boundary: panics and errors here
// never abort the run.
func (uc *SweepUseCase) processEvent(ctx context.Context, event domain.Event, summary *domain.RunSummary) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during event evaluation: %v", r)
		}
	}()

	summary.Evaluated++
	reason := uc.evaluateEvent(ctx, event)
	uc.rec.EventEvaluated(reason)

	if !reason.ShouldCancel() {
		summary.Kept++
		uc.log.Info("keeping_event",
			"event_id", event.ID,
			"summary", event.DisplaySummary(),
			"reason", string(reason),
		)
		return nil
	}

	if uc.dryRun {
		summary.WouldCancel++
		uc.rec.EventWouldCancel()
		uc.log.Info("would_cancel_event",
			"event_id", event.ID,
			"summary", event.DisplaySummary(),
			"reason", string(reason),
		)
		return nil
	}

	if _, err := uc.canceller.Cancel(ctx, event); err != nil {
		return err
	}
	summary.Cancelled++
	uc.rec.EventCancelled()
	return nil
}

// evaluateEvent reduces all attached agenda documents to the event-level
// reason. Fetch failures count as doc_error for that one document; a
// has_topics document settles the event immediately since the reduction
// can only prefer it.
func (uc *SweepUseCase) evaluateEvent(ctx context.Context, event domain.Event) domain.Reason {
	docIDs := event.DocumentIDs()
	if len(docIDs) == 0 {
		uc.log.Warn("no_agenda_document_attached",
			"event_id", event.ID,
			"summary", event.DisplaySummary(),
		)
		return domain.ReasonNoDoc
	}

	outcomes := make([]DocOutcome, 0, len(docIDs))
	for _, docID := range docIDs {
		elements, err := uc.docs.FetchElements(ctx, docID)
		if err != nil {
			uc.rec.DocumentFetched(false)
			uc.log.Error("document_fetch_failed",
				"event_id", event.ID,
				"doc_id", docID,
				"error", err,
			)
			outcomes = append(outcomes, DocOutcome{DocID: docID, Err: err})
			continue
		}
		uc.rec.DocumentFetched(true)

		decision := DecideDocument(elements, uc.today)
		uc.logDecision(event, docID, decision)
		outcomes = append(outcomes, DocOutcome{DocID: docID, Verdict: decision.Verdict})
		if decision.Verdict == domain.VerdictHasTopics {
			break
		}
	}

	return AggregateOutcomes(outcomes)
}

func (uc *SweepUseCase) logDecision(event domain.Event, docID string, d Decision) {
	attrs := []any{
		"event_id", event.ID,
		"doc_id", docID,
		"verdict", d.Verdict.String(),
		"elements_scanned", d.Scanned,
	}
	switch {
	case d.Verdict == domain.VerdictHasTopics:
		uc.log.Info("topics_found", attrs...)
	case !d.DateHeadingFound:
		uc.log.Info("no_date_heading_for_today", attrs...)
	case !d.TopicsMarkerFound:
		uc.log.Info("no_topics_section", attrs...)
	default:
		uc.log.Info("topics_section_empty", attrs...)
	}
}
