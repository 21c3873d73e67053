package domain

// DocVerdict is the ternary classification produced for one attached
// document. It is a pure function of the element sequence and today's
// date; no verdict ever depends on a prior run.
type DocVerdict int

const (
	// VerdictDocError marks a document whose elements could not be
	// fetched or walked; it never contributes positive evidence.
	VerdictDocError DocVerdict = iota
	// VerdictNoTopics marks a document with no non-empty topic content
	// for today (fail-closed default).
	VerdictNoTopics
	// VerdictHasTopics marks a document with at least one non-empty
	// content line under today's topics section.
	VerdictHasTopics
)

func (v DocVerdict) String() string {
	switch v {
	case VerdictHasTopics:
		return "has_topics"
	case VerdictNoTopics:
		return "no_topics"
	default:
		return "doc_error"
	}
}

// Reason tags the event-level reduction of all attached document verdicts.
type Reason string

const (
	ReasonHasTopics Reason = "has_topics"
	ReasonNoTopics  Reason = "no_topics"
	ReasonDocError  Reason = "doc_error"
	ReasonNoDoc     Reason = "no_doc"
)

// ShouldCancel reports whether the reason makes the event a cancellation
// candidate. Every other reason keeps the meeting: no_doc and doc_error
// fail safe toward non-cancellation.
func (r Reason) ShouldCancel() bool {
	return r == ReasonNoTopics
}

// CancellationOutcome records which phases of the cancellation protocol
// ran for one event. It drives log severity only and is never persisted.
type CancellationOutcome struct {
	AlreadyAnnotated bool
	Annotated        bool
	Deleted          bool
}

// RunSummary aggregates one sweep over today's candidate events.
type RunSummary struct {
	Evaluated   int
	Kept        int
	Cancelled   int
	WouldCancel int
	Errors      int
}
