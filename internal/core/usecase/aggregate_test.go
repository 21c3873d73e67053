package usecase

import (
	"errors"
	"testing"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

func TestAggregateOutcomes(t *testing.T) {
	fetchErr := errors.New("403")

	hasTopics := DocOutcome{DocID: "a", Verdict: domain.VerdictHasTopics}
	noTopics := DocOutcome{DocID: "b", Verdict: domain.VerdictNoTopics}
	docError := DocOutcome{DocID: "c", Err: fetchErr}

	tests := []struct {
		name     string
		outcomes []DocOutcome
		want     domain.Reason
	}{
		{"no attachments", nil, domain.ReasonNoDoc},
		{"single has_topics", []DocOutcome{hasTopics}, domain.ReasonHasTopics},
		{"single no_topics", []DocOutcome{noTopics}, domain.ReasonNoTopics},
		{"single error", []DocOutcome{docError}, domain.ReasonDocError},
		{"has_topics beats no_topics", []DocOutcome{noTopics, hasTopics}, domain.ReasonHasTopics},
		{"has_topics beats error", []DocOutcome{docError, hasTopics}, domain.ReasonHasTopics},
		{"no_topics beats error", []DocOutcome{docError, noTopics}, domain.ReasonNoTopics},
		{"all three", []DocOutcome{docError, noTopics, hasTopics}, domain.ReasonHasTopics},
	}
	for _, tt := range tests {
		if got := AggregateOutcomes(tt.outcomes); got != tt.want {
			t.Errorf("%s: AggregateOutcomes = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// Permuting the attachment list never changes the reduction.
func TestAggregateOrderIndependent(t *testing.T) {
	outcomes := []DocOutcome{
		{DocID: "a", Verdict: domain.VerdictNoTopics},
		{DocID: "b", Err: errors.New("timeout")},
		{DocID: "c", Verdict: domain.VerdictHasTopics},
	}

	want := AggregateOutcomes(outcomes)
	permute(outcomes, func(p []DocOutcome) {
		if got := AggregateOutcomes(p); got != want {
			t.Fatalf("permutation %v: got %v, want %v", ids(p), got, want)
		}
	})
}

func permute(outcomes []DocOutcome, visit func([]DocOutcome)) {
	var rec func(k int)
	rec = func(k int) {
		if k == len(outcomes) {
			visit(outcomes)
			return
		}
		for i := k; i < len(outcomes); i++ {
			outcomes[k], outcomes[i] = outcomes[i], outcomes[k]
			rec(k + 1)
			outcomes[k], outcomes[i] = outcomes[i], outcomes[k]
		}
	}
	rec(0)
}

func ids(outcomes []DocOutcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.DocID
	}
	return out
}
