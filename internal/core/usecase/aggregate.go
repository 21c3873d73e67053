package usecase

import "github.com/afkham/recurring-meeting-optimizer/internal/core/domain"

// reasonRank orders event reasons by preference:
// has_topics > no_topics > doc_error > no_doc. The reduction is the max
// over this order, so it is commutative and associative and attachment
// iteration order never changes the result.
var reasonRank = map[domain.Reason]int{
	domain.ReasonNoDoc:     0,
	domain.ReasonDocError:  1,
	domain.ReasonNoTopics:  2,
	domain.ReasonHasTopics: 3,
}

// DocOutcome is the resolution of one attached document: either a verdict
// from the decision walk or the fetch error that prevented one.
type DocOutcome struct {
	DocID   string
	Verdict domain.DocVerdict
	Err     error
}

func (o DocOutcome) reason() domain.Reason {
	if o.Err != nil {
		return domain.ReasonDocError
	}
	switch o.Verdict {
	case domain.VerdictHasTopics:
		return domain.ReasonHasTopics
	case domain.VerdictNoTopics:
		return domain.ReasonNoTopics
	default:
		return domain.ReasonDocError
	}
}

// AggregateOutcomes reduces all per-document outcomes attached to one
// event into the event-level reason. No outcomes means no agenda document
// of the required type was attached.
func AggregateOutcomes(outcomes []DocOutcome) domain.Reason {
	combined := domain.ReasonNoDoc
	for _, o := range outcomes {
		if r := o.reason(); reasonRank[r] > reasonRank[combined] {
			combined = r
		}
	}
	return combined
}
