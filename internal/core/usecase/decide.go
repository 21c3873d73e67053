package usecase

import (
	"strings"
	"time"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

// elementCap bounds the whole decision walk. An oversized or pathological
// document is never treated as having topics.
const elementCap = 10000

type parseState int

const (
	searchingDate parseState = iota
	searchingTopics
	checkingContent
)

// Decision is the outcome of walking one document's element sequence.
// DateHeadingFound and TopicsMarkerFound do not change the verdict; they
// let the caller log the exact no-topics cause.
type Decision struct {
	Verdict           domain.DocVerdict
	DateHeadingFound  bool
	TopicsMarkerFound bool
	Scanned           int
}

// DecideDocument walks the element sequence once and classifies the
// document for today. The expected structure is a date heading
// ("Feb 26, 2026 | Team Sync") followed, within the same date section, by
// a topics marker and the topic lines; the section ends at a heading of
// higher hierarchy or at another date heading of the same rank.
func DecideDocument(elements []domain.Element, today time.Time) Decision {
	d := Decision{Verdict: domain.VerdictNoTopics}
	state := searchingDate
	sectionRank := domain.BodyRank

	for i, el := range elements {
		if i >= elementCap {
			d.Scanned = elementCap
			d.Verdict = domain.VerdictNoTopics
			return d
		}
		d.Scanned = i + 1

		text := strings.TrimSpace(el.DisplayText())

		switch state {
		case searchingDate:
			if isTodayHeading(el, today) {
				sectionRank = el.Rank
				d.DateHeadingFound = true
				state = searchingTopics
			}

		case searchingTopics:
			if sectionClosed(el, text, sectionRank) {
				return d
			}
			if isTopicsMarker(text) {
				d.TopicsMarkerFound = true
				state = checkingContent
			}

		case checkingContent:
			if sectionClosed(el, text, sectionRank) {
				return d
			}
			if isEndSectionMarker(text) {
				return d
			}
			if text != "" {
				d.Verdict = domain.VerdictHasTopics
				return d
			}
		}
	}

	return d
}

// sectionClosed implements the closing-boundary rule: a heading of
// strictly higher hierarchy leaves today's section entirely, and a heading
// at the same rank closes it only when it starts another date entry (so a
// same-rank "Attendees" heading stays inside the section).
func sectionClosed(el domain.Element, text string, sectionRank int) bool {
	if !el.IsHeading() {
		return false
	}
	if el.Rank < sectionRank {
		return true
	}
	return el.Rank == sectionRank && isDatePrefixed(text)
}
