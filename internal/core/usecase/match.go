package usecase

import (
	"regexp"
	"strings"
	"time"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

// datePrefixPattern matches any agenda date prefix ("Feb 26, 2026"),
// used to recognise the start of another day's section.
var datePrefixPattern = regexp.MustCompile(`^[A-Z][a-z]{2} \d{1,2}, \d{4}`)

// topicsMarkers is the fixed vocabulary that opens the topics section,
// matched case-insensitively after trimming, on headings and plain text
// alike.
var topicsMarkers = map[string]struct{}{
	"topic":   {},
	"topics":  {},
	"topic:":  {},
	"topics:": {},
}

// endSectionMarkers is the fixed vocabulary that closes the topics
// section, matched case-insensitively against the full trimmed text.
var endSectionMarkers = map[string]struct{}{
	"notes":        {},
	"action items": {},
	"action item":  {},
	"next steps":   {},
	"next step":    {},
	"attendees":    {},
	"attendees:":   {},
	"agenda":       {},
	"resources":    {},
	"follow-up":    {},
	"follow up":    {},
}

// isTodayHeading reports whether the element is a heading whose trimmed
// text starts with today's date in the canonical rendering. Trailing text
// after the date is ignored; no other format or locale matches.
func isTodayHeading(el domain.Element, today time.Time) bool {
	if !el.IsHeading() {
		return false
	}
	text := strings.TrimSpace(el.DisplayText())
	return strings.HasPrefix(text, domain.FormatDate(today))
}

// isDatePrefixed reports whether trimmed text begins with any date in the
// agenda heading format.
func isDatePrefixed(text string) bool {
	return datePrefixPattern.MatchString(text)
}

func isTopicsMarker(text string) bool {
	_, ok := topicsMarkers[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

func isEndSectionMarker(text string) bool {
	_, ok := endSectionMarkers[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
