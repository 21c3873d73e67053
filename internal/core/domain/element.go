package domain

import (
	"strings"
	"time"
)

// SpanKind enumerates the inline payload shapes a document paragraph can
// carry. The set is closed: anything the document source cannot map onto
// one of these becomes SpanUnknown and contributes no text.
type SpanKind int

const (
	SpanUnknown SpanKind = iota
	SpanText
	SpanDateChip
	SpanRichLink
	SpanMention
)

// Span is one inline run inside an element. Text holds the literal content
// for text runs and the visible label for chips, links and mentions. Date
// is set only for date chips whose underlying value could be resolved.
type Span struct {
	Kind SpanKind
	Text string
	Date time.Time
}

// DisplayText returns the textual content of the span used for matching.
// Date chips with a resolved value render canonically so a chip inserted
// via the date picker matches the same prefix as typed text. Unknown kinds
// render empty rather than failing.
func (s Span) DisplayText() string {
	switch s.Kind {
	case SpanText:
		return s.Text
	case SpanDateChip:
		if !s.Date.IsZero() {
			return FormatDate(s.Date)
		}
		return s.Text
	case SpanRichLink, SpanMention:
		return s.Text
	default:
		return ""
	}
}

// Heading ranks. Lower rank means higher in the document hierarchy.
// Title and Subtitle both map to rank 0; plain body text carries BodyRank.
const (
	RankTitle = 0
	BodyRank  = 99
)

// Element is one item of the flat, ordered sequence describing a document:
// a paragraph with its heading rank and inline spans. Elements are owned
// by a single decision walk and never retained across documents.
type Element struct {
	Rank  int
	Spans []Span
	Index int
}

// IsHeading reports whether the element belongs to the heading class
// (Title/Subtitle or H1..H6) as opposed to body text.
func (e Element) IsHeading() bool {
	return e.Rank >= RankTitle && e.Rank <= 6
}

// DisplayText joins the display text of all spans. Trimming is left to the
// matchers so the raw content stays observable.
func (e Element) DisplayText() string {
	if len(e.Spans) == 1 {
		return e.Spans[0].DisplayText()
	}
	var b strings.Builder
	for _, s := range e.Spans {
		b.WriteString(s.DisplayText())
	}
	return b.String()
}

// FormatDate renders a date the way agenda headings spell it: three-letter
// month, day without leading zero, four-digit year ("Feb 26, 2026").
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
