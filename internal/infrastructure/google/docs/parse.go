package docs

import (
	"strings"
	"time"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
)

// Wire shapes for the slice of the Docs v1 document resource this tool
// reads. Section breaks, tables and other non-paragraph structural
// elements carry no agenda text and are dropped during flattening.

type document struct {
	Body struct {
		Content []structuralElement `json:"content"`
	} `json:"body"`
}

type structuralElement struct {
	Paragraph *paragraph `json:"paragraph"`
}

type paragraph struct {
	ParagraphStyle struct {
		NamedStyleType string `json:"namedStyleType"`
	} `json:"paragraphStyle"`
	Elements []paragraphElement `json:"elements"`
}

type paragraphElement struct {
	TextRun *struct {
		Content string `json:"content"`
	} `json:"textRun"`
	DateElement *struct {
		DateElementProperties struct {
			DisplayText string `json:"displayText"`
		} `json:"dateElementProperties"`
	} `json:"dateElement"`
	RichLink *struct {
		RichLinkProperties struct {
			Title string `json:"title"`
		} `json:"richLinkProperties"`
	} `json:"richLink"`
	Person *struct {
		PersonProperties struct {
			Name string `json:"name"`
		} `json:"personProperties"`
	} `json:"person"`
}

// headingRanks maps named paragraph styles onto the hierarchy used for
// closing-boundary detection. Title and Subtitle both outrank H1.
var headingRanks = map[string]int{
	"TITLE":     domain.RankTitle,
	"SUBTITLE":  domain.RankTitle,
	"HEADING_1": 1,
	"HEADING_2": 2,
	"HEADING_3": 3,
	"HEADING_4": 4,
	"HEADING_5": 5,
	"HEADING_6": 6,
}

// chipDateLayouts are the renderings date smart chips are seen with. The
// API exposes only the display string, so the adapter recovers the date
// value where it can; unparseable chips keep their raw text.
var chipDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"01/02/2006",
}

func flatten(doc document) []domain.Element {
	var elements []domain.Element
	for _, se := range doc.Body.Content {
		if se.Paragraph == nil {
			continue
		}
		elements = append(elements, domain.Element{
			Rank:  paragraphRank(*se.Paragraph),
			Spans: paragraphSpans(*se.Paragraph),
			Index: len(elements),
		})
	}
	return elements
}

func paragraphRank(p paragraph) int {
	if rank, ok := headingRanks[p.ParagraphStyle.NamedStyleType]; ok {
		return rank
	}
	return domain.BodyRank
}

func paragraphSpans(p paragraph) []domain.Span {
	spans := make([]domain.Span, 0, len(p.Elements))
	for _, el := range p.Elements {
		switch {
		case el.TextRun != nil:
			spans = append(spans, domain.Span{Kind: domain.SpanText, Text: el.TextRun.Content})
		case el.DateElement != nil:
			spans = append(spans, dateChipSpan(el.DateElement.DateElementProperties.DisplayText))
		case el.RichLink != nil:
			spans = append(spans, domain.Span{Kind: domain.SpanRichLink, Text: el.RichLink.RichLinkProperties.Title})
		case el.Person != nil:
			spans = append(spans, domain.Span{Kind: domain.SpanMention, Text: el.Person.PersonProperties.Name})
		default:
			spans = append(spans, domain.Span{Kind: domain.SpanUnknown})
		}
	}
	return spans
}

func dateChipSpan(display string) domain.Span {
	trimmed := strings.TrimSpace(display)
	for _, layout := range chipDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return domain.Span{Kind: domain.SpanDateChip, Text: display, Date: t}
		}
	}
	return domain.Span{Kind: domain.SpanDateChip, Text: display}
}
