package domain

import (
	"regexp"
	"time"
)

// DocMimeType identifies Google Docs attachments on a calendar event.
const DocMimeType = "application/vnd.google-apps.document"

// maxAttachmentURLLen guards against pathological attachment URLs.
const maxAttachmentURLLen = 2048

var docIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// Attachment is one file reference carried by a calendar event.
type Attachment struct {
	Title    string
	MimeType string
	FileURL  string
}

// Event is one occurrence of a recurring meeting scheduled for today,
// already filtered by the calendar adapter to recurring, non-cancelled,
// timed instances.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	Attachments []Attachment
}

// DocumentIDs returns the ids of all agenda documents attached to the
// event. Only Google Docs attachments count; malformed or oversized URLs
// are skipped rather than reported.
func (e Event) DocumentIDs() []string {
	var ids []string
	for _, att := range e.Attachments {
		if att.MimeType != DocMimeType {
			continue
		}
		if len(att.FileURL) > maxAttachmentURLLen {
			continue
		}
		if m := docIDPattern.FindStringSubmatch(att.FileURL); m != nil {
			ids = append(ids, m[1])
		}
	}
	return ids
}

// DisplaySummary returns the event title for logging, never empty.
func (e Event) DisplaySummary() string {
	if e.Summary == "" {
		return "Untitled"
	}
	return e.Summary
}
