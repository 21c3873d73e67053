package calendar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/googleapi"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client talks to the Calendar v3 REST API for one calendar.
type Client struct {
	api        *googleapi.Client
	baseURL    string
	calendarID string
}

func New(api *googleapi.Client, baseURL, calendarID string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		api:        api,
		baseURL:    strings.TrimRight(baseURL, "/"),
		calendarID: calendarID,
	}
}

// UserTimezone returns the user's calendar timezone ("America/New_York").
func (c *Client) UserTimezone(ctx context.Context) (string, error) {
	var setting struct {
		Value string `json:"value"`
	}
	endpoint := c.baseURL + "/users/me/settings/timezone"
	if err := c.api.GetJSON(ctx, "calendar.settings.get", endpoint, &setting); err != nil {
		return "", fmt.Errorf("get user timezone: %w", err)
	}
	return setting.Value, nil
}

type listResponse struct {
	Items         []eventResource `json:"items"`
	NextPageToken string          `json:"nextPageToken"`
}

type eventResource struct {
	ID               string `json:"id"`
	Summary          string `json:"summary"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	RecurringEventID string `json:"recurringEventId"`
	Start            struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"start"`
	Attachments []struct {
		Title    string `json:"title"`
		MimeType string `json:"mimeType"`
		FileURL  string `json:"fileUrl"`
	} `json:"attachments"`
}

// TodaysOccurrences lists the day's events with recurring series expanded
// into instances and keeps only recurring, non-cancelled, timed
// occurrences. All-day events only carry a date, not a dateTime, and are
// skipped.
func (c *Client) TodaysOccurrences(ctx context.Context, today time.Time, loc *time.Location) ([]domain.Event, error) {
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	dayEnd := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, loc)

	var events []domain.Event
	pageToken := ""
	for {
		page, err := c.listPage(ctx, dayStart, dayEnd, pageToken)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.RecurringEventID == "" || item.Status == "cancelled" || item.Start.DateTime == "" {
				continue
			}
			events = append(events, toDomainEvent(item))
		}
		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) listPage(ctx context.Context, timeMin, timeMax time.Time, pageToken string) (*listResponse, error) {
	query := url.Values{}
	query.Set("timeMin", timeMin.Format(time.RFC3339))
	query.Set("timeMax", timeMax.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	var page listResponse
	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(c.calendarID), query.Encode())
	if err := c.api.GetJSON(ctx, "calendar.events.list", endpoint, &page); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &page, nil
}

// PatchDescription replaces the event description, leaving every other
// field untouched.
func (c *Client) PatchDescription(ctx context.Context, eventID, description string) error {
	body := map[string]string{"description": description}
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, url.PathEscape(c.calendarID), url.PathEscape(eventID))
	if err := c.api.PatchJSON(ctx, "calendar.events.patch", endpoint, body); err != nil {
		return fmt.Errorf("patch event description: %w", err)
	}
	return nil
}

// DeleteOccurrence removes the single occurrence and notifies all
// attendees.
func (c *Client) DeleteOccurrence(ctx context.Context, eventID string) error {
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s?sendUpdates=all", c.baseURL, url.PathEscape(c.calendarID), url.PathEscape(eventID))
	if err := c.api.Delete(ctx, "calendar.events.delete", endpoint); err != nil {
		return fmt.Errorf("delete occurrence: %w", err)
	}
	return nil
}

func toDomainEvent(item eventResource) domain.Event {
	event := domain.Event{
		ID:          item.ID,
		Summary:     item.Summary,
		Description: item.Description,
	}
	if start, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
		event.Start = start
	}
	for _, att := range item.Attachments {
		event.Attachments = append(event.Attachments, domain.Attachment{
			Title:    att.Title,
			MimeType: att.MimeType,
			FileURL:  att.FileURL,
		})
	}
	return event
}
