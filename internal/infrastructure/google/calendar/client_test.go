package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/googleapi"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/resilience"
)

func newTestAPI() *googleapi.Client {
	exec := resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1, BreakerEnabled: false})
	return googleapi.NewClient(&http.Client{}, rate.NewLimiter(rate.Inf, 1), exec)
}

func TestUserTimezone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/settings/timezone" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"kind":"calendar#setting","id":"timezone","value":"America/New_York"}`))
	}))
	defer server.Close()

	client := New(newTestAPI(), server.URL, "primary")
	tz, err := client.UserTimezone(context.Background())
	if err != nil {
		t.Fatalf("UserTimezone() error = %v", err)
	}
	if tz != "America/New_York" {
		t.Fatalf("UserTimezone() = %q", tz)
	}
}

func TestTodaysOccurrencesFiltersAndPaginates(t *testing.T) {
	page1 := `{
		"items": [
			{"id":"keep1","summary":"Standup","recurringEventId":"base1","status":"confirmed",
			 "start":{"dateTime":"2026-02-26T09:00:00Z"},
			 "attachments":[{"title":"Notes","mimeType":"application/vnd.google-apps.document",
			                 "fileUrl":"https://docs.google.com/document/d/doc1/edit"}]},
			{"id":"single","summary":"One-off","status":"confirmed","start":{"dateTime":"2026-02-26T10:00:00Z"}},
			{"id":"gone","summary":"Cancelled","recurringEventId":"base2","status":"cancelled",
			 "start":{"dateTime":"2026-02-26T11:00:00Z"}}
		],
		"nextPageToken": "page2"
	}`
	page2 := `{
		"items": [
			{"id":"allday","summary":"Offsite","recurringEventId":"base3","status":"confirmed",
			 "start":{"date":"2026-02-26"}},
			{"id":"keep2","summary":"Retro","recurringEventId":"base4","status":"confirmed",
			 "start":{"dateTime":"2026-02-26T15:00:00Z"}}
		]
	}`

	var queries []map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		queries = append(queries, map[string]string{
			"singleEvents": q.Get("singleEvents"),
			"orderBy":      q.Get("orderBy"),
			"pageToken":    q.Get("pageToken"),
			"timeMin":      q.Get("timeMin"),
		})
		if q.Get("pageToken") == "page2" {
			_, _ = w.Write([]byte(page2))
			return
		}
		_, _ = w.Write([]byte(page1))
	}))
	defer server.Close()

	client := New(newTestAPI(), server.URL, "primary")
	today := time.Date(2026, time.February, 26, 12, 0, 0, 0, time.UTC)
	events, err := client.TodaysOccurrences(context.Background(), today, time.UTC)
	if err != nil {
		t.Fatalf("TodaysOccurrences() error = %v", err)
	}

	if len(events) != 2 || events[0].ID != "keep1" || events[1].ID != "keep2" {
		t.Fatalf("events = %+v, want keep1 and keep2 only", events)
	}
	if got := events[0].DocumentIDs(); len(got) != 1 || got[0] != "doc1" {
		t.Fatalf("attachments not mapped: %v", got)
	}
	if !events[0].Start.Equal(time.Date(2026, time.February, 26, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("start not parsed: %v", events[0].Start)
	}

	if len(queries) != 2 {
		t.Fatalf("expected two pages, got %d requests", len(queries))
	}
	first := queries[0]
	if first["singleEvents"] != "true" || first["orderBy"] != "startTime" {
		t.Fatalf("list query = %v", first)
	}
	if first["timeMin"] != "2026-02-26T00:00:00Z" {
		t.Fatalf("timeMin = %q", first["timeMin"])
	}
	if queries[1]["pageToken"] != "page2" {
		t.Fatalf("second request pageToken = %q", queries[1]["pageToken"])
	}
}

func TestPatchDescription(t *testing.T) {
	var (
		method string
		path   string
		body   map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(newTestAPI(), server.URL, "primary")
	if err := client.PatchDescription(context.Background(), "evt1", "new description"); err != nil {
		t.Fatalf("PatchDescription() error = %v", err)
	}
	if method != http.MethodPatch || path != "/calendars/primary/events/evt1" {
		t.Fatalf("request = %s %s", method, path)
	}
	if body["description"] != "new description" {
		t.Fatalf("body = %v", body)
	}
}

func TestDeleteOccurrenceNotifiesAttendees(t *testing.T) {
	var (
		method      string
		path        string
		sendUpdates string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		sendUpdates = r.URL.Query().Get("sendUpdates")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(newTestAPI(), server.URL, "primary")
	if err := client.DeleteOccurrence(context.Background(), "evt1"); err != nil {
		t.Fatalf("DeleteOccurrence() error = %v", err)
	}
	if method != http.MethodDelete || path != "/calendars/primary/events/evt1" {
		t.Fatalf("request = %s %s", method, path)
	}
	if sendUpdates != "all" {
		t.Fatalf("sendUpdates = %q, want all", sendUpdates)
	}
}

func TestPatchDescriptionSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend error", http.StatusForbidden)
	}))
	defer server.Close()

	client := New(newTestAPI(), server.URL, "primary")
	err := client.PatchDescription(context.Background(), "evt1", "desc")
	if err == nil {
		t.Fatalf("expected error")
	}
}
