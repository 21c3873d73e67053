// Package runstate keeps the once-per-day success marker. It is the only
// state that survives a run, and it never influences any verdict — it
// only lets a rescheduled or repeated invocation exit before touching the
// calendar again.
package runstate

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Marker reads and writes the last-success date file.
type Marker struct {
	path string
}

func New(path string) *Marker {
	return &Marker{path: path}
}

// LastSuccess returns the recorded date of the last successful run.
// A missing or unreadable marker reports no prior success.
func (m *Marker) LastSuccess() (time.Time, bool) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RanOn reports whether the marker records a success on the given day.
func (m *Marker) RanOn(day time.Time) bool {
	last, ok := m.LastSuccess()
	if !ok {
		return false
	}
	return last.Year() == day.Year() && last.YearDay() == day.YearDay()
}

// MarkSuccess records a successful run for the given day.
func (m *Marker) MarkSuccess(day time.Time) error {
	if err := os.WriteFile(m.path, []byte(day.Format(dateLayout)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write run marker: %w", err)
	}
	return nil
}
