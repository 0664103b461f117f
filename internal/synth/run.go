package synth

import (
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/cycling-races-ics/internal/calendar"
)

// Run carries the state shared by all races of one generation run.
type Run struct {
	// Timestamp is the DTSTAMP of every event.
	Timestamp time.Time

	// NewUID generates event identifiers.
	NewUID func() string

	Events []*calendar.Event
	Stats  Stats
}

// Stats counts how races were expanded.
type Stats struct {
	Races          int `json:"races"`
	SingleDay      int `json:"single_day"`
	Detailed       int `json:"detailed"`
	Fallback       int `json:"fallback"`
	FilledDays     int `json:"filled_days"`
	DroppedRecords int `json:"dropped_records"`
}

// NewRun creates a Run stamped with ts and random UUIDs.
func NewRun(ts time.Time) *Run {
	return &Run{
		Timestamp: ts.UTC(),
		NewUID:    uuid.NewString,
		Events:    make([]*calendar.Event, 0),
	}
}

func (r *Run) newEvent(title string, date time.Time, description, location string) *calendar.Event {
	return &calendar.Event{
		UID:         r.NewUID(),
		Title:       title,
		Date:        date,
		Description: description,
		Location:    location,
		Timestamp:   r.Timestamp,
	}
}
