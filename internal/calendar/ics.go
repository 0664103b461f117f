package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const (
	DefaultProductID = "-//cycling-races-ics//procyclingstats calendar//EN"
	uidDomain        = "cycling-races-ics"
)

// Event is one all-day calendar entry.
type Event struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"` // midnight UTC of the day
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Timestamp   time.Time `json:"timestamp"` // DTSTAMP, shared by one run
}

// Options control calendar-level properties.
type Options struct {
	ProductID string
	Name      string
}

// Build converts events into a calendar, keeping their order.
func Build(events []*Event, opts Options) *ical.Calendar {
	cal := ical.NewCalendar()
	productID := opts.ProductID
	if productID == "" {
		productID = DefaultProductID
	}
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, evt := range events {
		addEvent(cal, evt)
	}
	return cal
}

// Encode writes events as an .ics document to w.
func Encode(w io.Writer, events []*Event, opts Options) error {
	if err := Build(events, opts).SerializeTo(w); err != nil {
		return fmt.Errorf("serializing calendar: %w", err)
	}
	return nil
}

func addEvent(cal *ical.Calendar, evt *Event) {
	ve := cal.AddEvent(qualifiedUID(evt.UID))
	ve.SetDtStampTime(evt.Timestamp.UTC())

	day := time.Date(evt.Date.Year(), evt.Date.Month(), evt.Date.Day(), 0, 0, 0, 0, time.UTC)
	ve.SetAllDayStartAt(day)
	ve.SetAllDayEndAt(day.AddDate(0, 0, 1))

	ve.SetSummary(evt.Title)
	if evt.Description != "" {
		ve.SetDescription(evt.Description)
	}
	if evt.Location != "" {
		ve.SetLocation(evt.Location)
	}
}

func qualifiedUID(uid string) string {
	if strings.Contains(uid, "@") {
		return uid
	}
	return uid + "@" + uidDomain
}
