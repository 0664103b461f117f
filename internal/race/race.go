package race

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrIncompleteRow is returned for list rows missing a name or classification.
var ErrIncompleteRow = errors.New("incomplete race row")

// ListRow is one row of the calendar list page as extracted from HTML.
type ListRow struct {
	DateRange      string `json:"date_range"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
}

// Summary represents one race of the calendar.
type Summary struct {
	DisplayName    string    `json:"display_name"`
	EnglishName    string    `json:"english_name"` // never localized; used for slugs
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Classification string    `json:"classification"`
	Location       string    `json:"location,omitempty"`
}

// StageRecord is one day of a multi-day race read from its detail page.
type StageRecord struct {
	Date             time.Time `json:"date"`
	IsRestDay        bool      `json:"is_rest_day"`
	RawText          string    `json:"raw_text"`
	StageLabel       string    `json:"stage_label,omitempty"`
	RouteDescription string    `json:"route_description,omitempty"`
}

// DisplayNamer turns an English race name and its classification into the
// name shown on the calendar.
type DisplayNamer interface {
	DisplayName(englishName, classification string) string
}

// Day returns the calendar date y-m-d as midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewSummary builds a Summary from a list row. Rows without a name or a
// classification are rejected with ErrIncompleteRow; malformed date tokens
// return a *ParseError.
func NewSummary(row ListRow, year int, namer DisplayNamer) (*Summary, error) {
	name := strings.TrimSpace(row.Name)
	class := strings.TrimSpace(row.Classification)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name (date %q)", ErrIncompleteRow, row.DateRange)
	}
	if class == "" {
		return nil, fmt.Errorf("%w: missing classification for %q", ErrIncompleteRow, name)
	}

	start, end, err := ParseDateRange(row.DateRange, year)
	if err != nil {
		return nil, err
	}

	return &Summary{
		DisplayName:    namer.DisplayName(name, class),
		EnglishName:    name,
		StartDate:      start,
		EndDate:        end,
		Classification: class,
	}, nil
}

// IsSingleDay reports whether the race starts and ends on the same day.
func (s *Summary) IsSingleDay() bool {
	return s.StartDate.Equal(s.EndDate)
}

// Days returns the number of calendar days the race covers.
func (s *Summary) Days() int {
	return DaysBetween(s.StartDate, s.EndDate) + 1
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
