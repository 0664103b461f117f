package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	// "Mar 1-15"
	sameMonthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)

	// "Mar 1 - Apr 15"
	crossMonthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})$`)

	// "Mar - May"
	monthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s*-\s*` + monthPattern + `$`)

	// "March"
	singleMonth = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
)

// ParseWindow parses a date window within the season year.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15" - same month, different days
//   - "March 1 - April 15" - different months
//   - "Mar - May" - whole months
//   - "March" - entire month
//
// When the end month is before the start month the window ends in the
// following year. Returned times are midnight UTC.
func ParseWindow(input string, year int) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date window cannot be empty")
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		return window(year, month, m[2], year, month, m[3])
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		return window(year, month1, m[2], endYear(year, month1, month2), month2, m[4])
	}

	if m := monthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[2])
		y2 := endYear(year, month1, month2)
		from := race.Day(year, month1, 1)
		to := race.Day(y2, month2+1, 0)
		return &from, &to, nil
	}

	if m := singleMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		from := race.Day(year, month, 1)
		// Last day of month
		to := race.Day(year, month+1, 0)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date window %q: use 'Mar 1-15', 'March 1 - April 15', 'Mar - May', or 'March'", input)
}

func window(y1 int, m1 time.Month, d1 string, y2 int, m2 time.Month, d2 string) (*time.Time, *time.Time, error) {
	from, err := day(y1, m1, d1)
	if err != nil {
		return nil, nil, err
	}
	to, err := day(y2, m2, d2)
	if err != nil {
		return nil, nil, err
	}
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func day(year int, month time.Month, text string) (time.Time, error) {
	d, err := strconv.Atoi(text)
	if err != nil || d < 1 {
		return time.Time{}, fmt.Errorf("invalid day: %s", text)
	}
	t := race.Day(year, month, d)
	if t.Month() != month {
		return time.Time{}, fmt.Errorf("invalid day: %s %s", month, text)
	}
	return t, nil
}

func endYear(year int, start, end time.Month) int {
	if end < start {
		return year + 1
	}
	return year
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) > 3 {
		name = name[:3]
	}

	months := map[string]time.Month{
		"jan": time.January,
		"feb": time.February,
		"mar": time.March,
		"apr": time.April,
		"may": time.May,
		"jun": time.June,
		"jul": time.July,
		"aug": time.August,
		"sep": time.September,
		"oct": time.October,
		"nov": time.November,
		"dec": time.December,
	}

	return months[name]
}
