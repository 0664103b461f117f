package race

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a date token that could not be interpreted.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing date token %q: %s", e.Token, e.Reason)
}

// ParseDateRange parses a list-page date token into start and end dates.
// Supported formats: "07.03" (single day) and "09.05 - 01.06" (range).
// When the end of a range falls before its start, the end is moved into
// the following year ("28.12 - 03.01" ends in year+1).
func ParseDateRange(token string, year int) (time.Time, time.Time, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: "empty token"}
	}

	parts := splitRange(trimmed)
	switch len(parts) {
	case 1:
		day, month, err := parseDayMonth(parts[0], ".")
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: err.Error()}
		}
		start, err := dateIn(year, month, day)
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: err.Error()}
		}
		return start, start, nil
	case 2:
		startDay, startMonth, err := parseDayMonth(parts[0], ".")
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: "start: " + err.Error()}
		}
		endDay, endMonth, err := parseDayMonth(parts[1], ".")
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: "end: " + err.Error()}
		}

		start, err := dateIn(year, startMonth, startDay)
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: "start: " + err.Error()}
		}

		endYear := year
		if endMonth < startMonth || (endMonth == startMonth && endDay < startDay) {
			endYear = year + 1
		}
		end, err := dateIn(endYear, endMonth, endDay)
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: "end: " + err.Error()}
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, &ParseError{Token: token, Reason: "too many separators"}
	}
}

// ParseDayMonth parses "DD<sep>MM" tokens and combines them with year.
// Stage tables use "/" while the race list uses ".".
func ParseDayMonth(token, sep string, year int) (time.Time, error) {
	day, month, err := parseDayMonth(strings.TrimSpace(token), sep)
	if err != nil {
		return time.Time{}, &ParseError{Token: token, Reason: err.Error()}
	}
	t, err := dateIn(year, month, day)
	if err != nil {
		return time.Time{}, &ParseError{Token: token, Reason: err.Error()}
	}
	return t, nil
}

// splitRange splits on the range dash, accepting "-" and the en dash.
func splitRange(s string) []string {
	s = strings.ReplaceAll(s, "–", "-")
	parts := strings.Split(s, "-")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseDayMonth(s, sep string) (int, time.Month, error) {
	fields := strings.Split(s, sep)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected DD%sMM, got %q", sep, s)
	}

	day, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day %q", fields[0])
	}
	month, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", fields[1])
	}

	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("day %d out of range", day)
	}
	return day, time.Month(month), nil
}

// dateIn rejects dates that time.Date would normalize (31.04 → 01.05).
func dateIn(year int, month time.Month, day int) (time.Time, error) {
	t := Day(year, month, day)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%02d.%02d does not exist in %d", day, int(month), year)
	}
	return t, nil
}
