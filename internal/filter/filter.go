// Package filter selects which races go into the generated calendar.
//
// A Filter combines several optional criteria; a race must pass all of the
// active ones:
//   - Date window (the race overlaps DateFrom..DateTo, inclusive)
//   - Classifications (exact, case-insensitive: "1.UWT", "2.UWT")
//   - Race names (case-insensitive substring of the English name)
//   - Excluded names (case-insensitive substring; wins over Names)
//   - Stage races only (multi-day races)
//
// Example usage:
//
//	// Only the spring stage races
//	f := filter.NewFilter()
//	f.StageRacesOnly = true
//	f.DateFrom, f.DateTo, _ = filter.ParseWindow("Mar - May", 2025)
//
//	races = f.Apply(races)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

// Filter represents race selection criteria
type Filter struct {
	// Date window, compared by calendar day
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Classification filtering (case-insensitive exact match)
	Classes []string `json:"classes,omitempty"`

	// Race name filtering (case-insensitive substring match)
	Names   []string `json:"names,omitempty"`
	Exclude []string `json:"exclude,omitempty"`

	StageRacesOnly bool `json:"stage_races_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all races until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Classes: []string{},
		Names:   []string{},
		Exclude: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Classes) == 0 &&
		len(f.Names) == 0 &&
		len(f.Exclude) == 0 &&
		!f.StageRacesOnly
}

// Matches checks if a race passes all active filter criteria.
// An empty filter matches all races.
func (f *Filter) Matches(r *race.Summary) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil && r.EndDate.Before(truncate(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && r.StartDate.After(truncate(*f.DateTo)) {
		return false
	}

	if f.StageRacesOnly && r.IsSingleDay() {
		return false
	}

	if len(f.Classes) > 0 {
		matched := false
		for _, class := range f.Classes {
			if strings.EqualFold(strings.TrimSpace(class), r.Classification) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	nameLower := strings.ToLower(r.EnglishName)
	if len(f.Names) > 0 && !containsAny(nameLower, f.Names) {
		return false
	}
	if containsAny(nameLower, f.Exclude) {
		return false
	}

	return true
}

// Apply returns the races that match, keeping their order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(races []*race.Summary) []*race.Summary {
	if f.IsEmpty() {
		return races
	}

	filtered := make([]*race.Summary, 0, len(races))
	for _, r := range races {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Mar 1, 2025 | To: May 31, 2025 | Classes: 2.UWT | Stage races only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Classes) > 0 {
		parts = append(parts, fmt.Sprintf("Classes: %s", strings.Join(f.Classes, ", ")))
	}
	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("Races: %s", strings.Join(f.Names, ", ")))
	}
	if len(f.Exclude) > 0 {
		parts = append(parts, fmt.Sprintf("Excluding: %s", strings.Join(f.Exclude, ", ")))
	}
	if f.StageRacesOnly {
		parts = append(parts, "Stage races only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		StageRacesOnly: f.StageRacesOnly,
		Classes:        append([]string{}, f.Classes...),
		Names:          append([]string{}, f.Names...),
		Exclude:        append([]string{}, f.Exclude...),
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	return clone
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func truncate(t time.Time) time.Time {
	return race.Day(t.Year(), t.Month(), t.Day())
}
