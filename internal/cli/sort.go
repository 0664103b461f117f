package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate SortOrder = "date"
	SortByName SortOrder = "name"
)

// sortRaces sorts races in place. The sort is stable so ties keep list order.
func sortRaces(races []*race.Summary, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(races, func(i, j int) bool {
			return compareByDate(races[i], races[j])
		})
	case SortByName:
		sort.SliceStable(races, func(i, j int) bool {
			a, b := strings.ToLower(races[i].EnglishName), strings.ToLower(races[j].EnglishName)
			if a != b {
				return a < b
			}
			return compareByDate(races[i], races[j])
		})
	}
}

// sortedCopy returns races sorted by order, leaving the input untouched.
func sortedCopy(races []*race.Summary, order SortOrder) []*race.Summary {
	out := make([]*race.Summary, len(races))
	copy(out, races)
	sortRaces(out, order)
	return out
}

// compareByDate orders by start date, then by end date, so shorter races
// starting the same day come first.
func compareByDate(a, b *race.Summary) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.Before(b.StartDate)
	}
	return a.EndDate.Before(b.EndDate)
}
