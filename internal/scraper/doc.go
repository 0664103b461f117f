// Package scraper provides HTTP fetching and HTML extraction for the race
// calendar and the per-race stage pages.
//
// The list page yields one race.ListRow per calendar row. Stage pages are
// located through the race's slug and parsed into race.StageRecord values;
// a page that is missing or has no recognizable stage table is reported as
// ErrStagesUnavailable, which callers treat as an expected outcome.
package scraper
