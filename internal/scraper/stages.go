package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

// ErrStagesUnavailable means a race has no usable stage detail page.
var ErrStagesUnavailable = errors.New("stage details unavailable")

// Stage table columns.
const (
	colDate     = 0
	colDayLabel = 1
	colStage    = 3
	minCells    = 4
)

// Slugger maps a race name to its URL path segment.
type Slugger interface {
	Slug(name string) string
}

// StageExtractor reads per-day stage records from race detail pages.
type StageExtractor struct {
	fetcher  *Fetcher
	template string
	slugger  Slugger
}

// NewStageExtractor creates a StageExtractor. template must contain {slug}
// and may contain {year}.
func NewStageExtractor(fetcher *Fetcher, template string, slugger Slugger) *StageExtractor {
	if slugger == nil {
		slugger = race.NewNormalizer(nil)
	}
	return &StageExtractor{fetcher: fetcher, template: template, slugger: slugger}
}

// DetailURL returns the detail page address for a race.
func (e *StageExtractor) DetailURL(englishName string, year int) string {
	return strings.NewReplacer(
		"{slug}", e.slugger.Slug(englishName),
		"{year}", strconv.Itoa(year),
	).Replace(e.template)
}

// Stages fetches the detail page of a race and extracts its stages. Any
// fetch failure or missing stage table returns an error wrapping
// ErrStagesUnavailable.
func (e *StageExtractor) Stages(ctx context.Context, englishName string, year int) ([]race.StageRecord, error) {
	url := e.DetailURL(englishName, year)

	started := time.Now()
	body, err := e.fetcher.Get(ctx, url)
	logger.RecordTiming("fetch.detail", time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStagesUnavailable, url, err)
	}

	stages, err := ParseStages(bytes.NewReader(body), year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}

	logger.Debug("extracted stages", logger.Fields{"race": englishName, "url": url, "stages": len(stages)})
	return stages, nil
}

// ParseStages extracts stage records from a detail document. Row dates are
// "DD/MM" in year; when the month goes backwards between rows the year
// advances, so a race crossing the new year keeps ascending dates.
func ParseStages(r io.Reader, year int) ([]race.StageRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrStagesUnavailable, err)
	}

	table := findStageTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: no stages table", ErrStagesUnavailable)
	}

	records := make([]race.StageRecord, 0)
	currentYear := year
	lastMonth := time.Month(0)

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < minCells {
			return
		}

		dateText := cellText(cells.Eq(colDate))
		date, err := race.ParseDayMonth(dateText, "/", currentYear)
		if err != nil {
			logger.Debug("skipping stage row", logger.Fields{"row": i, "date": dateText})
			return
		}
		if lastMonth != 0 && date.Month() < lastMonth {
			currentYear++
			date = date.AddDate(1, 0, 0)
		}
		lastMonth = date.Month()

		records = append(records, race.NewStageRecord(
			date,
			cellText(cells.Eq(colStage)),
			cellText(cells.Eq(colDayLabel)),
		))
	})

	return records, nil
}

// findStageTable returns the table following a "Stages" heading, or the
// first table whose header row names a Stage column.
func findStageTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(cellText(h)), "stages") {
			return true
		}
		table := h.NextAllFiltered("table").First()
		if table.Length() == 0 {
			table = h.Parent().Find("table").First()
		}
		if table.Length() > 0 {
			found = table
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("thead th, tr:first-child th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
			if strings.EqualFold(cellText(th), "stage") {
				found = table
				return false
			}
			return true
		})
		return found == nil
	})
	return found
}
