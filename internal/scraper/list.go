package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

// ListScraper fetches and parses the season calendar page.
type ListScraper struct {
	fetcher *Fetcher
	url     string
}

// NewListScraper creates a ListScraper for the given list page URL.
func NewListScraper(fetcher *Fetcher, url string) *ListScraper {
	return &ListScraper{fetcher: fetcher, url: url}
}

// FetchRaces fetches the list page and extracts its rows.
func (s *ListScraper) FetchRaces(ctx context.Context) ([]race.ListRow, error) {
	body, err := s.fetcher.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetching race list: %w", err)
	}
	return ParseRaces(bytes.NewReader(body))
}

// ParseRaces extracts race rows from the calendar table. Rows are returned
// in page order; missing cells are left empty for the caller to judge.
func ParseRaces(r io.Reader) ([]race.ListRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	rows := make([]race.ListRow, 0)

	table := doc.Find("div.mt10 table").First()
	if table.Length() == 0 {
		// Older templates drop the wrapper div.
		table = doc.Find("table.basic").First()
	}
	if table.Length() == 0 {
		logger.Warn("race list table not found", nil)
		return rows, nil
	}

	table.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		dateCell := tr.Find("td.cu500").First()
		if dateCell.Length() == 0 {
			dateCell = cells.First()
		}

		nameCell := tr.Find("td:nth-child(3)")
		name := cellText(nameCell.Find("a").First())
		if name == "" {
			name = cellText(nameCell)
		}

		rows = append(rows, race.ListRow{
			DateRange:      cellText(dateCell),
			Name:           name,
			Classification: cellText(tr.Find("td:nth-child(5)")),
		})
	})

	return rows, nil
}

func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
