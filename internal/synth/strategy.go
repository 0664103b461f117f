package synth

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/calendar"
	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

// Strategy expands a multi-day race into one event per day of its span.
type Strategy interface {
	Name() string
	Generate(run *Run, s *race.Summary) []*calendar.Event
}

// Fallback numbers each day of the race: "Name - Stage n".
type Fallback struct{}

// Name implements Strategy.
func (Fallback) Name() string { return "fallback" }

// Generate implements Strategy.
func (Fallback) Generate(run *Run, s *race.Summary) []*calendar.Event {
	days := s.Days()
	events := make([]*calendar.Event, 0, days)
	for i := 0; i < days; i++ {
		events = append(events, run.newEvent(stageTitle(s, i+1), s.StartDate.AddDate(0, 0, i), "", s.Location))
	}
	return events
}

// Detailed expands a race from its stage records. Records outside the race
// span or repeating an earlier date are dropped; days without a record get
// the fallback title so every day is still covered once.
type Detailed struct {
	Stages []race.StageRecord
}

// Name implements Strategy.
func (Detailed) Name() string { return "detailed" }

// Generate implements Strategy.
func (d Detailed) Generate(run *Run, s *race.Summary) []*calendar.Event {
	byDay := make(map[time.Time]race.StageRecord, len(d.Stages))
	for _, rec := range d.Stages {
		day := truncateDay(rec.Date)
		if day.Before(s.StartDate) || day.After(s.EndDate) {
			run.Stats.DroppedRecords++
			logger.Debug("dropping stage outside race span", logger.Fields{
				"race": s.EnglishName,
				"date": day.Format("2006-01-02"),
			})
			continue
		}
		if _, dup := byDay[day]; dup {
			run.Stats.DroppedRecords++
			logger.Debug("dropping duplicate stage date", logger.Fields{
				"race": s.EnglishName,
				"date": day.Format("2006-01-02"),
			})
			continue
		}
		byDay[day] = rec
	}

	days := s.Days()
	events := make([]*calendar.Event, 0, days)
	for i := 0; i < days; i++ {
		day := s.StartDate.AddDate(0, 0, i)
		rec, ok := byDay[day]
		if !ok {
			run.Stats.FilledDays++
			events = append(events, run.newEvent(stageTitle(s, i+1), day, "", s.Location))
			continue
		}

		var title string
		switch {
		case rec.IsRestDay:
			title = restDayTitle(s)
		case rec.StageLabel == "":
			title = stageTitle(s, i+1)
		default:
			title = fmt.Sprintf("%s - %s", s.DisplayName, rec.StageLabel)
		}
		events = append(events, run.newEvent(title, day, rec.RouteDescription, s.Location))
	}
	return events
}

func stageTitle(s *race.Summary, n int) string {
	return fmt.Sprintf("%s - Stage %d", s.DisplayName, n)
}

func restDayTitle(s *race.Summary) string {
	return s.DisplayName + " - Rest Day"
}

func truncateDay(t time.Time) time.Time {
	return race.Day(t.Year(), t.Month(), t.Day())
}
