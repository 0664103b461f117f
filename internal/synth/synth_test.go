package synth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/calendar"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

var (
	errUnavailable = errors.New("unavailable")
	runStamp       = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
)

// fakeSource returns canned stage records keyed by English name.
type fakeSource struct {
	stages map[string][]race.StageRecord
	errs   map[string]error
	calls  []string
}

func (f *fakeSource) Stages(_ context.Context, name string, year int) ([]race.StageRecord, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s/%d", name, year))
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if stages, ok := f.stages[name]; ok {
		return stages, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnavailable, name)
}

func newTestRun() *Run {
	run := NewRun(runStamp)
	n := 0
	run.NewUID = func() string {
		n++
		return fmt.Sprintf("uid-%03d", n)
	}
	return run
}

func summary(display, english string, start, end time.Time) *race.Summary {
	return &race.Summary{
		DisplayName:    display,
		EnglishName:    english,
		StartDate:      start,
		EndDate:        end,
		Classification: "2.UWT",
	}
}

// assertSpan checks that events cover [start, end] once per day, in order.
func assertSpan(t *testing.T, events []*calendar.Event, start, end time.Time) {
	t.Helper()
	want := race.DaysBetween(start, end) + 1
	if len(events) != want {
		t.Fatalf("got %d events, want %d", len(events), want)
	}
	for i, evt := range events {
		if day := start.AddDate(0, 0, i); !evt.Date.Equal(day) {
			t.Errorf("event %d date = %s, want %s", i, evt.Date.Format("2006-01-02"), day.Format("2006-01-02"))
		}
	}
}

func TestSynthesize_SingleDay(t *testing.T) {
	src := &fakeSource{}
	s := New(src)
	run := newTestRun()

	day := race.Day(2025, time.March, 7)
	events := s.Synthesize(context.Background(), run, summary("Strade Bianche (1.UWT)", "Strade Bianche", day, day))

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Title != "Strade Bianche (1.UWT)" {
		t.Errorf("Title = %q, want %q", events[0].Title, "Strade Bianche (1.UWT)")
	}
	if !events[0].Date.Equal(day) {
		t.Errorf("Date = %s, want 2025-03-07", events[0].Date)
	}
	if len(src.calls) != 0 {
		t.Errorf("single-day race should not look up stages, got calls %v", src.calls)
	}
	if run.Stats.SingleDay != 1 || len(run.Events) != 1 {
		t.Errorf("run = %+v, events %d", run.Stats, len(run.Events))
	}
}

func TestSynthesize_FallbackWhenUnavailable(t *testing.T) {
	var slept []time.Duration
	src := &fakeSource{}
	s := New(src,
		WithDelay(2*time.Second),
		WithSleep(func(_ context.Context, d time.Duration) { slept = append(slept, d) }),
		WithUnavailableError(errUnavailable),
	)
	run := newTestRun()

	start, end := race.Day(2025, time.May, 9), race.Day(2025, time.June, 1)
	events := s.Synthesize(context.Background(), run, summary("Giro d'Italia (2.UWT)", "Giro d'Italia", start, end))

	assertSpan(t, events, start, end)
	if len(events) != 24 {
		t.Fatalf("got %d events, want 24", len(events))
	}
	for i, evt := range events {
		if want := fmt.Sprintf("Giro d'Italia (2.UWT) - Stage %d", i+1); evt.Title != want {
			t.Errorf("event %d title = %q, want %q", i, evt.Title, want)
		}
		if evt.Description != "" {
			t.Errorf("fallback event %d should have no description, got %q", i, evt.Description)
		}
	}

	if len(src.calls) != 1 || src.calls[0] != "Giro d'Italia/2025" {
		t.Errorf("stage lookups = %v", src.calls)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Errorf("pacing sleeps = %v, want one 2s sleep", slept)
	}
	if run.Stats.Fallback != 1 || run.Stats.Detailed != 0 {
		t.Errorf("stats = %+v", run.Stats)
	}
}

func TestSynthesize_Detailed(t *testing.T) {
	start, end := race.Day(2025, time.July, 12), race.Day(2025, time.July, 15)
	src := &fakeSource{stages: map[string][]race.StageRecord{
		"Tour de France": {
			race.NewStageRecord(race.Day(2025, time.July, 12), "Stage 8 | Saint-Méen-le-Grand - Laval", "Sa"),
			race.NewStageRecord(race.Day(2025, time.July, 13), "Stage 9 | Chinon - Châteauroux", "Su"),
			race.NewStageRecord(race.Day(2025, time.July, 14), "Rest day", ""),
			race.NewStageRecord(race.Day(2025, time.July, 15), "Mountain stage to Mont-Dore", "Tu"),
		},
	}}
	s := New(src)
	run := newTestRun()

	events := s.Synthesize(context.Background(), run, summary("Tour de France (2.UWT)", "Tour de France", start, end))

	assertSpan(t, events, start, end)

	wantTitles := []string{
		"Tour de France (2.UWT) - Stage 8",
		"Tour de France (2.UWT) - Stage 9",
		"Tour de France (2.UWT) - Rest Day",
		"Tour de France (2.UWT) - Mountain stage to Mont-Dore",
	}
	wantDesc := []string{"Saint-Méen-le-Grand - Laval", "Chinon - Châteauroux", "", ""}
	for i, evt := range events {
		if evt.Title != wantTitles[i] {
			t.Errorf("event %d title = %q, want %q", i, evt.Title, wantTitles[i])
		}
		if evt.Description != wantDesc[i] {
			t.Errorf("event %d description = %q, want %q", i, evt.Description, wantDesc[i])
		}
	}
	if run.Stats.Detailed != 1 || run.Stats.FilledDays != 0 {
		t.Errorf("stats = %+v", run.Stats)
	}
}

func TestSynthesize_DetailedReconcilesSpan(t *testing.T) {
	start, end := race.Day(2025, time.March, 9), race.Day(2025, time.March, 16)
	src := &fakeSource{stages: map[string][]race.StageRecord{
		"Paris-Nice": {
			race.NewStageRecord(race.Day(2025, time.March, 8), "Stage 0 | Too early", "Sa"),
			race.NewStageRecord(race.Day(2025, time.March, 9), "Stage 1 | Le Perray-en-Yvelines", "Su"),
			race.NewStageRecord(race.Day(2025, time.March, 9), "Stage 1 | Duplicate", "Su"),
			race.NewStageRecord(race.Day(2025, time.March, 11), "Stage 3 (TTT) | Nevers", "Tu"),
			race.NewStageRecord(race.Day(2025, time.March, 12), "-", "We"),
			race.NewStageRecord(race.Day(2025, time.March, 17), "Stage 9 | Too late", "Mo"),
		},
	}}
	s := New(src)
	run := newTestRun()

	events := s.Synthesize(context.Background(), run, summary("Paris-Nice (2.UWT)", "Paris-Nice", start, end))

	assertSpan(t, events, start, end)

	if events[0].Title != "Paris-Nice (2.UWT) - Stage 1" || events[0].Description != "Le Perray-en-Yvelines" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Title != "Paris-Nice (2.UWT) - Stage 2" {
		t.Errorf("missing day should use numbered title, got %q", events[1].Title)
	}
	if events[2].Title != "Paris-Nice (2.UWT) - Stage 3 (TTT)" {
		t.Errorf("third event title = %q", events[2].Title)
	}
	if events[3].Title != "Paris-Nice (2.UWT) - Stage 4" {
		t.Errorf("uninformative row should use numbered title, got %q", events[3].Title)
	}
	if run.Stats.DroppedRecords != 3 {
		t.Errorf("DroppedRecords = %d, want 3", run.Stats.DroppedRecords)
	}
	if run.Stats.FilledDays != 5 {
		t.Errorf("FilledDays = %d, want 5", run.Stats.FilledDays)
	}
}

func TestSynthesize_EmptyAndFailingSources(t *testing.T) {
	start, end := race.Day(2025, time.August, 23), race.Day(2025, time.August, 25)

	tests := []struct {
		name string
		src  StageSource
	}{
		{"empty stage list", &fakeSource{stages: map[string][]race.StageRecord{"Vuelta": {}}}},
		{"transport failure", &fakeSource{errs: map[string]error{"Vuelta": errors.New("connection reset")}}},
		{"no source", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slept := 0
			s := New(tt.src, WithDelay(time.Second), WithSleep(func(context.Context, time.Duration) { slept++ }))
			run := newTestRun()

			events := s.Synthesize(context.Background(), run, summary("Vuelta (2.UWT)", "Vuelta", start, end))

			assertSpan(t, events, start, end)
			if events[2].Title != "Vuelta (2.UWT) - Stage 3" {
				t.Errorf("title = %q", events[2].Title)
			}
			if run.Stats.Fallback != 1 {
				t.Errorf("stats = %+v", run.Stats)
			}
			if tt.src == nil && slept != 0 {
				t.Errorf("no lookups means no pacing, slept %d times", slept)
			}
			if tt.src != nil && slept != 1 {
				t.Errorf("slept %d times, want 1", slept)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	src := &fakeSource{stages: map[string][]race.StageRecord{
		"Tour Down Under": {
			race.NewStageRecord(race.Day(2025, time.January, 21), "Stage 1 | Prospect - Gumeracha", "Tu"),
			race.NewStageRecord(race.Day(2025, time.January, 22), "Stage 2 | Norwood - Lobethal", "We"),
		},
	}}
	s := New(src)
	run := newTestRun()

	races := []*race.Summary{
		summary("Tour Down Under (2.UWT)", "Tour Down Under", race.Day(2025, time.January, 21), race.Day(2025, time.January, 22)),
		summary("Omloop (1.UWT)", "Omloop", race.Day(2025, time.March, 1), race.Day(2025, time.March, 1)),
		summary("Late Race (2.UWT)", "Late Race", race.Day(2025, time.December, 30), race.Day(2026, time.January, 2)),
	}

	events := s.Process(context.Background(), run, races)

	if len(events) != 2+1+4 {
		t.Fatalf("got %d events, want 7", len(events))
	}
	assertSpan(t, events[:2], races[0].StartDate, races[0].EndDate)
	assertSpan(t, events[3:], races[2].StartDate, races[2].EndDate)

	seen := make(map[string]bool)
	for _, evt := range events {
		if seen[evt.UID] {
			t.Errorf("duplicate UID %s", evt.UID)
		}
		seen[evt.UID] = true
		if !evt.Timestamp.Equal(runStamp) {
			t.Errorf("event %q timestamp = %s, want shared run timestamp", evt.Title, evt.Timestamp)
		}
	}

	if run.Stats.Races != 3 || run.Stats.Detailed != 1 || run.Stats.SingleDay != 1 || run.Stats.Fallback != 1 {
		t.Errorf("stats = %+v", run.Stats)
	}
	if len(src.calls) != 2 {
		t.Errorf("stage lookups = %v, want 2", src.calls)
	}
}

func TestProcess_Empty(t *testing.T) {
	run := NewRun(runStamp)
	events := New(&fakeSource{}).Process(context.Background(), run, nil)
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestNewRun_UUIDs(t *testing.T) {
	run := NewRun(runStamp.In(time.FixedZone("CET", 3600)))
	if run.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp location = %s, want UTC", run.Timestamp.Location())
	}

	a, b := run.NewUID(), run.NewUID()
	if a == b || len(a) != 36 {
		t.Errorf("NewUID() = %q, %q: want distinct UUID strings", a, b)
	}
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sleepContext(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sleepContext should return when the context is cancelled")
	}
}
