package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/race"
	"github.com/pfrederiksen/cycling-races-ics/internal/synth"
)

func sampleRaces() []*race.Summary {
	return []*race.Summary{
		{
			DisplayName:    "Tour de France (2.UWT)",
			EnglishName:    "Tour de France",
			StartDate:      race.Day(2025, time.July, 5),
			EndDate:        race.Day(2025, time.July, 27),
			Classification: "2.UWT",
		},
		{
			DisplayName:    "斯特拉德比安基 Strade Bianche (1.UWT)",
			EnglishName:    "Strade Bianche",
			StartDate:      race.Day(2025, time.March, 8),
			EndDate:        race.Day(2025, time.March, 8),
			Classification: "1.UWT",
		},
		{
			DisplayName:    "Amstel Gold Race (1.UWT)",
			EnglishName:    "Amstel Gold Race",
			StartDate:      race.Day(2025, time.April, 20),
			EndDate:        race.Day(2025, time.April, 20),
			Classification: "1.UWT",
		},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	result := &OutputResult{
		Year:       2025,
		OutputPath: "/tmp/cycling_races_bilingual.ics",
		Races:      sampleRaces(),
		RaceCount:  3,
		EventCount: 25,
		Stats:      synth.Stats{Races: 3, SingleDay: 2, Detailed: 1},
		Metrics: map[string]interface{}{
			"counters": map[string]int64{"races.parsed": 3, "events.detailed": 23},
		},
	}

	tests := []struct {
		name    string
		verbose bool
		want    []string
		notWant []string
	}{
		{
			name: "plain",
			want: []string{
				"3 races (2025):",
				"07-05–07-27  Tour de France (2.UWT)",
				"03-08        斯特拉德比安基 Strade Bianche (1.UWT)",
				"Wrote 25 events to /tmp/cycling_races_bilingual.ics",
			},
			notWant: []string{"Metrics:", "(Strade Bianche)"},
		},
		{
			name:    "verbose",
			verbose: true,
			want: []string{
				"(Strade Bianche)",
				"single-day: 2, detailed: 1, numbered: 0",
				"Metrics:",
				"events.detailed: 23",
				"races.parsed: 3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteOutput(&buf, result, FormatText, tt.verbose); err != nil {
				t.Fatalf("WriteOutput() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, &OutputResult{}, OutputFormat("yaml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSortRaces(t *testing.T) {
	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"date", SortByDate, []string{"Strade Bianche", "Amstel Gold Race", "Tour de France"}},
		{"name", SortByName, []string{"Amstel Gold Race", "Strade Bianche", "Tour de France"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			races := sampleRaces()
			sorted := sortedCopy(races, tt.order)

			for i, name := range tt.want {
				if sorted[i].EnglishName != name {
					t.Errorf("position %d = %q, want %q", i, sorted[i].EnglishName, name)
				}
			}
			if races[0].EnglishName != "Tour de France" {
				t.Error("sortedCopy modified its input")
			}
		})
	}
}

func TestSortRaces_SameStart(t *testing.T) {
	day := race.Day(2025, time.June, 8)
	races := []*race.Summary{
		{EnglishName: "Long", StartDate: day, EndDate: day.AddDate(0, 0, 7)},
		{EnglishName: "Short", StartDate: day, EndDate: day},
	}
	sortRaces(races, SortByDate)
	if races[0].EnglishName != "Short" {
		t.Errorf("first = %q, want the single-day race", races[0].EnglishName)
	}
}
