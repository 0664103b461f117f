package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/race"
	"github.com/pfrederiksen/cycling-races-ics/internal/synth"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Year        int                    `json:"year"`
	Lang        string                 `json:"lang"`
	OutputPath  string                 `json:"output_path"`
	Races       []*race.Summary        `json:"races"`
	RaceCount   int                    `json:"race_count"`
	EventCount  int                    `json:"event_count"`
	Skipped     int                    `json:"skipped"`
	Stats       synth.Stats            `json:"stats"`
	Metrics     map[string]interface{} `json:"metrics,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.RaceCount == 0 {
		fmt.Fprintln(w, "No races found.")
	} else {
		fmt.Fprintf(w, "%d races (%d):\n", result.RaceCount, result.Year)
		for _, r := range result.Races {
			fmt.Fprintf(w, "  %s  %s\n", formatSpan(r), r.DisplayName)
			if verbose && !strings.HasPrefix(r.DisplayName, r.EnglishName) {
				fmt.Fprintf(w, "  %-11s  (%s)\n", "", r.EnglishName)
			}
		}
	}

	if result.Skipped > 0 {
		fmt.Fprintf(w, "\nSkipped %d unparseable rows\n", result.Skipped)
	}
	fmt.Fprintf(w, "\nWrote %d events to %s\n", result.EventCount, result.OutputPath)

	if verbose {
		s := result.Stats
		fmt.Fprintf(w, "  single-day: %d, detailed: %d, numbered: %d\n", s.SingleDay, s.Detailed, s.Fallback)
		if s.FilledDays > 0 || s.DroppedRecords > 0 {
			fmt.Fprintf(w, "  filled days: %d, dropped stage rows: %d\n", s.FilledDays, s.DroppedRecords)
		}
		writeMetrics(w, result.Metrics)
	}

	return nil
}

func formatSpan(r *race.Summary) string {
	if r.IsSingleDay() {
		return fmt.Sprintf("%-11s", r.StartDate.Format("01-02"))
	}
	return fmt.Sprintf("%s–%s", r.StartDate.Format("01-02"), r.EndDate.Format("01-02"))
}

func writeMetrics(w io.Writer, metrics map[string]interface{}) {
	counters, ok := metrics["counters"].(map[string]int64)
	if !ok || len(counters) == 0 {
		return
	}

	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nMetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, counters[name])
	}
}
