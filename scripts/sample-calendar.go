package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/calendar"
	"github.com/pfrederiksen/cycling-races-ics/internal/i18n"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
	"github.com/pfrederiksen/cycling-races-ics/internal/synth"
)

func main() {
	// Sample rows as the list page would give them
	rows := []race.ListRow{
		{DateRange: "07.03", Name: "Strade Bianche", Classification: "1.UWT"},
		{DateRange: "09.05 - 01.06", Name: "Giro d'Italia", Classification: "2.UWT"},
	}
	namer := i18n.New(map[string]string{"Giro d'Italia": "环意大利"}, true)

	races := make([]*race.Summary, 0, len(rows))
	for _, row := range rows {
		s, err := race.NewSummary(row, time.Now().Year(), namer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", row.Name, err)
			os.Exit(1)
		}
		races = append(races, s)
	}

	// No stage source: multi-day races are numbered day by day
	run := synth.NewRun(time.Now())
	events := synth.New(nil).Process(context.Background(), run, races)

	var buf bytes.Buffer
	if err := calendar.Encode(&buf, events, calendar.Options{Name: "Sample races"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding calendar: %v\n", err)
		os.Exit(1)
	}

	// Write to file (owner read/write only)
	filename := "sample-cycling-races.ics"
	if err := os.WriteFile(filename, buf.Bytes(), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s (%d events)\n\n", filename, len(events))
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Print(buf.String())
}
