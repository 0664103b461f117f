// Package cli implements the command-line interface for cycling-races-ics.
//
// The cli package provides the Cobra root command. It loads the YAML
// configuration, applies flag overrides, fetches the season's race list,
// expands every race into day events and writes the ICS calendar. After the
// calendar is written the fetched races are reported in text or JSON form.
package cli
