package race

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// StageClass is the interpretation of one stage-table row.
type StageClass struct {
	IsRestDay        bool
	StageLabel       string
	RouteDescription string
}

var (
	restDayMarkers = []string{"rest day", "restday", "rest-day"}

	// stageToken matches "Stage 3", "Stage 12b", "Prologue".
	stageToken = regexp.MustCompile(`(?i)\b(stage|prologue)\b`)

	// Separators between a stage identifier and its route, first match wins.
	stageSeparators = []string{"|", ":", " - ", "–", "—"}
)

// ClassifyStage interprets the stage cell text of a detail row. dayLabel is
// the weekday cell; it is empty on days where no stage is raced.
// Unknown formats degrade to a verbatim label.
func ClassifyStage(text, dayLabel string) StageClass {
	text = collapseSpaces(text)
	dayLabel = strings.TrimSpace(dayLabel)

	if isRestMarker(text) || (dayLabel == "" && !informative(text)) {
		return StageClass{IsRestDay: true}
	}
	if !informative(text) {
		// The day is raced but nothing useful was published for it.
		return StageClass{}
	}

	if stageToken.MatchString(text) {
		if label, route, ok := splitStage(text); ok {
			return StageClass{StageLabel: label, RouteDescription: route}
		}
	}
	return StageClass{StageLabel: text}
}

// NewStageRecord classifies a row and attaches its date.
func NewStageRecord(date time.Time, text, dayLabel string) StageRecord {
	class := ClassifyStage(text, dayLabel)
	return StageRecord{
		Date:             date,
		IsRestDay:        class.IsRestDay,
		RawText:          strings.TrimSpace(text),
		StageLabel:       class.StageLabel,
		RouteDescription: class.RouteDescription,
	}
}

func splitStage(text string) (string, string, bool) {
	idx, width := -1, 0
	for _, sep := range stageSeparators {
		if i := strings.Index(text, sep); i >= 0 && (idx < 0 || i < idx) {
			idx, width = i, len(sep)
		}
	}
	if idx <= 0 {
		return "", "", false
	}
	label := strings.TrimSpace(text[:idx])
	route := strings.TrimSpace(text[idx+width:])
	if label == "" {
		return "", "", false
	}
	return label, route, true
}

func isRestMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range restDayMarkers {
		if lower == m {
			return true
		}
	}
	return false
}

// informative reports whether text carries any letter or digit.
func informative(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
