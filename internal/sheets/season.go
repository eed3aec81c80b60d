package sheets

import (
	"fmt"
	"time"
)

// The season view lives on one sheet tab per sporting season. A season runs
// from 1 July to 30 June, so "TEMPORADA 2025/2026" covers July 2025 through
// June 2026.
const seasonRolloverMonth = time.July

// Grid layout: two header rows, player names in column A from row 3, and a
// four-column metric group per calendar date starting at column B.
const (
	headerRows     = 2
	firstPlayerRow = headerRows + 1 // 1-based sheet row
	firstDateCol   = 1              // 0-based column index (column B)
	metricsPerDate = 4
)

// Per-metric column offsets inside a date group
const (
	offsetRecovery = 0
	offsetEnergy   = 1
	offsetSoreness = 2
	offsetRPE      = 3
)

// metricLabels are the row-2 sub-headers of every date group
var metricLabels = [metricsPerDate]string{"Recovery", "Energy", "Soreness", "RPE"}

// Spanish month abbreviations, matching the labels the coaching staff uses
var monthAbbrev = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// SeasonLabel returns the sheet tab name for the season containing t,
// e.g. "TEMPORADA 2025/2026".
func SeasonLabel(t time.Time) string {
	start := seasonStartYear(t)
	return fmt.Sprintf("TEMPORADA %d/%d", start, start+1)
}

// SeasonStart returns the first day of the season containing t
func SeasonStart(t time.Time) time.Time {
	return time.Date(seasonStartYear(t), seasonRolloverMonth, 1, 0, 0, 0, 0, t.Location())
}

func seasonStartYear(t time.Time) int {
	if t.Month() < seasonRolloverMonth {
		return t.Year() - 1
	}
	return t.Year()
}

// DateLabel returns the header label for a calendar date, e.g. "21-jul"
func DateLabel(d time.Time) string {
	return fmt.Sprintf("%d-%s", d.Day(), monthAbbrev[d.Month()-1])
}

// seasonDates enumerates every calendar date from the season start through
// the day containing now, inclusive
func seasonDates(now time.Time) []time.Time {
	start := SeasonStart(now)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// colLetter converts a 0-based column index to its A1 letter form
func colLetter(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// cellRef builds an A1 cell reference on the given sheet, with a 0-based
// column and a 1-based row
func cellRef(sheetName string, col, row int) string {
	return fmt.Sprintf("'%s'!%s%d", sheetName, colLetter(col), row)
}
