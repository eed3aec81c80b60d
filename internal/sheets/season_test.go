package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonLabel(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"first day of season", time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), "TEMPORADA 2025/2026"},
		{"mid-season autumn", time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC), "TEMPORADA 2025/2026"},
		{"after new year", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), "TEMPORADA 2025/2026"},
		{"last day of season", time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), "TEMPORADA 2025/2026"},
		{"rollover", time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), "TEMPORADA 2026/2027"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonLabel(tt.date))
		})
	}
}

func TestSeasonStart(t *testing.T) {
	start := SeasonStart(time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), start,
		"Spring dates belong to the season that started the previous July")

	start = SeasonStart(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "1-jul", DateLabel(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "21-sep", DateLabel(time.Date(2025, time.September, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "3-ene", DateLabel(time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC)), "Labels use Spanish month abbreviations")
	assert.Equal(t, "31-dic", DateLabel(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestSeasonDates(t *testing.T) {
	dates := seasonDates(time.Date(2025, time.July, 3, 18, 0, 0, 0, time.UTC))
	assert.Len(t, dates, 3, "Season start through today, inclusive")
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC), dates[2])
}

func TestColLetter(t *testing.T) {
	assert.Equal(t, "A", colLetter(0))
	assert.Equal(t, "B", colLetter(1))
	assert.Equal(t, "Z", colLetter(25))
	assert.Equal(t, "AA", colLetter(26))
	assert.Equal(t, "AO", colLetter(40))
}

func TestCellRef(t *testing.T) {
	assert.Equal(t, "'TEMPORADA 2025/2026'!B3", cellRef("TEMPORADA 2025/2026", 1, 3))
}
