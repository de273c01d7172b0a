package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBorough(t *testing.T) {
	tests := []struct {
		input string
		want  Borough
		ok    bool
	}{
		{"MANHATTAN", Manhattan, true},
		{" brooklyn ", Brooklyn, true},
		{"Staten Island", StatenIsland, true},
		{"(null)", Borough("(NULL)"), false},
		{"", Borough(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseBorough(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBorough_Names(t *testing.T) {
	assert.Equal(t, "staten_island", StatenIsland.Slug())
	assert.Equal(t, "Staten Island", StatenIsland.Title())
	assert.Equal(t, "bronx", Bronx.Slug())
	assert.Equal(t, "Bronx", Bronx.Title())
	assert.Len(t, Boroughs, 5)
}

func TestAddMonths(t *testing.T) {
	nov := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), AddMonths(nov, 2))
	assert.Equal(t, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), AddMonths(nov, 12))
}

func TestMonthStart(t *testing.T) {
	ts := time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), MonthStart(ts))
}

func TestCleanSummary_TotalDropped(t *testing.T) {
	s := CleanSummary{Dropped: map[DropReason]int{DropBadReportDate: 3, DropOutOfBounds: 2}}
	assert.Equal(t, 5, s.TotalDropped())
}
