package services

import (
	"testing"
	"time"

	apperrors "tesla-crm/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reference: Wednesday 2025-08-13 15:04:05 UTC
var refNow = time.Date(2025, time.August, 13, 15, 4, 5, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveNamedRanges(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"today", day(2025, 8, 13), day(2025, 8, 14)},
		{"yesterday", day(2025, 8, 12), day(2025, 8, 13)},
		{"this_week", day(2025, 8, 11), day(2025, 8, 14)},
		{"last_week", day(2025, 8, 4), day(2025, 8, 11)},
		{"this_month", day(2025, 8, 1), day(2025, 8, 14)},
		{"last_month", day(2025, 7, 1), day(2025, 8, 1)},
		{"this_quarter", day(2025, 7, 1), day(2025, 8, 14)},
		{"last_quarter", day(2025, 4, 1), day(2025, 7, 1)},
		{"this_year", day(2025, 1, 1), day(2025, 8, 14)},
		{"last_year", day(2024, 1, 1), day(2025, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ResolveTimeRange(tt.name, "", "", refNow)
			require.NoError(t, err)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
		})
	}
}

func TestResolveDefaultsToToday(t *testing.T) {
	r, err := ResolveTimeRange("", "", "", refNow)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 13), r.Start)
}

func TestWeekStartsOnMonday(t *testing.T) {
	// Sunday belongs to the week that started six days earlier
	sunday := time.Date(2025, time.August, 17, 10, 0, 0, 0, time.UTC)
	r, err := ResolveTimeRange("this_week", "", "", sunday)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 11), r.Start)

	monday := time.Date(2025, time.August, 11, 0, 0, 0, 0, time.UTC)
	r, err = ResolveTimeRange("this_week", "", "", monday)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 11), r.Start)
}

func TestNamedRangesStartBeforeEnd(t *testing.T) {
	names := []string{
		"today", "yesterday", "this_week", "last_week", "this_month",
		"last_month", "this_quarter", "last_quarter", "this_year", "last_year",
	}

	for _, name := range names {
		r, err := ResolveTimeRange(name, "", "", refNow)
		require.NoError(t, err, name)
		assert.True(t, r.Start.Before(r.End), "start not before end for %s", name)
	}
}

func TestResolveCustomRange(t *testing.T) {
	r, err := ResolveTimeRange("custom", "2025-01-10", "2025-01-20", refNow)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 10), r.Start)
	// end date is inclusive
	assert.Equal(t, day(2025, 1, 21), r.End)
}

func TestResolveCustomRangeSingleDay(t *testing.T) {
	r, err := ResolveTimeRange("custom", "2025-01-10", "2025-01-10", refNow)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 10), r.Start)
	assert.Equal(t, day(2025, 1, 11), r.End)
}

func TestResolveCustomRangeErrors(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
	}{
		{"missing both", "", ""},
		{"missing end", "2025-01-10", ""},
		{"missing start", "", "2025-01-10"},
		{"inverted bounds", "2025-01-20", "2025-01-10"},
		{"garbage start", "not-a-date", "2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTimeRange("custom", tt.startDate, tt.endDate, refNow)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestCurrentRangesEndAtToday(t *testing.T) {
	// running periods stop at the end of today instead of covering the
	// whole calendar period
	for _, name := range []string{"this_week", "this_month", "this_quarter", "this_year"} {
		r, err := ResolveTimeRange(name, "", "", refNow)
		require.NoError(t, err, name)
		assert.Equal(t, day(2025, 8, 14), r.End, name)
	}
}

func TestResolveUnknownRange(t *testing.T) {
	_, err := ResolveTimeRange("fortnight", "", "", refNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestQuarterBoundaries(t *testing.T) {
	tests := []struct {
		now     time.Time
		start   time.Time
		end     time.Time
	}{
		{day(2025, 1, 15), day(2025, 1, 1), day(2025, 1, 16)},
		{day(2025, 3, 31), day(2025, 1, 1), day(2025, 4, 1)},
		{day(2025, 4, 1), day(2025, 4, 1), day(2025, 4, 2)},
		{day(2025, 12, 31), day(2025, 10, 1), day(2026, 1, 1)},
	}

	for _, tt := range tests {
		r, err := ResolveTimeRange("this_quarter", "", "", tt.now)
		require.NoError(t, err)
		assert.Equal(t, tt.start, r.Start, tt.now)
		assert.Equal(t, tt.end, r.End, tt.now)
	}
}
