package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsTradingDay(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-06-02", true},  // Monday
		{"2025-06-06", true},  // Friday
		{"2025-06-07", false}, // Saturday
		{"2025-06-08", false}, // Sunday
		{"2025-07-04", false}, // Independence Day
		{"2025-07-01", false}, // Canada Day
		{"2025-12-25", false},
		{"2025-12-24", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTradingDay(date(tt.date)), "IsTradingDay(%s)", tt.date)
	}
}

func TestPreviousTradingDay(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-06-03", "2025-06-02"}, // Tuesday -> Monday
		{"2025-06-02", "2025-05-30"}, // Monday -> prior Friday
		{"2025-06-08", "2025-06-06"}, // Sunday -> Friday
		{"2025-07-07", "2025-07-03"}, // Monday after July 4th -> Thursday
		{"2025-01-02", "2024-12-31"}, // day after New Year's -> Dec 31
	}
	for _, tt := range tests {
		got, err := PreviousTradingDay(date(tt.date))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Format(DateFormat), "PreviousTradingDay(%s)", tt.date)
	}
}

func TestNextTradingDay(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-06-06", "2025-06-09"}, // Friday -> Monday
		{"2025-07-03", "2025-07-07"}, // Thursday before July 4th -> Monday
		{"2025-12-24", "2025-12-29"}, // Christmas Eve -> Dec 29 (25th and 26th closed)
	}
	for _, tt := range tests {
		got, err := NextTradingDay(date(tt.date))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Format(DateFormat), "NextTradingDay(%s)", tt.date)
	}
}

func TestShouldCompare(t *testing.T) {
	assert.True(t, ShouldCompare(date("2025-06-03"), date("2025-06-02")))
	assert.True(t, ShouldCompare(date("2025-06-02"), date("2025-05-30")))

	// Weekend on either side
	assert.False(t, ShouldCompare(date("2025-06-07"), date("2025-06-06")))
	assert.False(t, ShouldCompare(date("2025-06-09"), date("2025-06-07")))

	// Not the immediately previous trading day
	assert.False(t, ShouldCompare(date("2025-06-04"), date("2025-06-02")))
}

func TestNoChangeReason(t *testing.T) {
	assert.Equal(t, "Markets closed - Weekend", NoChangeReason(date("2025-06-07")))
	assert.Equal(t, "Markets closed - Holiday", NoChangeReason(date("2025-07-04")))
	assert.Equal(t, "Previous trading day is 4 days back (2025-07-03)", NoChangeReason(date("2025-07-07")))
	assert.Equal(t, "", NoChangeReason(date("2025-06-03")))
}
