package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "plain date",
			input:    "2024-01-31",
			expected: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "rfc3339",
			input:    "2024-01-31T23:00:00Z",
			expected: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
		},
		{
			name:     "date and time without zone",
			input:    "2024-01-31 23:00:00",
			expected: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, result.Equal(tt.expected), "Expected %v, got %v", tt.expected, result)
		})
	}
}

func TestEndOfDay(t *testing.T) {
	input := time.Date(2024, 1, 31, 9, 30, 15, 0, time.UTC)
	result := EndOfDay(input)

	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999_000_000, time.UTC), result)

	// the boundary cases around the day-granularity end date rule
	lateOnLastDay := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	justPastMidnight := time.Date(2024, 2, 1, 0, 0, 1, 0, time.UTC)
	assert.False(t, lateOnLastDay.After(result))
	assert.True(t, justPastMidnight.After(result))
}

func TestDayWindow(t *testing.T) {
	start, end := DayWindow(time.Date(2024, 3, 15, 14, 22, 5, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name          string
		input         time.Time
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			name:          "mid-month date",
			input:         time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			expectedStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 3, 31, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:          "leap february",
			input:         time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			expectedStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:          "december rolls into the new year correctly",
			input:         time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC),
			expectedStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2023, 12, 31, 23, 59, 59, 999_000_000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthWindow(tt.input)
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, tt.expectedEnd, end)
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "Ali-Khan", Slugify("Ali Khan"))
	assert.Equal(t, "Ali-Khan", Slugify("  Ali   Khan  "))
	assert.Equal(t, "Ali", Slugify("Ali"))
	assert.Equal(t, "", Slugify("   "))
}
