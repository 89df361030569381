package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeWindow
		wantErr bool
	}{
		{"1W", Window1W, false},
		{"1m", Window1M, false},
		{"3M", Window3M, false},
		{"6M", Window6M, false},
		{"1Y", Window1Y, false},
		{"all", WindowAll, false},
		{"", WindowAll, false},
		{"2W", "", true},
		{"forever", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeWindow(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTimeWindow))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeWindowStart(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		window  TimeWindow
		want    time.Time
		bounded bool
	}{
		{Window1W, time.Date(2024, time.March, 24, 12, 0, 0, 0, time.UTC), true},
		// AddDate normalizes Feb 31 to Mar 2
		{Window1M, time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC), true},
		{Window3M, time.Date(2023, time.December, 31, 12, 0, 0, 0, time.UTC), true},
		{Window6M, time.Date(2023, time.October, 1, 12, 0, 0, 0, time.UTC), true},
		{Window1Y, time.Date(2023, time.March, 31, 12, 0, 0, 0, time.UTC), true},
		{WindowAll, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			got, bounded := tt.window.Start(now)
			assert.Equal(t, tt.bounded, bounded)
			assert.True(t, tt.want.Equal(got), "Start() = %s, want %s", got, tt.want)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("accepted layouts", func(t *testing.T) {
		inputs := map[string]time.Time{
			"2023-01-05":                time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			"2023-01-05T10:30:00Z":      time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC),
			"2023-01-05T10:30:00":       time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC),
			"2023-01-05 10:30":          time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC),
			" 2023-01-05 ":              time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			"2023-01-05T10:30:00+02:00": time.Date(2023, 1, 5, 8, 30, 0, 0, time.UTC),
		}
		for in, want := range inputs {
			got, err := ParseDate(in)
			require.NoError(t, err, in)
			assert.True(t, want.Equal(got), "ParseDate(%q) = %s, want %s", in, got, want)
		}
	})

	t.Run("rejected input", func(t *testing.T) {
		for _, in := range []string{"", "yesterday", "2023-13-01", "01/05/2023"} {
			_, err := ParseDate(in)
			require.Error(t, err, in)
			assert.True(t, errors.Is(err, ErrInvalidDate), in)
		}
	})
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2023-01", MonthKey(time.Date(2023, 1, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12", MonthKey(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)))
}
