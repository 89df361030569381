package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeWindow is returned when a window string is not recognized
var ErrInvalidTimeWindow = errors.New("invalid time window")

// ErrInvalidDate is returned when a date string cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// TimeWindow is a relative window anchored to "now" that bounds the timeline
type TimeWindow string

const (
	Window1W  TimeWindow = "1W"
	Window1M  TimeWindow = "1M"
	Window3M  TimeWindow = "3M"
	Window6M  TimeWindow = "6M"
	Window1Y  TimeWindow = "1Y"
	WindowAll TimeWindow = "All"
)

// TimeWindows lists every supported window in increasing span
func TimeWindows() []TimeWindow {
	return []TimeWindow{Window1W, Window1M, Window3M, Window6M, Window1Y, WindowAll}
}

// ParseTimeWindow converts a window string, case-insensitively. An empty string means All.
func ParseTimeWindow(s string) (TimeWindow, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WindowAll, nil
	}
	for _, w := range TimeWindows() {
		if strings.EqualFold(s, string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeWindow, s)
}

// Start returns the inclusive lower bound of the window relative to now.
// The second result is false for All, which has no lower bound, and for any
// value ParseTimeWindow would not return.
func (w TimeWindow) Start(now time.Time) (time.Time, bool) {
	switch w {
	case Window1W:
		return now.AddDate(0, 0, -7), true
	case Window1M:
		return now.AddDate(0, -1, 0), true
	case Window3M:
		return now.AddDate(0, -3, 0), true
	case Window6M:
		return now.AddDate(0, -6, 0), true
	case Window1Y:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// dateLayouts are the formats accepted from data sources, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDate parses a date as supplied by a data source.
// Dates without a zone are interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MonthKey formats t as the "YYYY-MM" key used to group timeline events
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
