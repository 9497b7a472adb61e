package date

import (
	"fmt"
	"time"
)

// Layout is the canonical snapshot date key format.
const Layout = "2006-01-02"

// Parse accepts a date key or a full RFC3339 timestamp and returns the day.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %s (expected %s or RFC3339)", s, Layout)
}

// Key formats a time as a snapshot date key.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the current date key in local time.
func Today() string {
	return Key(time.Now())
}
