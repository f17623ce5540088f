package model

import (
	"fmt"
	"time"
)

// monthLayout is the canonical period key format, e.g. "2024-03".
const monthLayout = "2006-01"

// Month identifies a calendar month, the aggregation period for totals,
// budgets, and forecasts.
type Month string

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// ParseMonth parses a "YYYY-MM" period key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Time returns the first instant of the month in UTC.
func (m Month) Time() (time.Time, error) {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", string(m), err)
	}
	return t, nil
}

// Add returns the month n periods after m. Invalid months are returned
// unchanged so callers can surface them as-is.
func (m Month) Add(n int) Month {
	t, err := m.Time()
	if err != nil {
		return m
	}
	return MonthOf(t.AddDate(0, n, 0))
}

func (m Month) String() string {
	return string(m)
}
