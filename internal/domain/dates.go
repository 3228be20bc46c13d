package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in alerts, extraction and the API.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight UTC of its calendar day in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidInput)
	}
	return t, nil
}
