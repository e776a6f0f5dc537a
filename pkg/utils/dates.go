package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format for trip dates.
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp and returns
// the date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
