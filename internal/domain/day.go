package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the canonical on-disk and wire format of a day.
const DayLayout = "2006-01-02"

// dayLayouts are tried in order. Ambiguous inputs such as 03/04/2024
// resolve month-first.
var dayLayouts = []string{DayLayout, "01/02/2006", "02/01/2006"}

// ParseDay accepts a day in any supported layout and returns it in
// DayLayout.
func ParseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: date is required", ErrValidation)
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DayLayout), nil
		}
	}
	return "", fmt.Errorf("%w: date %q does not match YYYY-MM-DD, MM/DD/YYYY or DD/MM/YYYY", ErrValidation, s)
}

// DayOf returns the local calendar day of t.
func DayOf(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// DayTime returns midnight UTC of a canonical day.
func DayTime(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}
