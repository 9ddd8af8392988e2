package domain

import (
	"fmt"
	"sort"
)

// DateRange is an inclusive interval of days.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewDateRange parses both bounds and checks from <= to.
func NewDateRange(from, to string) (DateRange, error) {
	f, err := ParseDay(from)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	t, err := ParseDay(to)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	if f > t {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, f, t)
	}
	return DateRange{From: f, To: t}, nil
}

// Contains reports whether day falls inside r. Canonical days order
// lexically.
func (r DateRange) Contains(day string) bool {
	return r.From <= day && day <= r.To
}

// FilterRange returns the entries whose day lies in r, keeping their
// order.
func FilterRange(entries []Entry, r DateRange) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Day) {
			out = append(out, e)
		}
	}
	return out
}

// SortByDay orders entries ascending by day in place.
func SortByDay(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
}
