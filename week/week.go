// Package week resolves Monday-anchored week keys.
//
// A week key is the ISO date (YYYY-MM-DD) of the Monday that starts the week.
// All keys are computed on calendar days in UTC; time of day is discarded.
package week

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO day format used for every stored date.
const Layout = "2006-01-02"

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start returns the Monday on or before d.
func Start(d time.Time) time.Time {
	d = day(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Dates returns the seven days Monday..Sunday starting at start.
func Dates(start time.Time) [7]time.Time {
	start = day(start)
	var out [7]time.Time
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// Keys is Dates rendered as ISO day strings.
func Keys(start time.Time) [7]string {
	var out [7]string
	for i, d := range Dates(start) {
		out[i] = Key(d)
	}
	return out
}

func Key(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads an ISO day. A trailing time component, as written by some
// spreadsheet exports, is ignored.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// StartKey normalises any ISO day to the key of its week.
func StartKey(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Key(Start(t)), nil
}

// Contains reports whether date falls within the week starting at start.
// Both arguments are ISO day strings; unparsable input is never contained.
func Contains(start, date string) bool {
	s, err := Parse(start)
	if err != nil {
		return false
	}
	d, err := Parse(date)
	if err != nil {
		return false
	}
	s = Start(s)
	return !d.Before(s) && d.Before(s.AddDate(0, 0, 7))
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
