package models

import (
	"github.com/shopspring/decimal"

	"timetracker/store"
)

// TimeEntry is the hours one user booked on one client for one day.
type TimeEntry struct {
	UserID    int             `json:"user_id"`
	ClientID  int             `json:"client_id"`
	Date      string          `json:"date"`
	Hours     decimal.Decimal `json:"hours"`
	WeekStart string          `json:"week_start"`
}

func TimeEntryFromRecord(r store.Record) TimeEntry {
	return TimeEntry{
		UserID:    atoi(r["user_id"]),
		ClientID:  atoi(r["client_id"]),
		Date:      day(r["date"]),
		Hours:     parseDecimal(r["hours"]),
		WeekStart: day(r["week_start"]),
	}
}

func (e TimeEntry) Record() store.Record {
	return store.Record{
		"user_id":    itoa(e.UserID),
		"client_id":  itoa(e.ClientID),
		"date":       e.Date,
		"hours":      e.Hours.String(),
		"week_start": e.WeekStart,
	}
}

func TimeEntriesFromRecords(records []store.Record) []TimeEntry {
	out := make([]TimeEntry, 0, len(records))
	for _, r := range records {
		out = append(out, TimeEntryFromRecord(r))
	}
	return out
}

func TimeEntriesToRecords(entries []TimeEntry) []store.Record {
	out := make([]store.Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record()
	}
	return out
}
