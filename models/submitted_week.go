package models

import (
	"timetracker/store"
)

// LockStatus is the submission state of one user's week.
type LockStatus string

const (
	// LockUnlocked is the implicit state: no SubmittedWeek record exists.
	LockUnlocked        LockStatus = "Unlocked"
	LockSubmitted       LockStatus = "Submitted"
	LockUnlockRequested LockStatus = "Unlock Requested"
)

// TimestampLayout is how submitted_at is written.
const TimestampLayout = "2006-01-02 15:04:05"

type SubmittedWeek struct {
	UserID      int        `json:"user_id"`
	WeekStart   string     `json:"week_start"`
	Status      LockStatus `json:"status"`
	SubmittedAt string     `json:"submitted_at"`
}

func SubmittedWeekFromRecord(r store.Record) SubmittedWeek {
	return SubmittedWeek{
		UserID:      atoi(r["user_id"]),
		WeekStart:   day(r["week_start"]),
		Status:      LockStatus(r["status"]),
		SubmittedAt: r["submitted_at"],
	}
}

func (s SubmittedWeek) Record() store.Record {
	return store.Record{
		"user_id":      itoa(s.UserID),
		"week_start":   s.WeekStart,
		"status":       string(s.Status),
		"submitted_at": s.SubmittedAt,
	}
}

func SubmittedWeeksFromRecords(records []store.Record) []SubmittedWeek {
	out := make([]SubmittedWeek, 0, len(records))
	for _, r := range records {
		out = append(out, SubmittedWeekFromRecord(r))
	}
	return out
}

func SubmittedWeeksToRecords(weeks []SubmittedWeek) []store.Record {
	out := make([]store.Record, len(weeks))
	for i, s := range weeks {
		out[i] = s.Record()
	}
	return out
}
