/*
Package lock is the weekly submission state machine.

Each (user, week) pair is Unlocked while no SubmittedWeek record exists for
it, Submitted after the user submits, and UnlockRequested once the user asks
an admin to reopen it. Approval removes the record, which returns the week to
Unlocked. The functions here are pure: they take the current SubmittedWeeks
collection and return the complete collection to persist.
*/
package lock

import (
	"fmt"
	"time"

	"timetracker/apperr"
	"timetracker/models"
)

// Key identifies one user's week.
type Key struct {
	UserID    int
	WeekStart string
}

func (k Key) String() string {
	return fmt.Sprintf("user %d week %s", k.UserID, k.WeekStart)
}

func (k Key) matches(s models.SubmittedWeek) bool {
	return s.UserID == k.UserID && s.WeekStart == k.WeekStart
}

// Lookup returns the index of the first record for key (-1 when none) and
// how many records match. More than one match means the table is corrupt;
// the first one wins.
func Lookup(records []models.SubmittedWeek, key Key) (int, int) {
	idx, count := -1, 0
	for i, r := range records {
		if !key.matches(r) {
			continue
		}
		if idx < 0 {
			idx = i
		}
		count++
	}
	return idx, count
}

// Status reports the lock state of key. Any record other than an unlock
// request counts as Submitted.
func Status(records []models.SubmittedWeek, key Key) models.LockStatus {
	idx, _ := Lookup(records, key)
	if idx < 0 {
		return models.LockUnlocked
	}
	return statusOf(records[idx])
}

func statusOf(r models.SubmittedWeek) models.LockStatus {
	if r.Status == models.LockUnlockRequested {
		return models.LockUnlockRequested
	}
	return models.LockSubmitted
}

// Writable is true only when entries of the week may be replaced.
func Writable(status models.LockStatus) bool {
	return status == models.LockUnlocked || status == ""
}

// Submit appends a Submitted record for key stamped with at.
func Submit(records []models.SubmittedWeek, key Key, at time.Time) ([]models.SubmittedWeek, error) {
	if idx, _ := Lookup(records, key); idx >= 0 {
		return records, apperr.Clone(apperr.ErrAlreadyLocked, fmt.Sprintf("%s is already %s", key, statusOf(records[idx])))
	}
	out := make([]models.SubmittedWeek, len(records), len(records)+1)
	copy(out, records)
	return append(out, models.SubmittedWeek{
		UserID:      key.UserID,
		WeekStart:   key.WeekStart,
		Status:      models.LockSubmitted,
		SubmittedAt: at.Format(models.TimestampLayout),
	}), nil
}

// RequestUnlock moves a submitted week to Unlock Requested.
func RequestUnlock(records []models.SubmittedWeek, key Key) ([]models.SubmittedWeek, error) {
	idx, _ := Lookup(records, key)
	if idx < 0 {
		return records, apperr.Clone(apperr.ErrNotLocked, fmt.Sprintf("%s has not been submitted", key))
	}
	if statusOf(records[idx]) == models.LockUnlockRequested {
		return records, apperr.Clone(apperr.ErrAlreadyRequested, fmt.Sprintf("unlock of %s already requested", key))
	}
	out := append([]models.SubmittedWeek(nil), records...)
	out[idx].Status = models.LockUnlockRequested
	return out, nil
}

// ApproveUnlock deletes every record for key. Only admins may approve, and
// only a pending unlock request can be approved.
func ApproveUnlock(role models.Role, records []models.SubmittedWeek, key Key) ([]models.SubmittedWeek, error) {
	if role != models.RoleAdmin {
		return records, apperr.Clone(apperr.ErrForbidden, "only admins can approve unlock requests")
	}
	if status := Status(records, key); status != models.LockUnlockRequested {
		return records, apperr.Clone(apperr.ErrNotRequested, fmt.Sprintf("%s is %s, not awaiting unlock", key, status))
	}
	out := make([]models.SubmittedWeek, 0, len(records))
	for _, r := range records {
		if !key.matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
