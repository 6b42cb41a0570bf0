/*
Package reconcile replaces one user's entries for one week with a new set.

Saving is delete-then-insert over a scope: every existing entry the scope
matches is dropped, every other entry is kept in its original order, and the
normalised candidates are appended. The algorithm is shared by all entry
kinds; a Kind supplies the scope predicate and the candidate normalisation.
*/
package reconcile

import (
	"fmt"
	"time"

	"timetracker/apperr"
	"timetracker/lock"
	"timetracker/models"
	"timetracker/store"
	"timetracker/week"
)

// Scope is the unit of replace-on-save: one user and one Monday-anchored week.
type Scope struct {
	UserID    int
	WeekStart string
	Dates     [7]string
}

// NewScope anchors any day of the week to its Monday.
func NewScope(userID int, day time.Time) Scope {
	start := week.Start(day)
	return Scope{UserID: userID, WeekStart: week.Key(start), Dates: week.Keys(start)}
}

// HasDate reports whether date is one of the scope's seven days.
func (s Scope) HasDate(date string) bool {
	for _, d := range s.Dates {
		if d == date {
			return true
		}
	}
	return false
}

func (s Scope) LockKey() lock.Key {
	return lock.Key{UserID: s.UserID, WeekStart: s.WeekStart}
}

// ReplaceScope returns existing without the entries inScope matches, followed
// by incoming. Entries outside the scope keep their relative order.
func ReplaceScope[T any](existing []T, inScope func(T) bool, incoming []T) []T {
	out := make([]T, 0, len(existing)+len(incoming))
	for _, e := range existing {
		if !inScope(e) {
			out = append(out, e)
		}
	}
	return append(out, incoming...)
}

// Kind is the capability set of one entry type: T is the persisted entry,
// C the candidate submitted by the user.
type Kind[T, C any] interface {
	Name() string
	InScope(scope Scope) func(T) bool
	// Normalize validates candidates and stamps them with the scope. Invalid
	// candidates are dropped silently.
	Normalize(scope Scope, candidates []C) []T
}

type Reconciler[T, C any] struct {
	kind Kind[T, C]
}

func New[T, C any](kind Kind[T, C]) *Reconciler[T, C] {
	return &Reconciler[T, C]{kind: kind}
}

func (r *Reconciler[T, C]) Kind() string {
	return r.kind.Name()
}

// Apply computes the full collection to persist. It refuses with
// apperr.ErrWeekLocked unless status allows writes, leaving existing as is.
// The second result is the number of entries written into the scope.
func (r *Reconciler[T, C]) Apply(status models.LockStatus, existing []T, scope Scope, candidates []C) ([]T, int, error) {
	if !lock.Writable(status) {
		return existing, 0, apperr.Clone(apperr.ErrWeekLocked,
			fmt.Sprintf("%s for week %s is %s", r.kind.Name(), scope.WeekStart, status))
	}
	incoming := r.kind.Normalize(scope, candidates)
	return ReplaceScope(existing, r.kind.InScope(scope), incoming), len(incoming), nil
}

// ApplyRecords is Apply over raw table rows. Only rows whose decoded form
// lies in scope are replaced; every other row is passed through exactly as
// it was read, keeping its relative order.
func (r *Reconciler[T, C]) ApplyRecords(
	status models.LockStatus,
	records []store.Record,
	decode func(store.Record) T,
	encode func([]T) []store.Record,
	scope Scope,
	candidates []C,
) ([]store.Record, int, error) {
	inScope := r.kind.InScope(scope)
	kept := make([]store.Record, 0, len(records))
	var scoped []T
	for _, rec := range records {
		if e := decode(rec); inScope(e) {
			scoped = append(scoped, e)
			continue
		}
		kept = append(kept, rec)
	}
	entries, n, err := r.Apply(status, scoped, scope, candidates)
	if err != nil {
		return records, 0, err
	}
	return append(kept, encode(entries)...), n, nil
}

// Entries returns the existing entries inside scope.
func (r *Reconciler[T, C]) Entries(existing []T, scope Scope) []T {
	inScope := r.kind.InScope(scope)
	var out []T
	for _, e := range existing {
		if inScope(e) {
			out = append(out, e)
		}
	}
	return out
}
