package reconcile

import (
	"github.com/shopspring/decimal"

	"timetracker/models"
)

// TimeCandidate is one cell of the weekly hours grid.
type TimeCandidate struct {
	ClientID int             `json:"client_id" validate:"required,gt=0"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Hours    decimal.Decimal `json:"hours"`
}

// TimeKind scopes hours by (user, week_start).
type TimeKind struct{}

func (TimeKind) Name() string { return "hours" }

func (TimeKind) InScope(scope Scope) func(models.TimeEntry) bool {
	return func(e models.TimeEntry) bool {
		return e.UserID == scope.UserID && e.WeekStart == scope.WeekStart
	}
}

// Normalize drops empty cells and cells outside the week. A repeated
// (client, date) cell keeps its first position and its last value.
func (TimeKind) Normalize(scope Scope, candidates []TimeCandidate) []models.TimeEntry {
	type cell struct {
		client int
		date   string
	}
	index := make(map[cell]int, len(candidates))
	var out []models.TimeEntry
	for _, c := range candidates {
		if c.ClientID <= 0 || !scope.HasDate(c.Date) {
			continue
		}
		k := cell{c.ClientID, c.Date}
		i, seen := index[k]
		if !c.Hours.IsPositive() {
			if seen {
				out[i].Hours = decimal.Zero
			}
			continue
		}
		entry := models.TimeEntry{
			UserID:    scope.UserID,
			ClientID:  c.ClientID,
			Date:      c.Date,
			Hours:     c.Hours,
			WeekStart: scope.WeekStart,
		}
		if seen {
			out[i] = entry
			continue
		}
		index[k] = len(out)
		out = append(out, entry)
	}

	// A later zero cell clears an earlier value.
	kept := out[:0]
	for _, e := range out {
		if e.Hours.IsPositive() {
			kept = append(kept, e)
		}
	}
	return kept
}
