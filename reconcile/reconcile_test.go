package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/apperr"
	"timetracker/models"
	"timetracker/store"
)

var june3 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func hours(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewScope_AnchorsToMonday(t *testing.T) {
	s := NewScope(7, time.Date(2024, 6, 8, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-06-03", s.WeekStart)
	assert.Equal(t, "2024-06-09", s.Dates[6])
	assert.True(t, s.HasDate("2024-06-05"))
	assert.False(t, s.HasDate("2024-06-10"))
}

func TestReplaceScope_KeepsOutsideEntriesInOrder(t *testing.T) {
	existing := []int{1, 20, 3, 40, 5}
	even := func(n int) bool { return n%2 == 0 }

	got := ReplaceScope(existing, even, []int{60})
	assert.Equal(t, []int{1, 3, 5, 60}, got)
	assert.Equal(t, []int{1, 20, 3, 40, 5}, existing)
}

func TestReplaceScope_Idempotent(t *testing.T) {
	existing := []int{1, 2, 3}
	even := func(n int) bool { return n%2 == 0 }

	once := ReplaceScope(existing, even, []int{4, 6})
	twice := ReplaceScope(once, even, []int{4, 6})
	assert.ElementsMatch(t, once, twice)
}

func TestTimeKind_ScenarioDropsZeroHours(t *testing.T) {
	scope := NewScope(7, june3)
	r := New[models.TimeEntry, TimeCandidate](TimeKind{})

	got, written, err := r.Apply(models.LockUnlocked, nil, scope, []TimeCandidate{
		{ClientID: 2, Date: "2024-06-03", Hours: hours("4")},
		{ClientID: 2, Date: "2024-06-04", Hours: hours("0")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	require.Len(t, got, 1)
	assert.Equal(t, models.TimeEntry{UserID: 7, ClientID: 2, Date: "2024-06-03", Hours: hours("4"), WeekStart: "2024-06-03"}, got[0])
}

func TestTimeKind_Normalize(t *testing.T) {
	scope := NewScope(7, june3)
	got := TimeKind{}.Normalize(scope, []TimeCandidate{
		{ClientID: 2, Date: "2024-06-03", Hours: hours("1")},
		{ClientID: 0, Date: "2024-06-03", Hours: hours("2")},
		{ClientID: 2, Date: "2024-06-10", Hours: hours("3")},
		{ClientID: 3, Date: "2024-06-04", Hours: hours("-1")},
		{ClientID: 3, Date: "2024-06-05", Hours: hours("2.5")},
		{ClientID: 2, Date: "2024-06-03", Hours: hours("1.5")},
		{ClientID: 3, Date: "2024-06-05", Hours: hours("0")},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ClientID)
	assert.True(t, got[0].Hours.Equal(hours("1.5")))
	for _, e := range got {
		assert.Equal(t, 7, e.UserID)
		assert.Equal(t, "2024-06-03", e.WeekStart)
	}
}

func TestTimeKind_ReplacesOnlyOwnWeek(t *testing.T) {
	scope := NewScope(7, june3)
	otherUser := models.TimeEntry{UserID: 8, ClientID: 2, Date: "2024-06-03", Hours: hours("8"), WeekStart: "2024-06-03"}
	otherWeek := models.TimeEntry{UserID: 7, ClientID: 2, Date: "2024-05-27", Hours: hours("8"), WeekStart: "2024-05-27"}
	old := models.TimeEntry{UserID: 7, ClientID: 2, Date: "2024-06-04", Hours: hours("5"), WeekStart: "2024-06-03"}

	r := New[models.TimeEntry, TimeCandidate](TimeKind{})
	got, _, err := r.Apply(models.LockUnlocked, []models.TimeEntry{otherUser, old, otherWeek}, scope, []TimeCandidate{
		{ClientID: 2, Date: "2024-06-05", Hours: hours("3")},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, otherUser, got[0])
	assert.Equal(t, otherWeek, got[1])
	assert.Equal(t, "2024-06-05", got[2].Date)

	assert.Equal(t, []models.TimeEntry{got[2]}, r.Entries(got, scope))
}

func TestApply_RefusesLockedWeek(t *testing.T) {
	scope := NewScope(7, june3)
	existing := []models.TimeEntry{{UserID: 7, ClientID: 2, Date: "2024-06-03", Hours: hours("4"), WeekStart: "2024-06-03"}}
	r := New[models.TimeEntry, TimeCandidate](TimeKind{})

	for _, status := range []models.LockStatus{models.LockSubmitted, models.LockUnlockRequested} {
		got, written, err := r.Apply(status, existing, scope, nil)
		assert.ErrorIs(t, err, apperr.ErrWeekLocked, string(status))
		assert.Equal(t, existing, got)
		assert.Zero(t, written)
	}
}

func TestProductionKind_ResolvesByIDOrName(t *testing.T) {
	kind := NewProductionKind(
		[]models.Client{{ID: 2, Name: "Acme"}, {ID: 5, Name: "Globex"}},
		[]models.Asset{{ID: 1, Name: "Banner"}, {ID: 3, Name: "Video"}},
	)
	scope := NewScope(7, june3)

	got := kind.Normalize(scope, []ProductionCandidate{
		{Date: "2024-06-03", ClientName: "acme ", AssetName: "Video", Amount: 2},
		{Date: "2024-06-04", ClientID: 5, AssetID: 1, Amount: 1},
		{Date: "2024-06-04", ClientID: 9, AssetID: 1, Amount: 1},
		{Date: "2024-06-04", ClientID: 5, AssetName: "Unknown", Amount: 1},
		{Date: "2024-06-04", ClientID: 5, AssetID: 1, Amount: 0},
		{Date: "2024-06-11", ClientID: 5, AssetID: 1, Amount: 4},
	})
	assert.Equal(t, []models.ProductionEntry{
		{UserID: 7, ClientID: 2, Date: "2024-06-03", AssetID: 3, Amount: 2},
		{UserID: 7, ClientID: 5, Date: "2024-06-04", AssetID: 1, Amount: 1},
	}, got)
}

func TestProductionKind_ScopedByDateRange(t *testing.T) {
	scope := NewScope(7, june3)
	inWeek := models.ProductionEntry{UserID: 7, ClientID: 2, Date: "2024-06-09", AssetID: 1, Amount: 3}
	nextWeek := models.ProductionEntry{UserID: 7, ClientID: 2, Date: "2024-06-10", AssetID: 1, Amount: 3}
	otherUser := models.ProductionEntry{UserID: 8, ClientID: 2, Date: "2024-06-05", AssetID: 1, Amount: 3}

	r := New[models.ProductionEntry, ProductionCandidate](NewProductionKind(nil, nil))
	got, written, err := r.Apply(models.LockUnlocked, []models.ProductionEntry{inWeek, nextWeek, otherUser}, scope, nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Equal(t, []models.ProductionEntry{nextWeek, otherUser}, got)
}

func TestApplyRecords_PassesOutsideRowsThrough(t *testing.T) {
	scope := NewScope(7, june3)
	other := store.Record{"user_id": "9", "client_id": "2", "date": "2024-05-01", "asset_id": "1", "amount": "2.5"}
	stale := store.Record{"user_id": "7", "client_id": "2", "date": "2024-06-05 08:00:00", "asset_id": "1", "amount": "3"}

	r := New[models.ProductionEntry, ProductionCandidate](NewProductionKind(
		[]models.Client{{ID: 2, Name: "Acme"}}, []models.Asset{{ID: 1, Name: "Video"}}))
	got, written, err := r.ApplyRecords(models.LockUnlocked, []store.Record{other, stale},
		models.ProductionEntryFromRecord, models.ProductionEntriesToRecords, scope,
		[]ProductionCandidate{{Date: "2024-06-04", ClientName: "acme", AssetName: "Video", Amount: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, []store.Record{
		other,
		{"user_id": "7", "client_id": "2", "date": "2024-06-04", "asset_id": "1", "amount": "1"},
	}, got)
}

func TestApplyRecords_LockedReturnsRecordsAsIs(t *testing.T) {
	scope := NewScope(7, june3)
	existing := []store.Record{{"user_id": "7", "client_id": "2", "date": "2024-06-03", "hours": "4", "week_start": "2024-06-03"}}

	r := New[models.TimeEntry, TimeCandidate](TimeKind{})
	got, written, err := r.ApplyRecords(models.LockSubmitted, existing,
		models.TimeEntryFromRecord, models.TimeEntriesToRecords, scope, nil)
	assert.ErrorIs(t, err, apperr.ErrWeekLocked)
	assert.Zero(t, written)
	assert.Equal(t, existing, got)
}
