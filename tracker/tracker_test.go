package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/apperr"
	"timetracker/models"
	"timetracker/reconcile"
	"timetracker/store"
	"timetracker/store/memory"
)

var (
	june3 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	admin = &models.User{ID: 1, Name: "Admin", Username: "admin", Role: models.RoleAdmin}
	emp   = &models.User{ID: 7, Name: "Emma", Username: "emma", Role: models.RoleEmployee}
)

type fixture struct {
	backend *memory.Backend
	store   *store.Store
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := memory.New()
	st := store.New(b, store.Options{ReadPause: time.Millisecond})
	require.NoError(t, st.Init(context.Background(), admin.Record()))

	ctx := context.Background()
	require.NoError(t, st.Save(ctx, store.Users, []store.Record{admin.Record(), emp.Record()}))
	require.NoError(t, st.Save(ctx, store.Clients, []store.Record{
		{"id": "2", "name": "Acme"},
		{"id": "3", "name": "Globex"},
	}))
	require.NoError(t, st.Save(ctx, store.Assets, []store.Record{{"id": "1", "name": "Video"}}))

	clock := func() time.Time { return time.Date(2024, 6, 7, 17, 0, 0, 0, time.UTC) }
	return &fixture{backend: b, store: st, svc: NewService(st, nil, WithClock(clock))}
}

func h(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestScenario_SaveSubmitThenLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{
		{ClientID: 2, Date: "2024-06-03", Hours: h("4")},
		{ClientID: 2, Date: "2024-06-04", Hours: h("0")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, [][]string{{"7", "2", "2024-06-03", "4", "2024-06-03"}}, f.backend.Rows("TimeEntries"))

	_, err = f.svc.SaveProduction(ctx, emp, 7, june3, []reconcile.ProductionCandidate{
		{Date: "2024-06-05", ClientID: 2, AssetID: 1, Amount: 3},
	})
	require.NoError(t, err)
	production := f.backend.Rows("ProductionEntries")
	require.Len(t, production, 1)

	require.NoError(t, f.svc.Submit(ctx, emp, 7, june3))

	view, err := f.svc.Week(ctx, emp, 7, june3.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, models.LockSubmitted, view.Status)
	assert.False(t, view.Editable)
	assert.True(t, view.Total.Equal(h("4")))

	_, err = f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-05", Hours: h("1")}})
	assert.ErrorIs(t, err, apperr.ErrWeekLocked)
	assert.Len(t, f.backend.Rows("TimeEntries"), 1, "store unchanged")

	_, err = f.svc.SaveProduction(ctx, emp, 7, june3, nil)
	assert.ErrorIs(t, err, apperr.ErrWeekLocked)
	assert.Equal(t, production, f.backend.Rows("ProductionEntries"), "store unchanged")

	assert.ErrorIs(t, f.svc.Submit(ctx, emp, 7, june3), apperr.ErrAlreadyLocked)
}

func TestScenario_ApprovedUnlockReopensWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-03", Hours: h("4")}})
	require.NoError(t, err)
	require.NoError(t, f.svc.Submit(ctx, emp, 7, june3))

	assert.ErrorIs(t, f.svc.ApproveUnlock(ctx, admin, 7, june3), apperr.ErrNotRequested)
	assert.ErrorIs(t, f.svc.RequestUnlock(ctx, admin, 7, june3), apperr.ErrForbidden)

	require.NoError(t, f.svc.RequestUnlock(ctx, emp, 7, june3))
	assert.ErrorIs(t, f.svc.RequestUnlock(ctx, emp, 7, june3), apperr.ErrAlreadyRequested)
	assert.ErrorIs(t, f.svc.ApproveUnlock(ctx, emp, 7, june3), apperr.ErrForbidden)

	subs, err := f.svc.Submissions(ctx, admin)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, models.LockUnlockRequested, subs[0].Status)
	assert.Equal(t, "Emma", subs[0].Employee)

	require.NoError(t, f.svc.ApproveUnlock(ctx, admin, 7, june3))
	assert.Empty(t, f.backend.Rows("SubmittedWeeks"))

	n, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 3, Date: "2024-06-04", Hours: h("2")}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubmit_RequiresHours(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Submit(context.Background(), emp, 7, june3)
	assert.ErrorIs(t, err, apperr.ErrEmptyWeek)
	assert.Empty(t, f.backend.Rows("SubmittedWeeks"))
}

func TestRequestUnlock_NotLocked(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.RequestUnlock(context.Background(), emp, 7, june3), apperr.ErrNotLocked)
}

func TestSaveHours_ForbiddenForOtherEmployee(t *testing.T) {
	f := newFixture(t)
	other := &models.User{ID: 8, Role: models.RoleEmployee}
	_, err := f.svc.SaveHours(context.Background(), other, 7, june3, nil)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.SaveHours(context.Background(), admin, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-03", Hours: h("1")}})
	assert.NoError(t, err)
}

func TestSaveHours_StoreUnavailableLeavesDataAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-03", Hours: h("4")}})
	require.NoError(t, err)

	f.backend.FailReads(errors.New("quota"))
	_, err = f.svc.SaveHours(ctx, emp, 7, june3, nil)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)

	f.backend.FailReads(nil)
	assert.Len(t, f.backend.Rows("TimeEntries"), 1)
}

func TestSaveHours_WriteFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.FailWrites(errors.New("disk full"))
	_, err := f.svc.SaveHours(context.Background(), emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-03", Hours: h("4")}})
	assert.ErrorIs(t, err, apperr.ErrStoreWriteFailure)
}

func TestSaveProduction_ReplacesWeekByDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, store.ProductionEntries, []store.Record{
		{"user_id": "7", "client_id": "2", "date": "2024-06-05", "asset_id": "1", "amount": "3"},
		{"user_id": "7", "client_id": "2", "date": "2024-06-10", "asset_id": "1", "amount": "1"},
	}))

	n, err := f.svc.SaveProduction(ctx, emp, 7, june3, []reconcile.ProductionCandidate{
		{Date: "2024-06-04", ClientName: "Globex", AssetName: "Video", Amount: 2},
		{Date: "2024-06-04", ClientName: "Nobody", AssetName: "Video", Amount: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, [][]string{
		{"7", "2", "2024-06-10", "1", "1"},
		{"7", "3", "2024-06-04", "1", "2"},
	}, f.backend.Rows("ProductionEntries"))

	view, err := f.svc.Week(ctx, emp, 7, june3)
	require.NoError(t, err)
	require.Len(t, view.Production, 1)
	assert.Equal(t, "Globex", view.Production[0].Client)
	assert.Equal(t, "Video", view.Production[0].Asset)
}

func TestSave_LeavesRowsOutsideScopeUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	timeRows := [][]string{
		{"9", "2", "2024-05-28 09:15:00", "1.25", "2024-05-27 00:00:00"},
		{"7", "3", "2024-05-29", "7.5", "2024-05-27"},
	}
	productionRows := [][]string{
		{"9", "2", "2024-05-01", "1", "2.5"},
		{"7", "3", "2024-06-12 10:00:00", "1", "4"},
	}
	f.backend.Put("TimeEntries", []string{"user_id", "client_id", "date", "hours", "week_start"}, timeRows...)
	f.backend.Put("ProductionEntries", []string{"user_id", "client_id", "date", "asset_id", "amount"}, productionRows...)

	_, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-04", Hours: h("2")}})
	require.NoError(t, err)
	_, err = f.svc.SaveProduction(ctx, emp, 7, june3, nil)
	require.NoError(t, err)

	assert.Equal(t, append(timeRows, []string{"7", "2", "2024-06-04", "2", "2024-06-03"}), f.backend.Rows("TimeEntries"))
	assert.Equal(t, productionRows, f.backend.Rows("ProductionEntries"))
}

func TestWeek_GridAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{
		{ClientID: 2, Date: "2024-06-03", Hours: h("4")},
		{ClientID: 3, Date: "2024-06-03", Hours: h("1.5")},
		{ClientID: 2, Date: "2024-06-09", Hours: h("2")},
	})
	require.NoError(t, err)

	view, err := f.svc.Week(ctx, emp, 7, june3)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", view.WeekStart)
	assert.True(t, view.Editable)
	assert.True(t, view.CanSubmit)
	require.Len(t, view.Hours, 2)
	assert.Equal(t, "Acme", view.Hours[0].Client)
	assert.True(t, view.Hours[0].Total.Equal(h("6")))
	assert.True(t, view.DailyTotals[0].Equal(h("5.5")))
	assert.True(t, view.Total.Equal(h("7.5")))

	_, err = f.svc.Week(ctx, &models.User{ID: 8, Role: models.RoleEmployee}, 7, june3)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestSubmissionDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-04", Hours: h("3")}})
	require.NoError(t, err)

	d, err := f.svc.SubmissionDetail(ctx, admin, 7, "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, "Emma", d.Employee)
	assert.Equal(t, models.LockUnlocked, d.Status)
	assert.True(t, d.Hours.Value("Acme", "2024-06-04").Equal(h("3")))

	_, err = f.svc.SubmissionDetail(ctx, admin, 7, "junk")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestWorkload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SaveHours(ctx, emp, 7, june3, []reconcile.TimeCandidate{{ClientID: 2, Date: "2024-06-04", Hours: h("3")}})
	require.NoError(t, err)
	_, err = f.svc.SaveHours(ctx, admin, 1, june3, []reconcile.TimeCandidate{{ClientID: 3, Date: "2024-06-04", Hours: h("5")}})
	require.NoError(t, err)

	all, err := f.svc.Workload(ctx, admin, WorkloadQuery{Start: "2024-06-01", End: "2024-06-30"})
	require.NoError(t, err)
	assert.Len(t, all.ByEmployee.Rows, 2)

	own, err := f.svc.Workload(ctx, emp, WorkloadQuery{Start: "2024-06-01", End: "2024-06-30"})
	require.NoError(t, err)
	require.Len(t, own.ByEmployee.Rows, 1)
	assert.Equal(t, "Emma", own.ByEmployee.Rows[0].Name)

	_, err = f.svc.Workload(ctx, emp, WorkloadQuery{Start: "2024-06-30", End: "2024-06-01"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestWorkload_DegradesWhenStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.backend.FailReads(errors.New("quota"))

	s, err := f.svc.Workload(context.Background(), admin, WorkloadQuery{Start: "2024-06-01", End: "2024-06-30"})
	require.NoError(t, err)
	assert.True(t, s.ByEmployee.Empty())
}
