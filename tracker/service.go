/*
Package tracker runs the read-modify-write cycles of the time tracker.

Every mutating operation reads the tables it needs with Store.LoadStrict,
computes the complete new contents with the pure lock and reconcile
packages, and writes them back with one full-table Save. Read-only views use
Store.Load and degrade to empty data when the store is unavailable.
*/
package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timetracker/apperr"
	"timetracker/lock"
	"timetracker/models"
	"timetracker/reconcile"
	"timetracker/store"
)

type Service struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
	hours  *reconcile.Reconciler[models.TimeEntry, reconcile.TimeCandidate]
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
		hours:  reconcile.New[models.TimeEntry, reconcile.TimeCandidate](reconcile.TimeKind{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

func requireAdmin(actor *models.User) error {
	if actor == nil || !actor.IsAdmin() {
		return apperr.Clone(apperr.ErrForbidden, "admin role required")
	}
	return nil
}

func requireOwnerOrAdmin(actor *models.User, userID int) error {
	if actor == nil || !actor.CanManageEntriesFor(userID) {
		return apperr.Clone(apperr.ErrForbidden, "not allowed to access another user's timesheet")
	}
	return nil
}

// lockStatus reads the lock state of key from records, logging corrupt
// duplicates instead of failing.
func (s *Service) lockStatus(records []models.SubmittedWeek, key lock.Key) models.LockStatus {
	if _, count := lock.Lookup(records, key); count > 1 {
		s.logger.Warn("duplicate submission records, using the first",
			zap.Int("user_id", key.UserID),
			zap.String("week_start", key.WeekStart),
			zap.Int("count", count))
	}
	return lock.Status(records, key)
}

func (s *Service) loadSubmissions(ctx context.Context) ([]models.SubmittedWeek, error) {
	records, err := s.store.LoadStrict(ctx, store.SubmittedWeeks)
	if err != nil {
		return nil, err
	}
	return models.SubmittedWeeksFromRecords(records), nil
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}
