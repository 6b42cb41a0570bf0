package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"timetracker/apperr"
	"timetracker/lock"
	"timetracker/metrics"
	"timetracker/models"
	"timetracker/reconcile"
	"timetracker/report"
	"timetracker/store"
	"timetracker/week"
)

// Submit locks the week of userID containing day. The week must hold more
// than zero hours.
func (s *Service) Submit(ctx context.Context, actor *models.User, userID int, day time.Time) (err error) {
	defer func() { metrics.ObserveLockTransition("submit", err) }()

	if err := requireOwnerOrAdmin(actor, userID); err != nil {
		return err
	}
	scope := reconcile.NewScope(userID, day)
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return err
	}
	s.lockStatus(subs, scope.LockKey())

	next, err := lock.Submit(subs, scope.LockKey(), s.now())
	if err != nil {
		return err
	}

	records, err := s.store.LoadStrict(ctx, store.TimeEntries)
	if err != nil {
		return err
	}
	total := report.TotalHours(s.hours.Entries(models.TimeEntriesFromRecords(records), scope))
	if !total.IsPositive() {
		return apperr.Clone(apperr.ErrEmptyWeek, fmt.Sprintf("week %s has no hours", scope.WeekStart))
	}

	if err := s.store.Save(ctx, store.SubmittedWeeks, models.SubmittedWeeksToRecords(next)); err != nil {
		return err
	}
	s.logger.Info("week submitted",
		zap.Int("user_id", userID),
		zap.String("week_start", scope.WeekStart),
		zap.String("hours", total.String()))
	return nil
}

// RequestUnlock asks an admin to reopen a submitted week. Only the owner of
// the week may ask.
func (s *Service) RequestUnlock(ctx context.Context, actor *models.User, userID int, day time.Time) (err error) {
	defer func() { metrics.ObserveLockTransition("unlock_request", err) }()

	if actor == nil || actor.ID != userID {
		return apperr.Clone(apperr.ErrForbidden, "only the owner of a week can request an unlock")
	}
	key := reconcile.NewScope(userID, day).LockKey()
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return err
	}
	s.lockStatus(subs, key)

	next, err := lock.RequestUnlock(subs, key)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, store.SubmittedWeeks, models.SubmittedWeeksToRecords(next)); err != nil {
		return err
	}
	s.logger.Info("unlock requested", zap.Int("user_id", userID), zap.String("week_start", key.WeekStart))
	return nil
}

// ApproveUnlock removes the lock of a week awaiting unlock. Admin only.
func (s *Service) ApproveUnlock(ctx context.Context, actor *models.User, userID int, day time.Time) (err error) {
	defer func() { metrics.ObserveLockTransition("unlock_approve", err) }()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	key := reconcile.NewScope(userID, day).LockKey()
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return err
	}
	s.lockStatus(subs, key)

	next, err := lock.ApproveUnlock(actor.Role, subs, key)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, store.SubmittedWeeks, models.SubmittedWeeksToRecords(next)); err != nil {
		return err
	}
	s.logger.Info("unlock approved",
		zap.Int("user_id", userID),
		zap.String("week_start", key.WeekStart),
		zap.Int("admin_id", actor.ID))
	return nil
}

// Submission is one row of the submitted timesheets list.
type Submission struct {
	UserID      int               `json:"user_id"`
	Employee    string            `json:"employee"`
	WeekStart   string            `json:"week_start"`
	Status      models.LockStatus `json:"status"`
	SubmittedAt string            `json:"submitted_at"`
}

// Submissions lists lock records visible to actor: all of them for admins,
// the actor's own otherwise.
func (s *Service) Submissions(ctx context.Context, actor *models.User) ([]Submission, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthorized
	}
	users := map[int]string{}
	for _, u := range models.UsersFromRecords(s.store.Load(ctx, store.Users)) {
		users[u.ID] = u.DisplayName()
	}

	out := []Submission{}
	for _, sw := range models.SubmittedWeeksFromRecords(s.store.Load(ctx, store.SubmittedWeeks)) {
		if !actor.CanViewAllEntries() && sw.UserID != actor.ID {
			continue
		}
		out = append(out, Submission{
			UserID:      sw.UserID,
			Employee:    nameOr(users, sw.UserID),
			WeekStart:   sw.WeekStart,
			Status:      lockStatusOf(sw),
			SubmittedAt: sw.SubmittedAt,
		})
	}
	return out, nil
}

func lockStatusOf(sw models.SubmittedWeek) models.LockStatus {
	return lock.Status([]models.SubmittedWeek{sw}, lock.Key{UserID: sw.UserID, WeekStart: sw.WeekStart})
}

// SubmissionDetail is the client × day hours of one user's week.
type SubmissionDetail struct {
	UserID    int               `json:"user_id"`
	Employee  string            `json:"employee"`
	WeekStart string            `json:"week_start"`
	Status    models.LockStatus `json:"status"`
	Hours     report.Pivot      `json:"hours"`
}

func (s *Service) SubmissionDetail(ctx context.Context, actor *models.User, userID int, weekStart string) (*SubmissionDetail, error) {
	if err := requireOwnerOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	day, err := week.Parse(weekStart)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation, "invalid week")
	}
	scope := reconcile.NewScope(userID, day)

	employee := report.Unknown
	for _, u := range models.UsersFromRecords(s.store.Load(ctx, store.Users)) {
		if u.ID == userID {
			employee = u.DisplayName()
			break
		}
	}
	subs := models.SubmittedWeeksFromRecords(s.store.Load(ctx, store.SubmittedWeeks))
	entries := s.hours.Entries(models.TimeEntriesFromRecords(s.store.Load(ctx, store.TimeEntries)), scope)
	clients := models.ClientsFromRecords(s.store.Load(ctx, store.Clients))

	return &SubmissionDetail{
		UserID:    userID,
		Employee:  employee,
		WeekStart: scope.WeekStart,
		Status:    s.lockStatus(subs, scope.LockKey()),
		Hours:     report.Detail(scope.Dates[:], entries, clients),
	}, nil
}
