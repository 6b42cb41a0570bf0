package tracker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"timetracker/lock"
	"timetracker/metrics"
	"timetracker/models"
	"timetracker/reconcile"
	"timetracker/report"
	"timetracker/store"
)

// HoursRow is one client line of the weekly hours grid.
type HoursRow struct {
	ClientID int                `json:"client_id"`
	Client   string             `json:"client"`
	Hours    [7]decimal.Decimal `json:"hours"`
	Total    decimal.Decimal    `json:"total"`
}

type ProductionRow struct {
	Date     string `json:"date"`
	ClientID int    `json:"client_id"`
	Client   string `json:"client"`
	AssetID  int    `json:"asset_id"`
	Asset    string `json:"asset"`
	Amount   int    `json:"amount"`
}

// WeekView is everything the timesheet page shows for one user's week.
type WeekView struct {
	UserID      int                `json:"user_id"`
	WeekStart   string             `json:"week_start"`
	Dates       [7]string          `json:"dates"`
	Status      models.LockStatus  `json:"status"`
	Editable    bool               `json:"editable"`
	CanSubmit   bool               `json:"can_submit"`
	Hours       []HoursRow         `json:"hours"`
	DailyTotals [7]decimal.Decimal `json:"daily_totals"`
	Total       decimal.Decimal    `json:"total"`
	Production  []ProductionRow    `json:"production"`
}

func clientNames(clients []models.Client) map[int]string {
	m := make(map[int]string, len(clients))
	for _, c := range clients {
		m[c.ID] = c.Name
	}
	return m
}

func assetNames(assets []models.Asset) map[int]string {
	m := make(map[int]string, len(assets))
	for _, a := range assets {
		m[a.ID] = a.Name
	}
	return m
}

func nameOr(m map[int]string, id int) string {
	if n, ok := m[id]; ok {
		return n
	}
	return report.Unknown
}

// Week returns the timesheet of userID for the week containing day. Reads
// never depend on the lock state.
func (s *Service) Week(ctx context.Context, actor *models.User, userID int, day time.Time) (*WeekView, error) {
	if err := requireOwnerOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	scope := reconcile.NewScope(userID, day)

	subs := models.SubmittedWeeksFromRecords(s.store.Load(ctx, store.SubmittedWeeks))
	status := s.lockStatus(subs, scope.LockKey())

	clients := clientNames(models.ClientsFromRecords(s.store.Load(ctx, store.Clients)))
	assets := assetNames(models.AssetsFromRecords(s.store.Load(ctx, store.Assets)))

	view := &WeekView{
		UserID:     userID,
		WeekStart:  scope.WeekStart,
		Dates:      scope.Dates,
		Status:     status,
		Editable:   lock.Writable(status),
		Hours:      []HoursRow{},
		Total:      decimal.Zero,
		Production: []ProductionRow{},
	}
	for i := range view.DailyTotals {
		view.DailyTotals[i] = decimal.Zero
	}

	entries := s.hours.Entries(models.TimeEntriesFromRecords(s.store.Load(ctx, store.TimeEntries)), scope)
	rowIndex := map[int]int{}
	for _, e := range entries {
		col := dateIndex(scope, e.Date)
		if col < 0 {
			continue
		}
		i, ok := rowIndex[e.ClientID]
		if !ok {
			i = len(view.Hours)
			rowIndex[e.ClientID] = i
			row := HoursRow{ClientID: e.ClientID, Client: nameOr(clients, e.ClientID), Total: decimal.Zero}
			for j := range row.Hours {
				row.Hours[j] = decimal.Zero
			}
			view.Hours = append(view.Hours, row)
		}
		row := &view.Hours[i]
		row.Hours[col] = row.Hours[col].Add(e.Hours)
		row.Total = row.Total.Add(e.Hours)
		view.DailyTotals[col] = view.DailyTotals[col].Add(e.Hours)
		view.Total = view.Total.Add(e.Hours)
	}
	view.CanSubmit = view.Editable && view.Total.IsPositive()

	inWeek := reconcile.ProductionKind{}.InScope(scope)
	for _, p := range models.ProductionEntriesFromRecords(s.store.Load(ctx, store.ProductionEntries)) {
		if !inWeek(p) {
			continue
		}
		view.Production = append(view.Production, ProductionRow{
			Date:     p.Date,
			ClientID: p.ClientID,
			Client:   nameOr(clients, p.ClientID),
			AssetID:  p.AssetID,
			Asset:    nameOr(assets, p.AssetID),
			Amount:   p.Amount,
		})
	}
	return view, nil
}

func dateIndex(scope reconcile.Scope, date string) int {
	for i, d := range scope.Dates {
		if d == date {
			return i
		}
	}
	return -1
}

// weekStatus reads the current lock state of scope from the store.
func (s *Service) weekStatus(ctx context.Context, scope reconcile.Scope) (models.LockStatus, error) {
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return "", err
	}
	return s.lockStatus(subs, scope.LockKey()), nil
}

// SaveHours replaces the hours of userID for the week containing day with
// candidates. Zero cells and cells outside the week are dropped.
func (s *Service) SaveHours(ctx context.Context, actor *models.User, userID int, day time.Time, candidates []reconcile.TimeCandidate) (int, error) {
	if err := requireOwnerOrAdmin(actor, userID); err != nil {
		return 0, err
	}
	scope := reconcile.NewScope(userID, day)
	status, err := s.weekStatus(ctx, scope)
	if err != nil {
		return 0, err
	}
	if !lock.Writable(status) {
		_, _, err := s.hours.Apply(status, nil, scope, nil)
		return 0, err
	}

	records, err := s.store.LoadStrict(ctx, store.TimeEntries)
	if err != nil {
		return 0, err
	}
	updated, written, err := s.hours.ApplyRecords(status, records,
		models.TimeEntryFromRecord, models.TimeEntriesToRecords, scope, candidates)
	if err != nil {
		return 0, err
	}
	if err := s.store.Save(ctx, store.TimeEntries, updated); err != nil {
		return 0, err
	}
	metrics.ObserveEntriesSaved(s.hours.Kind(), written)
	s.logger.Info("hours saved",
		zap.Int("user_id", userID),
		zap.String("week_start", scope.WeekStart),
		zap.Int("entries", written),
		zap.Int("actor_id", actor.ID))
	return written, nil
}

// SaveProduction replaces the production list of userID for every date of
// the week containing day.
func (s *Service) SaveProduction(ctx context.Context, actor *models.User, userID int, day time.Time, candidates []reconcile.ProductionCandidate) (int, error) {
	if err := requireOwnerOrAdmin(actor, userID); err != nil {
		return 0, err
	}
	scope := reconcile.NewScope(userID, day)
	status, err := s.weekStatus(ctx, scope)
	if err != nil {
		return 0, err
	}

	clients, err := s.store.LoadStrict(ctx, store.Clients)
	if err != nil {
		return 0, err
	}
	assets, err := s.store.LoadStrict(ctx, store.Assets)
	if err != nil {
		return 0, err
	}
	r := reconcile.New[models.ProductionEntry, reconcile.ProductionCandidate](
		reconcile.NewProductionKind(models.ClientsFromRecords(clients), models.AssetsFromRecords(assets)))
	if !lock.Writable(status) {
		_, _, err := r.Apply(status, nil, scope, nil)
		return 0, err
	}

	records, err := s.store.LoadStrict(ctx, store.ProductionEntries)
	if err != nil {
		return 0, err
	}
	updated, written, err := r.ApplyRecords(status, records,
		models.ProductionEntryFromRecord, models.ProductionEntriesToRecords, scope, candidates)
	if err != nil {
		return 0, err
	}
	if err := s.store.Save(ctx, store.ProductionEntries, updated); err != nil {
		return 0, err
	}
	metrics.ObserveEntriesSaved(r.Kind(), written)
	s.logger.Info("production saved",
		zap.Int("user_id", userID),
		zap.String("week_start", scope.WeekStart),
		zap.Int("entries", written),
		zap.Int("actor_id", actor.ID))
	return written, nil
}
