package tracker

import (
	"context"
	"fmt"

	"timetracker/apperr"
	"timetracker/models"
	"timetracker/report"
	"timetracker/store"
	"timetracker/week"
)

// WorkloadQuery selects the inclusive date range of the workload report.
type WorkloadQuery struct {
	Start  string
	End    string
	Client string
}

// Workload aggregates hours and production over q for actor.
func (s *Service) Workload(ctx context.Context, actor *models.User, q WorkloadQuery) (*report.Summary, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthorized
	}
	start, err := week.Parse(q.Start)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation, "invalid start date")
	}
	end, err := week.Parse(q.End)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation, "invalid end date")
	}
	if end.Before(start) {
		return nil, apperr.Clone(apperr.ErrValidation, fmt.Sprintf("end %s is before start %s", q.End, q.Start))
	}

	summary := report.Build(report.Input{
		Start:          week.Key(start),
		End:            week.Key(end),
		Actor:          *actor,
		SelectedClient: q.Client,
		Users:          models.UsersFromRecords(s.store.Load(ctx, store.Users)),
		Clients:        models.ClientsFromRecords(s.store.Load(ctx, store.Clients)),
		Assets:         models.AssetsFromRecords(s.store.Load(ctx, store.Assets)),
		Time:           models.TimeEntriesFromRecords(s.store.Load(ctx, store.TimeEntries)),
		Production:     models.ProductionEntriesFromRecords(s.store.Load(ctx, store.ProductionEntries)),
	})
	return &summary, nil
}
