package tracker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"timetracker/apperr"
	"timetracker/models"
	"timetracker/store"
)

// Clients and assets share the same id/name/date_added layout.

func (s *Service) Clients(ctx context.Context) []models.Client {
	return models.ClientsFromRecords(s.store.Load(ctx, store.Clients))
}

func (s *Service) Assets(ctx context.Context) []models.Asset {
	return models.AssetsFromRecords(s.store.Load(ctx, store.Assets))
}

func (s *Service) AddClient(ctx context.Context, actor *models.User, name string) (*models.Client, error) {
	r, err := s.addNamed(ctx, actor, store.Clients, name)
	if err != nil {
		return nil, err
	}
	c := models.ClientFromRecord(r)
	return &c, nil
}

func (s *Service) RenameClient(ctx context.Context, actor *models.User, id int, name string) (*models.Client, error) {
	r, err := s.renameNamed(ctx, actor, store.Clients, id, name)
	if err != nil {
		return nil, err
	}
	c := models.ClientFromRecord(r)
	return &c, nil
}

// DeleteClient does not cascade: existing entries show the client as Unknown.
func (s *Service) DeleteClient(ctx context.Context, actor *models.User, id int) error {
	return s.deleteNamed(ctx, actor, store.Clients, id)
}

func (s *Service) AddAsset(ctx context.Context, actor *models.User, name string) (*models.Asset, error) {
	r, err := s.addNamed(ctx, actor, store.Assets, name)
	if err != nil {
		return nil, err
	}
	a := models.AssetFromRecord(r)
	return &a, nil
}

func (s *Service) RenameAsset(ctx context.Context, actor *models.User, id int, name string) (*models.Asset, error) {
	r, err := s.renameNamed(ctx, actor, store.Assets, id, name)
	if err != nil {
		return nil, err
	}
	a := models.AssetFromRecord(r)
	return &a, nil
}

func (s *Service) DeleteAsset(ctx context.Context, actor *models.User, id int) error {
	return s.deleteNamed(ctx, actor, store.Assets, id)
}

// Names resolve production candidates, so they must stay unique ignoring case.
func nameTaken(records []store.Record, name string, exceptID string) bool {
	for _, r := range records {
		if r["id"] != exceptID && strings.EqualFold(strings.TrimSpace(r["name"]), name) {
			return true
		}
	}
	return false
}

func (s *Service) addNamed(ctx context.Context, actor *models.User, t store.Table, name string) (store.Record, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Clone(apperr.ErrValidation, "name is required")
	}
	records, err := s.store.LoadStrict(ctx, t)
	if err != nil {
		return nil, err
	}
	if nameTaken(records, name, "") {
		return nil, apperr.Clone(apperr.ErrConflict, fmt.Sprintf("%q already exists", name))
	}
	rec := store.Record{
		"id":         fmt.Sprint(store.NextID(records)),
		"name":       name,
		"date_added": s.today(),
	}
	if err := s.store.Save(ctx, t, append(records, rec)); err != nil {
		return nil, err
	}
	s.logger.Info("catalog entry added", zap.String("table", string(t)), zap.String("id", rec["id"]), zap.String("name", name))
	return rec, nil
}

func (s *Service) renameNamed(ctx context.Context, actor *models.User, t store.Table, id int, name string) (store.Record, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Clone(apperr.ErrValidation, "name is required")
	}
	records, err := s.store.LoadStrict(ctx, t)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprint(id)
	if nameTaken(records, name, key) {
		return nil, apperr.Clone(apperr.ErrConflict, fmt.Sprintf("%q already exists", name))
	}
	for i, r := range records {
		if r["id"] != key {
			continue
		}
		records[i] = r.Clone()
		records[i]["name"] = name
		if err := s.store.Save(ctx, t, records); err != nil {
			return nil, err
		}
		return records[i], nil
	}
	return nil, apperr.Clone(apperr.ErrNotFound, fmt.Sprintf("%s %d not found", t, id))
}

func (s *Service) deleteNamed(ctx context.Context, actor *models.User, t store.Table, id int) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	records, err := s.store.LoadStrict(ctx, t)
	if err != nil {
		return err
	}
	kept, removed := removeByID(records, id)
	if !removed {
		return apperr.Clone(apperr.ErrNotFound, fmt.Sprintf("%s %d not found", t, id))
	}
	if err := s.store.Save(ctx, t, kept); err != nil {
		return err
	}
	s.logger.Info("catalog entry deleted", zap.String("table", string(t)), zap.Int("id", id))
	return nil
}
