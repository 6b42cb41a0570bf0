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

// Authenticate returns the user whose credentials match.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	records, err := s.store.LoadStrict(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	for _, u := range models.UsersFromRecords(records) {
		if u.Username == username && u.CheckPassword(password) {
			return &u, nil
		}
	}
	s.logger.Info("login rejected", zap.String("username", username))
	return nil, apperr.Clone(apperr.ErrUnauthorized, "invalid username or password")
}

// UserByID resolves the identity behind a token from the cached Users snapshot.
func (s *Service) UserByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range models.UsersFromRecords(s.store.Load(ctx, store.Users)) {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperr.Clone(apperr.ErrNotFound, fmt.Sprintf("user %d not found", id))
}

func (s *Service) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return models.UsersFromRecords(s.store.Load(ctx, store.Users)), nil
}

type NewUser struct {
	Name     string
	Username string
	Password string
	Role     models.Role
}

// AddUser creates a user with the next free id. Usernames are unique.
func (s *Service) AddUser(ctx context.Context, actor *models.User, in NewUser) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	records, err := s.store.LoadStrict(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	for _, u := range models.UsersFromRecords(records) {
		if strings.EqualFold(u.Username, username) {
			return nil, apperr.Clone(apperr.ErrConflict, fmt.Sprintf("username %q is taken", username))
		}
	}
	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}
	user := models.User{
		ID:        store.NextID(records),
		Name:      strings.TrimSpace(in.Name),
		Username:  username,
		Role:      role,
		DateAdded: s.today(),
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal, "hash password")
	}
	if err := s.store.Save(ctx, store.Users, append(records, user.Record())); err != nil {
		return nil, err
	}
	s.logger.Info("user added", zap.Int("user_id", user.ID), zap.String("username", user.Username), zap.Int("admin_id", actor.ID))
	return &user, nil
}

// UserChanges holds the editable fields of a user; nil leaves a field as is.
// Usernames cannot change.
type UserChanges struct {
	Name     *string
	Role     *models.Role
	Password *string
}

func (s *Service) UpdateUser(ctx context.Context, actor *models.User, id int, ch UserChanges) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if id == actor.ID && ch.Role != nil && *ch.Role != models.RoleAdmin {
		return nil, apperr.Clone(apperr.ErrConflict, "admins cannot demote themselves")
	}
	return s.updateUser(ctx, id, ch)
}

// UpdateProfile lets the actor change their own name and password.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, name, password *string) (*models.User, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.updateUser(ctx, actor.ID, UserChanges{Name: name, Password: password})
}

func (s *Service) updateUser(ctx context.Context, id int, ch UserChanges) (*models.User, error) {
	records, err := s.store.LoadStrict(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	for i, r := range records {
		u := models.UserFromRecord(r)
		if u.ID != id {
			continue
		}
		if ch.Name != nil {
			u.Name = strings.TrimSpace(*ch.Name)
		}
		if ch.Role != nil {
			u.Role = *ch.Role
		}
		if ch.Password != nil {
			if err := u.SetPassword(*ch.Password); err != nil {
				return nil, apperr.Wrap(err, apperr.ErrInternal, "hash password")
			}
		}
		updated := r.Clone()
		for k, v := range u.Record() {
			updated[k] = v
		}
		records[i] = updated
		if err := s.store.Save(ctx, store.Users, records); err != nil {
			return nil, err
		}
		s.logger.Info("user updated", zap.Int("user_id", id))
		return &u, nil
	}
	return nil, apperr.Clone(apperr.ErrNotFound, fmt.Sprintf("user %d not found", id))
}

// DeleteUser removes a user. Their entries stay and show as Unknown.
func (s *Service) DeleteUser(ctx context.Context, actor *models.User, id int) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return apperr.Clone(apperr.ErrConflict, "you cannot delete your own account")
	}
	records, err := s.store.LoadStrict(ctx, store.Users)
	if err != nil {
		return err
	}
	kept, removed := removeByID(records, id)
	if !removed {
		return apperr.Clone(apperr.ErrNotFound, fmt.Sprintf("user %d not found", id))
	}
	if err := s.store.Save(ctx, store.Users, kept); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int("user_id", id), zap.Int("admin_id", actor.ID))
	return nil
}

func removeByID(records []store.Record, id int) ([]store.Record, bool) {
	kept := make([]store.Record, 0, len(records))
	removed := false
	for _, r := range records {
		if r["id"] == fmt.Sprint(id) {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}
