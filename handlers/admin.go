package handlers

import (
	"net/http"

	"timetracker/config"
	"timetracker/models"
	"timetracker/response"
	"timetracker/tracker"
)

// AdminHandler manages users, clients and assets.
type AdminHandler struct {
	config  *config.Config
	tracker *tracker.Service
}

func NewAdminHandler(cfg *config.Config, svc *tracker.Service) *AdminHandler {
	return &AdminHandler{
		config:  cfg,
		tracker: svc,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	users, err := h.tracker.ListUsers(r.Context(), user)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, users)
}

type createUserRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Username string      `json:"username" validate:"required,max=100"`
	Password string      `json:"password" validate:"required,min=5"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=Admin Employee"`
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.tracker.AddUser(r.Context(), user, tracker.NewUser{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, created)
}

type updateUserRequest struct {
	Name     *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=Admin Employee"`
	Password *string      `json:"password" validate:"omitempty,min=5"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.tracker.UpdateUser(r.Context(), user, id, tracker.UserChanges{
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, updated)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.tracker.DeleteUser(r.Context(), user, id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *AdminHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.tracker.Clients(r.Context()))
}

func (h *AdminHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.tracker.Assets(r.Context()))
}

func (h *AdminHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, func(u *models.User, name string) (interface{}, error) {
		return h.tracker.AddClient(r.Context(), u, name)
	})
}

func (h *AdminHandler) RenameClient(w http.ResponseWriter, r *http.Request) {
	h.rename(w, r, func(u *models.User, id int, name string) (interface{}, error) {
		return h.tracker.RenameClient(r.Context(), u, id, name)
	})
}

func (h *AdminHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func(u *models.User, id int) error {
		return h.tracker.DeleteClient(r.Context(), u, id)
	})
}

func (h *AdminHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, func(u *models.User, name string) (interface{}, error) {
		return h.tracker.AddAsset(r.Context(), u, name)
	})
}

func (h *AdminHandler) RenameAsset(w http.ResponseWriter, r *http.Request) {
	h.rename(w, r, func(u *models.User, id int, name string) (interface{}, error) {
		return h.tracker.RenameAsset(r.Context(), u, id, name)
	})
}

func (h *AdminHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func(u *models.User, id int) error {
		return h.tracker.DeleteAsset(r.Context(), u, id)
	})
}

func (h *AdminHandler) create(w http.ResponseWriter, r *http.Request, add func(*models.User, string) (interface{}, error)) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req nameRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := add(user, req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, created)
}

func (h *AdminHandler) rename(w http.ResponseWriter, r *http.Request, rename func(*models.User, int, string) (interface{}, error)) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req nameRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := rename(user, id, req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, updated)
}

func (h *AdminHandler) remove(w http.ResponseWriter, r *http.Request, del func(*models.User, int) error) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := del(user, id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
