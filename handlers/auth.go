package handlers

import (
	"net/http"

	"timetracker/apperr"
	"timetracker/config"
	"timetracker/middleware"
	"timetracker/response"
	"timetracker/tracker"
)

type AuthHandler struct {
	config  *config.Config
	tracker *tracker.Service
}

func NewAuthHandler(cfg *config.Config, svc *tracker.Service) *AuthHandler {
	return &AuthHandler{
		config:  cfg,
		tracker: svc,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.tracker.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		response.Error(w, apperr.Wrap(err, apperr.ErrInternal, "failed to generate token"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.JWTExpiration.Seconds()),
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
	response.OK(w, loginResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	response.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, user)
}

type profileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=5"`
}

// UpdateMe changes the actor's display name and, given the current
// password, their password.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req profileRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.NewPassword != nil && !user.CheckPassword(req.CurrentPassword) {
		response.Error(w, apperr.Clone(apperr.ErrValidation, "current password is incorrect"))
		return
	}

	updated, err := h.tracker.UpdateProfile(r.Context(), user, req.Name, req.NewPassword)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, updated)
}
