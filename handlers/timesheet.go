package handlers

import (
	"net/http"
	"strconv"

	"timetracker/apperr"
	"timetracker/config"
	"timetracker/reconcile"
	"timetracker/response"
	"timetracker/tracker"
)

type TimesheetHandler struct {
	config  *config.Config
	tracker *tracker.Service
}

func NewTimesheetHandler(cfg *config.Config, svc *tracker.Service) *TimesheetHandler {
	return &TimesheetHandler{
		config:  cfg,
		tracker: svc,
	}
}

// Week serves GET /api/timesheet?week=YYYY-MM-DD&user_id=N.
func (h *TimesheetHandler) Week(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	day, err := dayOrToday(r.URL.Query().Get("week"), h.tracker.Now())
	if err != nil {
		response.Error(w, err)
		return
	}
	userID := 0
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		if userID, err = strconv.Atoi(raw); err != nil || userID <= 0 {
			response.Error(w, apperr.Clone(apperr.ErrValidation, "invalid user_id"))
			return
		}
	}

	view, err := h.tracker.Week(r.Context(), user, targetUser(user, userID), day)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

type weekRequest struct {
	Week   string `json:"week" validate:"required,datetime=2006-01-02"`
	UserID int    `json:"user_id" validate:"gte=0"`
}

type saveHoursRequest struct {
	weekRequest
	Entries []reconcile.TimeCandidate `json:"entries" validate:"dive"`
}

type saveProductionRequest struct {
	weekRequest
	Entries []reconcile.ProductionCandidate `json:"entries" validate:"dive"`
}

type savedResponse struct {
	Saved int `json:"saved"`
}

func (h *TimesheetHandler) SaveHours(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req saveHoursRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	day, err := dayOrToday(req.Week, h.tracker.Now())
	if err != nil {
		response.Error(w, err)
		return
	}

	n, err := h.tracker.SaveHours(r.Context(), user, targetUser(user, req.UserID), day, req.Entries)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, savedResponse{Saved: n})
}

func (h *TimesheetHandler) SaveProduction(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req saveProductionRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	day, err := dayOrToday(req.Week, h.tracker.Now())
	if err != nil {
		response.Error(w, err)
		return
	}

	n, err := h.tracker.SaveProduction(r.Context(), user, targetUser(user, req.UserID), day, req.Entries)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, savedResponse{Saved: n})
}

func (h *TimesheetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req weekRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	day, err := dayOrToday(req.Week, h.tracker.Now())
	if err != nil {
		response.Error(w, err)
		return
	}
	userID := targetUser(user, req.UserID)

	if err := h.tracker.Submit(r.Context(), user, userID, day); err != nil {
		response.Error(w, err)
		return
	}
	view, err := h.tracker.Week(r.Context(), user, userID, day)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

func (h *TimesheetHandler) RequestUnlock(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req weekRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	day, err := dayOrToday(req.Week, h.tracker.Now())
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.tracker.RequestUnlock(r.Context(), user, targetUser(user, req.UserID), day); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
