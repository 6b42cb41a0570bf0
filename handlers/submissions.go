package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetracker/config"
	"timetracker/response"
	"timetracker/tracker"
	"timetracker/week"
)

type SubmissionsHandler struct {
	config  *config.Config
	tracker *tracker.Service
}

func NewSubmissionsHandler(cfg *config.Config, svc *tracker.Service) *SubmissionsHandler {
	return &SubmissionsHandler{
		config:  cfg,
		tracker: svc,
	}
}

func (h *SubmissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	subs, err := h.tracker.Submissions(r.Context(), user)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, subs)
}

// Detail serves GET /api/submissions/{userID}/{week}.
func (h *SubmissionsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	userID, err := intParam(r, "userID")
	if err != nil {
		response.Error(w, err)
		return
	}
	detail, err := h.tracker.SubmissionDetail(r.Context(), user, userID, chi.URLParam(r, "week"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, detail)
}

// Approve serves POST /api/submissions/{userID}/{week}/approve.
func (h *SubmissionsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	userID, err := intParam(r, "userID")
	if err != nil {
		response.Error(w, err)
		return
	}
	day, err := week.Parse(chi.URLParam(r, "week"))
	if err != nil {
		response.Error(w, validationError(err))
		return
	}
	if err := h.tracker.ApproveUnlock(r.Context(), user, userID, day); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
