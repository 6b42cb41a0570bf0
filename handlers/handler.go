package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"timetracker/apperr"
	"timetracker/middleware"
	"timetracker/models"
	"timetracker/week"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(err, apperr.ErrValidation, "invalid JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(err, apperr.ErrValidation, "")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return apperr.Clone(apperr.ErrValidation, strings.Join(msgs, "; "))
}

func currentUser(r *http.Request) (*models.User, error) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		return 0, apperr.Clone(apperr.ErrValidation, fmt.Sprintf("invalid %s", name))
	}
	return n, nil
}

// dayOrToday parses an ISO day, defaulting to today when raw is empty.
func dayOrToday(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	d, err := week.Parse(raw)
	if err != nil {
		return time.Time{}, apperr.Wrap(err, apperr.ErrValidation, "invalid week")
	}
	return d, nil
}

// targetUser is the user a timesheet request is about: userID when set,
// the actor otherwise.
func targetUser(actor *models.User, userID int) int {
	if userID > 0 {
		return userID
	}
	return actor.ID
}
