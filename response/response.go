package response

import (
	"encoding/json"
	"net/http"

	"timetracker/apperr"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}   `json:"data,omitempty"`
	Error *apperr.Error `json:"error,omitempty"`
}

// JSON sends a success response.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Data: data})
}

// OK responds with HTTP 200.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(w http.ResponseWriter, err error) {
	appErr := apperr.FromError(err)
	body := *appErr
	if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
		// Causes of server errors stay in the logs.
		body.Err = nil
	}
	write(w, appErr.Status, Envelope{Error: &body})
}

// NoContent sends a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, status int, v Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
