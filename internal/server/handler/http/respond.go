// Package http provides the HTTP handlers and routing for the ticketdesk API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alpsupport/ticketdesk/internal/repository"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the error body the client surfaces verbatim to the user.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"msg": msg})
}

// serviceError maps service-layer failures onto status codes.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		Error(w, http.StatusNotFound, "not found")
	default:
		Error(w, http.StatusBadRequest, err.Error())
	}
}
