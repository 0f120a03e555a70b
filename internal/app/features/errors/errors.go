// Package errors renders API error responses and is the single translation
// point from the gate's typed outcomes to caller-facing HTTP statuses.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/communehq/commune/internal/app/system/gates"
)

type errorBody struct {
	Error string `json:"error"`
	Ref   string `json:"ref,omitempty"`
}

// WriteJSON writes a JSON error body with the given status.
func WriteJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// RenderGateError maps an Authorize outcome to its HTTP status:
// 401 for unauthenticated, 403 for forbidden. Handlers must not
// re-interpret the gate's outcomes; invalid and expired tokens already
// collapsed upstream.
func RenderGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gates.ErrUnauthenticated):
		WriteJSON(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, gates.ErrForbidden):
		WriteJSON(w, http.StatusForbidden, "forbidden")
	default:
		// Authorize only returns the two sentinels; anything else is a
		// programming error upstream.
		WriteJSON(w, http.StatusInternalServerError, "internal error")
	}
}

// RenderNotFound reports a resource that does not exist or does not belong
// to the claimed parent. Reserved for use after authorization succeeds.
func RenderNotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	WriteJSON(w, http.StatusNotFound, msg)
}
