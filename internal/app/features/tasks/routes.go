package tasks

import (
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts task routes; bootstrap nests them under
// /api/organizations/{orgID}/tasks.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{taskID}", h.HandleGet)
	r.Patch("/{taskID}", h.HandleUpdate)
	r.Delete("/{taskID}", h.HandleDelete)

	return r
}
