package members

import (
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts member routes; bootstrap nests them under
// /api/organizations/{orgID}/members.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleInvite)
	r.Patch("/role", h.HandleSetRole)
	r.Patch("/label", h.HandleSetLabel)
	r.Delete("/{memberID}", h.HandleRemove)

	return r
}
