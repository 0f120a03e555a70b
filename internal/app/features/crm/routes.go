package crm

import (
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts CRM routes; bootstrap nests them under
// /api/organizations/{orgID}/crm.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{contactID}", h.HandleGet)
	r.Patch("/{contactID}", h.HandleUpdate)
	r.Delete("/{contactID}", h.HandleDelete)

	return r
}
