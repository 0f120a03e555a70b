package organizations

import (
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Organization routes under the base path
// (typically "/api/organizations" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/owned", h.HandleListOwned)
	r.Get("/member", h.HandleListMember)
	r.Get("/{orgID}", h.HandleView)
	r.Delete("/{orgID}", h.HandleDelete)

	return r
}
