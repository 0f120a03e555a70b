package chatrooms

import (
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts chatroom routes; bootstrap nests them under
// /api/organizations/{orgID}/chatrooms.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Patch("/{chatroomID}", h.HandleUpdate)
	r.Delete("/{chatroomID}", h.HandleDelete)

	return r
}
