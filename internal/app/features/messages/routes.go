package messages

import (
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts message routes; bootstrap nests them under
// /api/chatrooms/{chatroomID}/messages.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandlePost)

	return r
}
