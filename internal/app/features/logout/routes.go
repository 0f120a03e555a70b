package logout

import "github.com/go-chi/chi/v5"

// Routes mounts the logout endpoint (typically at /api/logout).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogout)
	return r
}
