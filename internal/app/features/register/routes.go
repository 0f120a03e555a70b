package register

import "github.com/go-chi/chi/v5"

// Routes mounts the registration endpoint (typically at /api/register).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister)
	return r
}
