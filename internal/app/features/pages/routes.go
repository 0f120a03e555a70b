package pages

import "github.com/go-chi/chi/v5"

// Routes mounts the page shells at the router root. The route guard in
// bootstrap wraps the whole handler, so /dashboard and /organization/*
// are already protected by the time requests reach these.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.ServeLogin)
	r.Get("/dashboard", h.ServeDashboard)
	r.Get("/organization/{orgID}", h.ServeOrganization)

	return r
}
