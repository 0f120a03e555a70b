// Package pages serves the HTML shells behind the route guard. The guard
// has already verified the session (and, for organization pages,
// membership) before these handlers run.
package pages

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/communehq/commune/internal/app/system/timeouts"
	orgstore "github.com/communehq/commune/internal/app/store/organizations"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Orgs *orgstore.Store
	Log  *zap.Logger
}

func NewHandler(orgs *orgstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Orgs: orgs, Log: logger}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html>
<head><title>Dashboard</title></head>
<body>
<h1>Dashboard</h1>
</body>
</html>
`))

var organizationTmpl = template.Must(template.New("organization").Parse(`<!doctype html>
<html>
<head><title>{{.Name}}</title></head>
<body>
<h1>{{.Name}}</h1>
</body>
</html>
`))

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
</body>
</html>
`))

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, nil); err != nil {
		h.Log.Error("render dashboard", zap.Error(err))
	}
}

// ServeOrganization handles GET /organization/{orgID}. The guard already
// confirmed membership, so a miss here means the org vanished since.
func (h *Handler) ServeOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orgID"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, orgstore.ErrNotFound) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.Log.Error("load organization page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := organizationTmpl.Execute(w, org); err != nil {
		h.Log.Error("render organization page", zap.Error(err))
	}
}

// ServeLogin handles GET /login, the target of the guard's redirects.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginTmpl.Execute(w, nil); err != nil {
		h.Log.Error("render login page", zap.Error(err))
	}
}
