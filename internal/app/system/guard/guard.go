// Package guard is the edge middleware for protected page routes. It runs
// before the router for paths under the protected prefixes and either passes
// the request through or redirects; every branch is terminal within one
// request and no state is carried across requests.
package guard

import (
	"net/http"
	"strings"

	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/gates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	loginURL     = "/login"
	dashboardURL = "/dashboard"

	orgPrefix = "/organization/"
)

// Guard intercepts requests to protected page prefixes.
type Guard struct {
	sessions *auth.SessionManager
	roles    gates.RoleResolver
	prefixes []string
	log      *zap.Logger
}

// New builds a Guard protecting the given path prefixes. When prefixes is
// empty it defaults to /dashboard and /organization/.
func New(sessions *auth.SessionManager, roles gates.RoleResolver, prefixes []string, logger *zap.Logger) *Guard {
	if len(prefixes) == 0 {
		prefixes = []string{dashboardURL, orgPrefix}
	}
	return &Guard{sessions: sessions, roles: roles, prefixes: prefixes, log: logger}
}

// Middleware wraps next with the guard state machine:
//
//	no cookie / failed verify      -> 303 /login
//	verified, non-org path         -> pass
//	org path, malformed org id     -> 303 /dashboard
//	org path, not a member         -> 303 /dashboard
//	org path, member               -> pass
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.protected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userHex, ok := g.sessions.Extract(r)
		if !ok {
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}

		if !strings.HasPrefix(r.URL.Path, orgPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		orgID, ok := orgIDFromPath(r.URL.Path)
		if !ok {
			http.Redirect(w, r, dashboardURL, http.StatusSeeOther)
			return
		}

		userID, err := primitive.ObjectIDFromHex(userHex)
		if err != nil {
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}

		_, member, err := g.roles.RoleOf(r.Context(), userID, orgID)
		if err != nil {
			// Fail closed: a failed lookup reads as not-a-member.
			g.log.Error("guard membership lookup failed",
				zap.String("org_id", orgID.Hex()), zap.Error(err))
			http.Redirect(w, r, dashboardURL, http.StatusSeeOther)
			return
		}
		if !member {
			http.Redirect(w, r, dashboardURL, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Guard) protected(path string) bool {
	for _, p := range g.prefixes {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// orgIDFromPath extracts the organization id segment from
// /organization/{id}[/...].
func orgIDFromPath(path string) (primitive.ObjectID, bool) {
	rest := strings.TrimPrefix(path, orgPrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	id, err := primitive.ObjectIDFromHex(rest)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
