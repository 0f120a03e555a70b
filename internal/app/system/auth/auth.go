package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/communehq/commune/internal/app/system/token"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager extracts the authenticated user from a request's session
// cookie and manages the cookie lifecycle. It holds no per-request state:
// every request independently re-verifies its token.
type SessionManager struct {
	tokens     *token.Service
	cookieName string
	secure     bool
	log        *zap.Logger
}

// NewSessionManager builds a SessionManager over the given token service.
// The secure flag controls whether issued cookies are marked Secure.
func NewSessionManager(tokens *token.Service, cookieName string, secure bool, logger *zap.Logger) *SessionManager {
	if cookieName == "" {
		cookieName = "commune_token"
	}
	return &SessionManager{
		tokens:     tokens,
		cookieName: cookieName,
		secure:     secure,
		log:        logger,
	}
}

// CookieName returns the session cookie name.
func (sm *SessionManager) CookieName() string { return sm.cookieName }

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we inject into r.Context() after verification.
type SessionUser struct {
	ID string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// UserID is a convenience wrapper returning just the authenticated user id.
func UserID(r *http.Request) (string, bool) {
	u, ok := CurrentUser(r)
	if !ok {
		return "", false
	}
	return u.ID, true
}

// Extract resolves the authenticated user id straight from the request's
// cookie jar, without relying on middleware having run. Side-effect-free and
// safe to call multiple times per request.
//
// An absent cookie short-circuits without a verify call. Invalid and Expired
// tokens both collapse to not-authenticated for the caller; the distinction
// is logged only, so handlers cannot leak it.
func (sm *SessionManager) Extract(r *http.Request) (string, bool) {
	c, err := r.Cookie(sm.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}

	userID, err := sm.tokens.Verify(c.Value)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			sm.log.Debug("session token expired", zap.String("path", r.URL.Path))
		} else {
			sm.log.Debug("session token invalid", zap.String("path", r.URL.Path))
		}
		return "", false
	}
	return userID, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the user into context if their session cookie
// verifies. Requests without a valid cookie pass through anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := sm.Extract(r); ok {
			r = withUser(r, &SessionUser{ID: userID})
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a JSON error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			ret := url.QueryEscape(currentURI(r))
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"authentication required"}`))
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Cookie lifecycle                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// IssueCookie mints a token for userID and sets the session cookie. The
// cookie lifetime is bounded to the token's expiration.
func (sm *SessionManager) IssueCookie(w http.ResponseWriter, userID string) error {
	tok, err := sm.tokens.Issue(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(sm.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie deletes the session cookie. This is advisory: a token the
// client already holds keeps verifying until its original expiry.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// WithTestUser injects a user into the request context. Tests use this to
// bypass the cookie round-trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	// Preserve path + query as a return param.
	u := *r.URL
	return u.RequestURI()
}
