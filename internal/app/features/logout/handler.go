// Package logout clears the session cookie. The token itself stays valid
// until its expiry; clearing is advisory.
package logout

import (
	"net/http"

	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Log: logger}
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.UserID(r); ok {
		h.Log.Info("user logged out", zap.String("user_id", id))
	}
	h.Sessions.ClearCookie(w)
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "signed out"})
}
