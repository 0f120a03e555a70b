// Package login authenticates credentials and starts a session.
package login

import (
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/timeouts"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
	Errs     *apierrors.ErrorLogger
}

func NewHandler(users *userstore.Store, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Log:      logger,
		Errs:     apierrors.NewErrorLogger(logger),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin answers the same 400 body for unknown emails and wrong
// passwords so the endpoint does not confirm which addresses have accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode login request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierrors.WriteJSON(w, http.StatusBadRequest, "invalid email or password")
			return
		}
		h.Errs.Internal(w, r, "load user by email", err)
		return
	}
	if !userstore.VerifyPassword(user, req.Password) {
		h.Log.Debug("password mismatch", zap.String("user_id", user.ID.Hex()))
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	if err := h.Sessions.IssueCookie(w, user.ID.Hex()); err != nil {
		h.Errs.Internal(w, r, "issue session cookie", err)
		return
	}
	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))
	shared.JSON(w, h.Log, http.StatusOK, user)
}
