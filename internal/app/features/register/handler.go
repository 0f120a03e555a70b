// Package register creates accounts and signs the new user in.
package register

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

const minPasswordLen = 8

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

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode register request", err, "invalid request body")
		return
	}
	if len(req.Password) < minPasswordLen {
		apierrors.WriteJSON(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	user, err := h.Users.Create(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apierrors.WriteJSON(w, http.StatusBadRequest, "an account with this email already exists")
			return
		}
		h.Errs.BadRequest(w, r, "create user", err, "invalid email or name")
		return
	}

	if err := h.Sessions.IssueCookie(w, user.ID.Hex()); err != nil {
		h.Errs.Internal(w, r, "issue session cookie", err)
		return
	}
	h.Log.Info("user registered", zap.String("user_id", user.ID.Hex()))
	shared.JSON(w, h.Log, http.StatusCreated, user)
}
