// Package userinfo reports the signed-in user's account record.
package userinfo

import (
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/timeouts"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
	Errs  *apierrors.ErrorLogger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Users: users,
		Log:   logger,
		Errs:  apierrors.NewErrorLogger(logger),
	}
}

func (h *Handler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	idHex, ok := auth.UserID(r)
	if !ok {
		apierrors.WriteJSON(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		apierrors.WriteJSON(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// Valid token for a deleted account.
			apierrors.WriteJSON(w, http.StatusUnauthorized, "authentication required")
			return
		}
		h.Errs.Internal(w, r, "load current user", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, user)
}
