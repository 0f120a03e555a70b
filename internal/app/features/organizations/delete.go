package organizations

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/timeouts"
	orgstore "github.com/communehq/commune/internal/app/store/organizations"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes an organization and everything scoped to it. Only
// the CREATOR may delete; moderators administer members but not the org.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.Gate.Authorize(r, orgID, gates.CapAdminister)
	if err != nil {
		apierrors.RenderGateError(w, err)
		return
	}
	if res.Role != authz.RoleCreator {
		apierrors.WriteJSON(w, http.StatusForbidden, "forbidden")
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Orgs.Delete(ctx, orgID); err != nil {
		if errors.Is(err, orgstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "organization not found")
			return
		}
		h.Errs.Internal(w, r, "delete organization", err)
		return
	}
	h.cascade(ctx, orgID)

	h.Log.Info("organization deleted",
		zap.String("org_id", orgID.Hex()),
		zap.String("deleted_by", res.UserID.Hex()))
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "deleted"})
}

// cascade removes the org's dependent documents. The org document is already
// gone; failures here leave orphans, which are logged and harmless since
// every read path filters by org_id.
func (h *Handler) cascade(ctx context.Context, orgID primitive.ObjectID) {
	if _, err := h.Memberships.DeleteByOrg(ctx, orgID); err != nil {
		h.Log.Error("cascade memberships", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}
	if _, err := h.Labels.DeleteByOrg(ctx, orgID); err != nil {
		h.Log.Error("cascade labels", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}
	chatroomIDs, err := h.Chatrooms.DeleteByOrg(ctx, orgID)
	if err != nil {
		h.Log.Error("cascade chatrooms", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}
	if _, err := h.Messages.DeleteByChatrooms(ctx, chatroomIDs); err != nil {
		h.Log.Error("cascade messages", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}
	if _, err := h.Contacts.DeleteByOrg(ctx, orgID); err != nil {
		h.Log.Error("cascade contacts", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}
	if _, err := h.Tasks.DeleteByOrg(ctx, orgID); err != nil {
		h.Log.Error("cascade tasks", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}
}
