package organizations

import (
	"net/http"

	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/app/system/htmlsanitize"
	"github.com/communehq/commune/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type createRequest struct {
	Name string `json:"name"`
}

// HandleCreate creates an organization owned by the caller, with the
// caller's CREATOR membership alongside it.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode create org request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	org, err := h.Orgs.Create(ctx, htmlsanitize.Text(req.Name), userID)
	if err != nil {
		h.Errs.BadRequest(w, r, "create organization", err, "organization name is required")
		return
	}
	if _, err := h.Memberships.Add(ctx, userID, org.ID, authz.RoleCreator); err != nil {
		// Without the creator membership the org is unusable; undo.
		if derr := h.Orgs.Delete(ctx, org.ID); derr != nil {
			h.Log.Error("rollback organization after membership failure",
				zap.String("org_id", org.ID.Hex()), zap.Error(derr))
		}
		h.Errs.Internal(w, r, "create creator membership", err)
		return
	}

	h.Log.Info("organization created",
		zap.String("org_id", org.ID.Hex()),
		zap.String("owner_id", userID.Hex()))
	shared.JSON(w, h.Log, http.StatusCreated, org)
}
