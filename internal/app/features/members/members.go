package members

import (
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/htmlsanitize"
	"github.com/communehq/commune/internal/app/system/timeouts"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"github.com/communehq/commune/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func orgIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orgID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid organization id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type memberEntry struct {
	models.Membership
	User  *userSummary  `json:"user,omitempty"`
	Label *models.Label `json:"label,omitempty"`
}

type userSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// HandleList returns the organization's members with user and label detail.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapMember); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	memberships, err := h.Memberships.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list members", err)
		return
	}
	labels, err := h.Labels.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list labels", err)
		return
	}
	labelByID := make(map[primitive.ObjectID]*models.Label, len(labels))
	for i := range labels {
		labelByID[labels[i].ID] = &labels[i]
	}

	out := make([]memberEntry, 0, len(memberships))
	for _, m := range memberships {
		entry := memberEntry{Membership: m}
		if user, err := h.Users.GetByID(ctx, m.UserID); err == nil {
			entry.User = &userSummary{
				ID:       user.ID.Hex(),
				Email:    user.Email,
				FullName: user.FullName,
			}
		}
		if m.LabelID != nil {
			entry.Label = labelByID[*m.LabelID]
		}
		out = append(out, entry)
	}
	shared.JSON(w, h.Log, http.StatusOK, out)
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleInvite adds an existing account to the organization by email.
// Granting CREATOR is not possible; the role belongs to the owner alone.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapAdminister); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}

	var req inviteRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode invite request", err, "invalid request body")
		return
	}
	role := authz.RoleDefault
	if req.Role != "" {
		parsed, err := authz.ParseRole(req.Role)
		if err != nil || parsed == authz.RoleCreator {
			apierrors.WriteJSON(w, http.StatusBadRequest, "role must be MODERATOR or DEFAULT")
			return
		}
		role = parsed
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "no account with that email")
			return
		}
		h.Errs.Internal(w, r, "look up invitee", err)
		return
	}

	membership, err := h.Memberships.Add(ctx, user.ID, orgID, role)
	if err != nil {
		if errors.Is(err, membershipstore.ErrDuplicateMembership) {
			apierrors.WriteJSON(w, http.StatusBadRequest, "user is already a member")
			return
		}
		h.Errs.Internal(w, r, "add membership", err)
		return
	}
	if err := h.Orgs.AdjustMemberCount(ctx, orgID, 1); err != nil {
		h.Log.Error("increment member count", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}

	h.Log.Info("member invited",
		zap.String("org_id", orgID.Hex()),
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", string(role)))
	shared.JSON(w, h.Log, http.StatusCreated, membership)
}

type roleRequest struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

// HandleSetRole changes a member's role within the organization.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapAdminister); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}

	var req roleRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode role request", err, "invalid request body")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid member id")
		return
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil || role == authz.RoleCreator {
		apierrors.WriteJSON(w, http.StatusBadRequest, "role must be MODERATOR or DEFAULT")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	target, err := h.Memberships.GetInOrg(ctx, memberID, orgID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "member not found")
			return
		}
		h.Errs.Internal(w, r, "load membership", err)
		return
	}
	if target.Role == string(authz.RoleCreator) {
		apierrors.WriteJSON(w, http.StatusBadRequest, "the creator's role cannot be changed")
		return
	}

	if err := h.Memberships.UpdateRole(ctx, memberID, orgID, role); err != nil {
		h.Errs.Internal(w, r, "update role", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "updated"})
}

type labelRequest struct {
	MemberID string `json:"member_id"`
	Label    string `json:"label"`
}

// HandleSetLabel attaches an org label to a member, creating the label on
// first use.
func (h *Handler) HandleSetLabel(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapAdminister); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}

	var req labelRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode label request", err, "invalid request body")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid member id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if _, err := h.Memberships.GetInOrg(ctx, memberID, orgID); err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "member not found")
			return
		}
		h.Errs.Internal(w, r, "load membership", err)
		return
	}

	label, err := h.Labels.GetOrCreate(ctx, orgID, htmlsanitize.Text(req.Label))
	if err != nil {
		h.Errs.BadRequest(w, r, "get or create label", err, "label name is required")
		return
	}
	if err := h.Memberships.SetLabel(ctx, memberID, orgID, label.ID); err != nil {
		h.Errs.Internal(w, r, "attach label", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, label)
}

// HandleRemove deletes a membership and decrements the cached member count.
// The creator cannot be removed.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapAdminister); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}
	memberID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid member id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	target, err := h.Memberships.GetInOrg(ctx, memberID, orgID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "member not found")
			return
		}
		h.Errs.Internal(w, r, "load membership", err)
		return
	}
	if target.Role == string(authz.RoleCreator) {
		apierrors.WriteJSON(w, http.StatusBadRequest, "the creator cannot be removed")
		return
	}

	if err := h.Memberships.Remove(ctx, memberID, orgID); err != nil {
		h.Errs.Internal(w, r, "remove membership", err)
		return
	}
	if err := h.Orgs.AdjustMemberCount(ctx, orgID, -1); err != nil {
		h.Log.Error("decrement member count", zap.String("org_id", orgID.Hex()), zap.Error(err))
	}

	h.Log.Info("member removed",
		zap.String("org_id", orgID.Hex()),
		zap.String("member_id", memberID.Hex()))
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "removed"})
}
