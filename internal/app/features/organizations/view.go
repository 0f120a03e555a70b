package organizations

import (
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/timeouts"
	orgstore "github.com/communehq/commune/internal/app/store/organizations"
	"github.com/communehq/commune/internal/domain/models"
)

type memberDetail struct {
	models.Membership
	User  *userSummary  `json:"user,omitempty"`
	Label *models.Label `json:"label,omitempty"`
}

type userSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type orgDetail struct {
	models.Organization
	Members []memberDetail `json:"members"`
	Labels  []models.Label `json:"labels"`
}

// HandleView returns an organization with its members and labels. Members
// only; the gate answers 403 to everyone else whether or not the org exists.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
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

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, orgstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "organization not found")
			return
		}
		h.Errs.Internal(w, r, "load organization", err)
		return
	}

	memberships, err := h.Memberships.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list org members", err)
		return
	}
	labels, err := h.Labels.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list org labels", err)
		return
	}
	labelByID := make(map[string]*models.Label, len(labels))
	for i := range labels {
		labelByID[labels[i].ID.Hex()] = &labels[i]
	}

	members := make([]memberDetail, 0, len(memberships))
	for _, m := range memberships {
		detail := memberDetail{Membership: m}
		if user, err := h.Users.GetByID(ctx, m.UserID); err == nil {
			detail.User = &userSummary{
				ID:       user.ID.Hex(),
				Email:    user.Email,
				FullName: user.FullName,
			}
		}
		if m.LabelID != nil {
			detail.Label = labelByID[m.LabelID.Hex()]
		}
		members = append(members, detail)
	}
	if labels == nil {
		labels = []models.Label{}
	}

	shared.JSON(w, h.Log, http.StatusOK, orgDetail{
		Organization: *org,
		Members:      members,
		Labels:       labels,
	})
}
