package organizations

import (
	"net/http"

	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/timeouts"
	"github.com/communehq/commune/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleListOwned returns the organizations the caller owns.
func (h *Handler) HandleListOwned(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	orgs, err := h.Orgs.ListOwned(ctx, userID)
	if err != nil {
		h.Errs.Internal(w, r, "list owned organizations", err)
		return
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}
	shared.JSON(w, h.Log, http.StatusOK, orgs)
}

type membershipWithOrg struct {
	models.Membership
	Organization *models.Organization `json:"organization,omitempty"`
}

// HandleListMember returns the caller's memberships with each organization
// embedded.
func (h *Handler) HandleListMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	memberships, err := h.Memberships.ListByUser(ctx, userID)
	if err != nil {
		h.Errs.Internal(w, r, "list memberships", err)
		return
	}

	orgIDs := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		orgIDs = append(orgIDs, m.OrgID)
	}
	orgs, err := h.Orgs.ListByIDs(ctx, orgIDs)
	if err != nil {
		h.Errs.Internal(w, r, "load member organizations", err)
		return
	}
	byID := make(map[primitive.ObjectID]*models.Organization, len(orgs))
	for i := range orgs {
		byID[orgs[i].ID] = &orgs[i]
	}

	out := make([]membershipWithOrg, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, membershipWithOrg{
			Membership:   m,
			Organization: byID[m.OrgID],
		})
	}
	shared.JSON(w, h.Log, http.StatusOK, out)
}
