// Package crm is the org-scoped contact book. Any member may read and
// write; records never cross organization lines.
package crm

import (
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/htmlsanitize"
	"github.com/communehq/commune/internal/app/system/timeouts"
	contactstore "github.com/communehq/commune/internal/app/store/contacts"
	"github.com/communehq/commune/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Contacts *contactstore.Store
	Gate     *gates.Gate
	Log      *zap.Logger
	Errs     *apierrors.ErrorLogger
}

func NewHandler(contacts *contactstore.Store, gate *gates.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		Contacts: contacts,
		Gate:     gate,
		Log:      logger,
		Errs:     apierrors.NewErrorLogger(logger),
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
	Status  string `json:"status"`
}

func (req contactRequest) fields() contactstore.Fields {
	return contactstore.Fields{
		Name:    htmlsanitize.Text(req.Name),
		Email:   req.Email,
		Phone:   htmlsanitize.Text(req.Phone),
		Company: htmlsanitize.Text(req.Company),
		Notes:   htmlsanitize.Sanitize(req.Notes),
		Status:  req.Status,
	}
}

// authorize parses {orgID} and requires membership.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	orgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orgID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid organization id")
		return primitive.NilObjectID, false
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapMember); err != nil {
		apierrors.RenderGateError(w, err)
		return primitive.NilObjectID, false
	}
	return orgID, true
}

func contactIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "contactID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid contact id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	contacts, err := h.Contacts.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list contacts", err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	shared.JSON(w, h.Log, http.StatusOK, contacts)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode contact request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	contact, err := h.Contacts.Create(ctx, orgID, req.fields())
	if err != nil {
		h.Errs.BadRequest(w, r, "create contact", err, "invalid contact fields")
		return
	}
	shared.JSON(w, h.Log, http.StatusCreated, contact)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	contactID, ok := contactIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	contact, err := h.Contacts.GetInOrg(ctx, contactID, orgID)
	if err != nil {
		if errors.Is(err, contactstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "contact not found")
			return
		}
		h.Errs.Internal(w, r, "load contact", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, contact)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	contactID, ok := contactIDParam(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode contact request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Contacts.Update(ctx, contactID, orgID, req.fields()); err != nil {
		if errors.Is(err, contactstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "contact not found")
			return
		}
		h.Errs.BadRequest(w, r, "update contact", err, "invalid contact fields")
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	contactID, ok := contactIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Contacts.Delete(ctx, contactID, orgID); err != nil {
		if errors.Is(err, contactstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "contact not found")
			return
		}
		h.Errs.Internal(w, r, "delete contact", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "deleted"})
}
