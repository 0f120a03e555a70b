package chatrooms

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/htmlsanitize"
	"github.com/communehq/commune/internal/app/system/timeouts"
	chatroomstore "github.com/communehq/commune/internal/app/store/chatrooms"
	labelstore "github.com/communehq/commune/internal/app/store/labels"
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

type accessInput struct {
	LabelID  string `json:"label_id"`
	CanRead  bool   `json:"can_read"`
	CanWrite bool   `json:"can_write"`
}

type chatroomRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	LabelAccess []accessInput `json:"label_access"`
}

// grantsFromInput validates access entries: parseable label ids that belong
// to the org.
func (h *Handler) grantsFromInput(ctx context.Context, orgID primitive.ObjectID, in []accessInput) ([]chatroomstore.AccessGrant, error) {
	if in == nil {
		return nil, nil
	}
	grants := make([]chatroomstore.AccessGrant, 0, len(in))
	for _, a := range in {
		labelID, err := primitive.ObjectIDFromHex(a.LabelID)
		if err != nil {
			return nil, errors.New("invalid label id")
		}
		if _, err := h.Labels.GetInOrg(ctx, labelID, orgID); err != nil {
			if errors.Is(err, labelstore.ErrNotFound) {
				return nil, errors.New("label does not belong to this organization")
			}
			return nil, err
		}
		grants = append(grants, chatroomstore.AccessGrant{
			LabelID:  labelID,
			CanRead:  a.CanRead,
			CanWrite: a.CanWrite,
		})
	}
	return grants, nil
}

type chatroomWithAccess struct {
	models.Chatroom
	LabelAccess []models.ChatroomAccess `json:"label_access"`
}

// HandleList returns the org's chatrooms with their access grants.
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

	rooms, err := h.Chatrooms.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list chatrooms", err)
		return
	}
	out := make([]chatroomWithAccess, 0, len(rooms))
	for _, room := range rooms {
		grants, err := h.Chatrooms.ListAccess(ctx, room.ID)
		if err != nil {
			h.Errs.Internal(w, r, "list chatroom access", err)
			return
		}
		if grants == nil {
			grants = []models.ChatroomAccess{}
		}
		out = append(out, chatroomWithAccess{Chatroom: room, LabelAccess: grants})
	}
	shared.JSON(w, h.Log, http.StatusOK, out)
}

// HandleCreate creates a chatroom in the org.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.Gate.Authorize(r, orgID, gates.CapAdminister)
	if err != nil {
		apierrors.RenderGateError(w, err)
		return
	}

	var req chatroomRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode chatroom request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	grants, err := h.grantsFromInput(ctx, orgID, req.LabelAccess)
	if err != nil {
		h.Errs.BadRequest(w, r, "validate label access", err, err.Error())
		return
	}
	room, err := h.Chatrooms.Create(ctx, orgID,
		htmlsanitize.Text(req.Name), htmlsanitize.Sanitize(req.Description), grants)
	if err != nil {
		h.Errs.BadRequest(w, r, "create chatroom", err, "chatroom name is required")
		return
	}

	h.Log.Info("chatroom created",
		zap.String("org_id", orgID.Hex()),
		zap.String("chatroom_id", room.ID),
		zap.String("created_by", res.UserID.Hex()))
	shared.JSON(w, h.Log, http.StatusCreated, room)
}

// HandleUpdate renames a chatroom or replaces its access grants. Chatrooms
// outside the org answer 404.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapAdminister); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}
	chatroomID := chi.URLParam(r, "chatroomID")

	var req chatroomRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode chatroom request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	grants, err := h.grantsFromInput(ctx, orgID, req.LabelAccess)
	if err != nil {
		h.Errs.BadRequest(w, r, "validate label access", err, err.Error())
		return
	}
	err = h.Chatrooms.Update(ctx, chatroomID, orgID,
		htmlsanitize.Text(req.Name), htmlsanitize.Sanitize(req.Description), grants)
	if err != nil {
		if errors.Is(err, chatroomstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "chatroom not found")
			return
		}
		h.Errs.BadRequest(w, r, "update chatroom", err, "chatroom name is required")
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDelete removes a chatroom, its access grants, and its messages.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapAdminister); err != nil {
		apierrors.RenderGateError(w, err)
		return
	}
	chatroomID := chi.URLParam(r, "chatroomID")

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Chatrooms.Delete(ctx, chatroomID, orgID); err != nil {
		if errors.Is(err, chatroomstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "chatroom not found")
			return
		}
		h.Errs.Internal(w, r, "delete chatroom", err)
		return
	}
	if _, err := h.Messages.DeleteByChatrooms(ctx, []string{chatroomID}); err != nil {
		h.Log.Error("cascade messages", zap.String("chatroom_id", chatroomID), zap.Error(err))
	}

	h.Log.Info("chatroom deleted",
		zap.String("org_id", orgID.Hex()),
		zap.String("chatroom_id", chatroomID))
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "deleted"})
}
