// Package messages appends to and lists a chatroom's message history.
// Membership is resolved through the chatroom's owning organization.
package messages

import (
	"errors"
	"net/http"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/htmlsanitize"
	"github.com/communehq/commune/internal/app/system/timeouts"
	chatroomstore "github.com/communehq/commune/internal/app/store/chatrooms"
	messagestore "github.com/communehq/commune/internal/app/store/messages"
	"github.com/communehq/commune/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Chatrooms *chatroomstore.Store
	Messages  *messagestore.Store
	Gate      *gates.Gate
	Log       *zap.Logger
	Errs      *apierrors.ErrorLogger
}

func NewHandler(chatrooms *chatroomstore.Store, messages *messagestore.Store, gate *gates.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		Chatrooms: chatrooms,
		Messages:  messages,
		Gate:      gate,
		Log:       logger,
		Errs:      apierrors.NewErrorLogger(logger),
	}
}

// authorizeChatroom loads the chatroom, then gates on its org. Unknown
// chatroom ids answer 404; known ones require membership.
func (h *Handler) authorizeChatroom(w http.ResponseWriter, r *http.Request) (*models.Chatroom, gates.Result, bool) {
	chatroomID := chi.URLParam(r, "chatroomID")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	room, err := h.Chatrooms.GetByID(ctx, chatroomID)
	if err != nil {
		if errors.Is(err, chatroomstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "chatroom not found")
			return nil, gates.Result{}, false
		}
		h.Errs.Internal(w, r, "load chatroom", err)
		return nil, gates.Result{}, false
	}

	res, err := h.Gate.Authorize(r, room.OrgID, gates.CapMember)
	if err != nil {
		apierrors.RenderGateError(w, err)
		return nil, gates.Result{}, false
	}
	return room, res, true
}

// HandleList returns the chatroom's messages oldest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	room, _, ok := h.authorizeChatroom(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	msgs, err := h.Messages.ListByChatroom(ctx, room.ID)
	if err != nil {
		h.Errs.Internal(w, r, "list messages", err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	shared.JSON(w, h.Log, http.StatusOK, msgs)
}

type postRequest struct {
	Body string `json:"body"`
}

// HandlePost appends a message. Delivery to connected clients rides the
// change feed, not this endpoint.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	room, res, ok := h.authorizeChatroom(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode message request", err, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	msg, err := h.Messages.Append(ctx, room.ID, res.UserID, htmlsanitize.Text(req.Body))
	if err != nil {
		h.Errs.BadRequest(w, r, "append message", err, "message body is required")
		return
	}
	shared.JSON(w, h.Log, http.StatusCreated, msg)
}
