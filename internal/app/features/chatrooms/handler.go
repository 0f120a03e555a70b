// Package chatrooms manages an organization's chatrooms and their
// label-based access grants.
package chatrooms

import (
	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/system/gates"
	chatroomstore "github.com/communehq/commune/internal/app/store/chatrooms"
	labelstore "github.com/communehq/commune/internal/app/store/labels"
	messagestore "github.com/communehq/commune/internal/app/store/messages"
	"go.uber.org/zap"
)

type Handler struct {
	Chatrooms *chatroomstore.Store
	Labels    *labelstore.Store
	Messages  *messagestore.Store
	Gate      *gates.Gate
	Log       *zap.Logger
	Errs      *apierrors.ErrorLogger
}

func NewHandler(chatrooms *chatroomstore.Store, labels *labelstore.Store, messages *messagestore.Store, gate *gates.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		Chatrooms: chatrooms,
		Labels:    labels,
		Messages:  messages,
		Gate:      gate,
		Log:       logger,
		Errs:      apierrors.NewErrorLogger(logger),
	}
}
