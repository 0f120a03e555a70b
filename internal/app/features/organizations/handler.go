// Package organizations manages tenant organizations: creation, listing,
// the member-gated detail view, and owner-initiated deletion with cascade.
package organizations

import (
	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/system/gates"
	chatroomstore "github.com/communehq/commune/internal/app/store/chatrooms"
	contactstore "github.com/communehq/commune/internal/app/store/contacts"
	labelstore "github.com/communehq/commune/internal/app/store/labels"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	messagestore "github.com/communehq/commune/internal/app/store/messages"
	orgstore "github.com/communehq/commune/internal/app/store/organizations"
	taskstore "github.com/communehq/commune/internal/app/store/tasks"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Organizations. Deletion
// cascades across every org-scoped collection, so it holds all the stores.
type Handler struct {
	Orgs        *orgstore.Store
	Memberships *membershipstore.Store
	Labels      *labelstore.Store
	Users       *userstore.Store
	Chatrooms   *chatroomstore.Store
	Messages    *messagestore.Store
	Contacts    *contactstore.Store
	Tasks       *taskstore.Store
	Gate        *gates.Gate
	Log         *zap.Logger
	Errs        *apierrors.ErrorLogger
}

type Stores struct {
	Orgs        *orgstore.Store
	Memberships *membershipstore.Store
	Labels      *labelstore.Store
	Users       *userstore.Store
	Chatrooms   *chatroomstore.Store
	Messages    *messagestore.Store
	Contacts    *contactstore.Store
	Tasks       *taskstore.Store
}

func NewHandler(stores Stores, gate *gates.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:        stores.Orgs,
		Memberships: stores.Memberships,
		Labels:      stores.Labels,
		Users:       stores.Users,
		Chatrooms:   stores.Chatrooms,
		Messages:    stores.Messages,
		Contacts:    stores.Contacts,
		Tasks:       stores.Tasks,
		Gate:        gate,
		Log:         logger,
		Errs:        apierrors.NewErrorLogger(logger),
	}
}
