// Package members manages an organization's roster: listing, invitations,
// role changes, labels, and removal.
package members

import (
	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/system/gates"
	labelstore "github.com/communehq/commune/internal/app/store/labels"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	orgstore "github.com/communehq/commune/internal/app/store/organizations"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"go.uber.org/zap"
)

type Handler struct {
	Orgs        *orgstore.Store
	Memberships *membershipstore.Store
	Labels      *labelstore.Store
	Users       *userstore.Store
	Gate        *gates.Gate
	Log         *zap.Logger
	Errs        *apierrors.ErrorLogger
}

func NewHandler(orgs *orgstore.Store, memberships *membershipstore.Store, labels *labelstore.Store, users *userstore.Store, gate *gates.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:        orgs,
		Memberships: memberships,
		Labels:      labels,
		Users:       users,
		Gate:        gate,
		Log:         logger,
		Errs:        apierrors.NewErrorLogger(logger),
	}
}
