package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is a tenant container. It exclusively owns its memberships,
// labels, chatrooms, contacts, and tasks (cascade scope on delete).
type Organization struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // always stored

	// OwnerID is the creating user. The owner also holds a CREATOR membership.
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	// MemberCount is a cached count maintained on invite/remove.
	MemberCount int `bson:"member_count" json:"member_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
