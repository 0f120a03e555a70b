package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Label is an organization-scoped free-text tag. Many memberships may
// reference one label; uniqueness is on (org_id, name_ci).
type Label struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID  primitive.ObjectID `bson:"org_id" json:"org_id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
