package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is the authoritative join between users and organizations.
// Exactly one document per (user_id, org_id); role is a scalar
// ("CREATOR" | "MODERATOR" | "DEFAULT").
type Membership struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrgID  primitive.ObjectID `bson:"org_id" json:"org_id"`
	Role   string             `bson:"role" json:"role"`

	// LabelID is an optional org-scoped tag on the membership.
	LabelID *primitive.ObjectID `bson:"label_id,omitempty" json:"label_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
