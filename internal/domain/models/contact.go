package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is an org-scoped CRM record.
type Contact struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID   primitive.ObjectID `bson:"org_id" json:"org_id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"-"`
	Email   string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company string             `bson:"company,omitempty" json:"company,omitempty"`
	Notes   string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status  string             `bson:"status" json:"status"` // LEAD | ACTIVE | CLOSED

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
