package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chatroom lives on the real-time platform side of the system and carries a
// UUID string id rather than an ObjectID. The org_id ties it back to its
// owning tenant for the cross-tenant ownership check.
type Chatroom struct {
	ID          string             `bson:"_id" json:"id"`
	OrgID       primitive.ObjectID `bson:"org_id" json:"org_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ChatroomAccess grants a label read/write access to a chatroom.
type ChatroomAccess struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatroomID string             `bson:"chatroom_id" json:"chatroom_id"`
	LabelID    primitive.ObjectID `bson:"label_id" json:"label_id"`
	CanRead    bool               `bson:"can_read" json:"can_read"`
	CanWrite   bool               `bson:"can_write" json:"can_write"`
}
