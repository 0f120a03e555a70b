package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chatroom message. The API only appends and lists; delivery of
// new messages to connected clients is the platform change feed's job.
type Message struct {
	ID         string             `bson:"_id" json:"id"`
	ChatroomID string             `bson:"chatroom_id" json:"chatroom_id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Body       string             `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
