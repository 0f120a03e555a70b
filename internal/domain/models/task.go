package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is an org-scoped work item, optionally assigned to a membership.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID       primitive.ObjectID `bson:"org_id" json:"org_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"` // OPEN | IN_PROGRESS | DONE

	AssigneeID *primitive.ObjectID `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"` // membership id
	DueDate    *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
