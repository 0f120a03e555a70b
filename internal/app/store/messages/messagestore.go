package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/communehq/commune/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store appends and lists chatroom messages. Nothing here pushes to live
// clients; the change feed on the messages collection owns delivery.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

var errEmptyBody = errors.New("message body is required")

// Append inserts one message at the tail of the chatroom's history.
func (s *Store) Append(ctx context.Context, chatroomID string, senderID primitive.ObjectID, body string) (models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, errEmptyBody
	}

	msg := models.Message{
		ID:         uuid.New().String(),
		ChatroomID: chatroomID,
		SenderID:   senderID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ListByChatroom returns the chatroom's messages oldest first.
func (s *Store) ListByChatroom(ctx context.Context, chatroomID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"chatroom_id": chatroomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteByChatrooms removes all messages of the given chatrooms (cascade).
func (s *Store) DeleteByChatrooms(ctx context.Context, chatroomIDs []string) (int64, error) {
	if len(chatroomIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"chatroom_id": bson.M{"$in": chatroomIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
