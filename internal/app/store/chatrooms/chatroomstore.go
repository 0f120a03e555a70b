package chatroomstore

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

// Store manages chatrooms and their per-label access grants. Chatrooms carry
// UUID string ids; the org_id field is what every ownership check keys on.
type Store struct {
	rooms  *mongo.Collection
	access *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		rooms:  db.Collection("chatrooms"),
		access: db.Collection("chatroom_access"),
	}
}

var (
	ErrNotFound  = errors.New("chatroom not found")
	errEmptyName = errors.New("chatroom name is required")
)

// AccessGrant is the write shape for a label's access to a chatroom.
type AccessGrant struct {
	LabelID  primitive.ObjectID
	CanRead  bool
	CanWrite bool
}

// Create inserts the chatroom and its access grants.
func (s *Store) Create(ctx context.Context, orgID primitive.ObjectID, name, description string, grants []AccessGrant) (models.Chatroom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Chatroom{}, errEmptyName
	}

	now := time.Now().UTC()
	room := models.Chatroom{
		ID:          uuid.New().String(),
		OrgID:       orgID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.rooms.InsertOne(ctx, room); err != nil {
		return models.Chatroom{}, err
	}

	if len(grants) > 0 {
		docs := make([]any, 0, len(grants))
		for _, g := range grants {
			docs = append(docs, models.ChatroomAccess{
				ID:         primitive.NewObjectID(),
				ChatroomID: room.ID,
				LabelID:    g.LabelID,
				CanRead:    g.CanRead,
				CanWrite:   g.CanWrite,
			})
		}
		if _, err := s.access.InsertMany(ctx, docs); err != nil {
			return models.Chatroom{}, err
		}
	}
	return room, nil
}

// GetByID loads a chatroom regardless of org. The messages surface uses it
// to discover the owning org before gating.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Chatroom, error) {
	var room models.Chatroom
	err := s.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetInOrg loads a chatroom by id constrained to the org; absent and
// cross-org ids both come back ErrNotFound.
func (s *Store) GetInOrg(ctx context.Context, id string, orgID primitive.ObjectID) (*models.Chatroom, error) {
	var room models.Chatroom
	err := s.rooms.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Chatroom, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.rooms.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Chatroom
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListAccess returns the access grants of a chatroom.
func (s *Store) ListAccess(ctx context.Context, chatroomID string) ([]models.ChatroomAccess, error) {
	cur, err := s.access.Find(ctx, bson.M{"chatroom_id": chatroomID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var grants []models.ChatroomAccess
	if err := cur.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// Update renames a chatroom and, when grants is non-nil, replaces its access
// grants wholesale.
func (s *Store) Update(ctx context.Context, id string, orgID primitive.ObjectID, name, description string, grants []AccessGrant) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName
	}

	res, err := s.rooms.UpdateOne(ctx,
		bson.M{"_id": id, "org_id": orgID},
		bson.M{"$set": bson.M{
			"name":        name,
			"description": strings.TrimSpace(description),
			"updated_at":  time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	if grants == nil {
		return nil
	}
	if _, err := s.access.DeleteMany(ctx, bson.M{"chatroom_id": id}); err != nil {
		return err
	}
	if len(grants) == 0 {
		return nil
	}
	docs := make([]any, 0, len(grants))
	for _, g := range grants {
		docs = append(docs, models.ChatroomAccess{
			ID:         primitive.NewObjectID(),
			ChatroomID: id,
			LabelID:    g.LabelID,
			CanRead:    g.CanRead,
			CanWrite:   g.CanWrite,
		})
	}
	_, err = s.access.InsertMany(ctx, docs)
	return err
}

// Delete removes the chatroom and its access grants. The caller cascades
// messages separately.
func (s *Store) Delete(ctx context.Context, id string, orgID primitive.ObjectID) error {
	res, err := s.rooms.DeleteOne(ctx, bson.M{"_id": id, "org_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.access.DeleteMany(ctx, bson.M{"chatroom_id": id})
	return err
}

// DeleteByOrg removes all chatrooms of an organization and their grants,
// returning the chatroom ids so the caller can cascade messages.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) ([]string, error) {
	rooms, err := s.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if _, err := s.rooms.DeleteMany(ctx, bson.M{"org_id": orgID}); err != nil {
		return nil, err
	}
	if _, err := s.access.DeleteMany(ctx, bson.M{"chatroom_id": bson.M{"$in": ids}}); err != nil {
		return nil, err
	}
	return ids, nil
}
