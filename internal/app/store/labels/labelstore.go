package labelstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/communehq/commune/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("labels")}
}

var (
	ErrNotFound  = errors.New("label not found")
	errEmptyName = errors.New("label name is required")
)

// GetOrCreate returns the org's label with the given name, matching on the
// folded form so "Engineering" and "engineering" are one label. Lost races
// on the unique (org_id, name_ci) index fall back to a re-read.
func (s *Store) GetOrCreate(ctx context.Context, orgID primitive.ObjectID, name string) (models.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Label{}, errEmptyName
	}
	folded := text.Fold(name)

	var existing models.Label
	err := s.c.FindOne(ctx, bson.M{"org_id": orgID, "name_ci": folded}).Decode(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Label{}, err
	}

	label := models.Label{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Name:      name,
		NameCI:    folded,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, label); err != nil {
		if wafflemongo.IsDup(err) {
			err = s.c.FindOne(ctx, bson.M{"org_id": orgID, "name_ci": folded}).Decode(&existing)
			if err != nil {
				return models.Label{}, err
			}
			return existing, nil
		}
		return models.Label{}, err
	}
	return label, nil
}

// GetInOrg loads a label by id within the org; ErrNotFound for absent or
// cross-org ids.
func (s *Store) GetInOrg(ctx context.Context, id, orgID primitive.ObjectID) (*models.Label, error) {
	var label models.Label
	err := s.c.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&label)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Label, error) {
	cur, err := s.c.Find(ctx, bson.M{"org_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var labels []models.Label
	if err := cur.All(ctx, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// DeleteByOrg removes all labels of an organization (cascade).
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"org_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
