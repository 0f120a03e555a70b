package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the membership resolver and the write surface for the
// user-organization join. At most one document exists per (user_id, org_id);
// the unique index enforces it.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

var (
	// ErrDuplicateMembership is returned when a (user, org) pair already
	// has a membership.
	ErrDuplicateMembership = errors.New("user is already a member of this organization")

	// ErrNotFound is returned by id-scoped mutations that matched nothing.
	ErrNotFound = errors.New("membership not found")
)

// RoleOf performs exactly one lookup by the composite key. Absence of a
// document is (_, false, nil): not a member, never an error. A non-nil
// error means the lookup itself failed and callers must fail closed.
func (s *Store) RoleOf(ctx context.Context, userID, orgID primitive.ObjectID) (authz.Role, bool, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "org_id": orgID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	role, err := authz.ParseRole(m.Role)
	if err != nil {
		// A stored role outside the fixed set is data corruption; treat the
		// user as unprivileged rather than erroring the request.
		return authz.RoleDefault, true, nil
	}
	return role, true, nil
}

// Add creates a membership. Invite-acceptance and organization creation are
// the only callers.
func (s *Store) Add(ctx context.Context, userID, orgID primitive.ObjectID, role authz.Role) (models.Membership, error) {
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		OrgID:     orgID,
		Role:      string(role),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

// GetInOrg loads a membership by id, constrained to the given org. Returns
// ErrNotFound when the id does not exist or belongs to another org, so
// cross-tenant ids are indistinguishable from absent ones.
func (s *Store) GetInOrg(ctx context.Context, id, orgID primitive.ObjectID) (*models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateRole sets the role on a membership within the org.
func (s *Store) UpdateRole(ctx context.Context, id, orgID primitive.ObjectID, role authz.Role) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "org_id": orgID},
		bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLabel attaches a label to a membership within the org.
func (s *Store) SetLabel(ctx context.Context, id, orgID, labelID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "org_id": orgID},
		bson.M{"$set": bson.M{"label_id": labelID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes a membership within the org.
func (s *Store) Remove(ctx context.Context, id, orgID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "org_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOrg returns all memberships of an organization.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, bson.M{"org_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.Membership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByUser returns all memberships held by a user.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.Membership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// DeleteByOrg removes all memberships for an organization (cascade).
// Returns the number of documents deleted.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"org_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
