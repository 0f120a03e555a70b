package contactstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/communehq/commune/internal/app/system/normalize"
	"github.com/communehq/commune/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

var (
	ErrNotFound  = errors.New("contact not found")
	errEmptyName = errors.New("contact name is required")
)

const (
	StatusLead   = "LEAD"
	StatusActive = "ACTIVE"
	StatusClosed = "CLOSED"
)

// ParseStatus folds case and rejects anything outside the fixed set.
func ParseStatus(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case StatusLead:
		return StatusLead, nil
	case StatusActive:
		return StatusActive, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", fmt.Errorf("unknown contact status %q", s)
	}
}

// Fields carries the caller-supplied contact data. Status defaults to LEAD
// when blank on create.
type Fields struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Notes   string
	Status  string
}

func (f *Fields) validate(requireStatus bool) (string, error) {
	f.Name = normalize.Name(f.Name)
	if f.Name == "" {
		return "", errEmptyName
	}
	f.Email = normalize.Email(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Company = strings.TrimSpace(f.Company)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.Status == "" && !requireStatus {
		return StatusLead, nil
	}
	return ParseStatus(f.Status)
}

func (s *Store) Create(ctx context.Context, orgID primitive.ObjectID, fields Fields) (models.Contact, error) {
	status, err := fields.validate(false)
	if err != nil {
		return models.Contact{}, err
	}

	now := time.Now().UTC()
	contact := models.Contact{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Name:      fields.Name,
		NameCI:    text.Fold(fields.Name),
		Email:     fields.Email,
		Phone:     fields.Phone,
		Company:   fields.Company,
		Notes:     fields.Notes,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, contact); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

func (s *Store) GetInOrg(ctx context.Context, id, orgID primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	err := s.c.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *Store) Update(ctx context.Context, id, orgID primitive.ObjectID, fields Fields) error {
	status, err := fields.validate(true)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "org_id": orgID},
		bson.M{"$set": bson.M{
			"name":       fields.Name,
			"name_ci":    text.Fold(fields.Name),
			"email":      fields.Email,
			"phone":      fields.Phone,
			"company":    fields.Company,
			"notes":      fields.Notes,
			"status":     status,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id, orgID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "org_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"org_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
