package taskstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/communehq/commune/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

var (
	ErrNotFound   = errors.New("task not found")
	errEmptyTitle = errors.New("task title is required")
)

const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

func ParseStatus(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// Fields carries caller-supplied task data. AssigneeID, when set, is a
// membership id the handler has already verified belongs to the org.
type Fields struct {
	Title       string
	Description string
	Status      string
	AssigneeID  *primitive.ObjectID
	DueDate     *time.Time
}

func (f *Fields) validate(requireStatus bool) (string, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return "", errEmptyTitle
	}
	f.Description = strings.TrimSpace(f.Description)
	if f.Status == "" && !requireStatus {
		return StatusOpen, nil
	}
	return ParseStatus(f.Status)
}

func (s *Store) Create(ctx context.Context, orgID primitive.ObjectID, fields Fields) (models.Task, error) {
	status, err := fields.validate(false)
	if err != nil {
		return models.Task{}, err
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		OrgID:       orgID,
		Title:       fields.Title,
		Description: fields.Description,
		Status:      status,
		AssigneeID:  fields.AssigneeID,
		DueDate:     fields.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *Store) GetInOrg(ctx context.Context, id, orgID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) Update(ctx context.Context, id, orgID primitive.ObjectID, fields Fields) error {
	status, err := fields.validate(true)
	if err != nil {
		return err
	}

	set := bson.M{
		"title":       fields.Title,
		"description": fields.Description,
		"status":      status,
		"updated_at":  time.Now().UTC(),
	}
	unset := bson.M{}
	if fields.AssigneeID != nil {
		set["assignee_id"] = *fields.AssigneeID
	} else {
		unset["assignee_id"] = ""
	}
	if fields.DueDate != nil {
		set["due_date"] = *fields.DueDate
	} else {
		unset["due_date"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "org_id": orgID}, update)
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
