package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user and returns it with its generated id.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		PasswordHash: "$2a$10$fixture-not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateOrganization inserts a test organization owned by ownerID. It does
// not create the owner's membership; use CreateMembership for that.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, ownerID primitive.ObjectID) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		OwnerID:     ownerID,
		MemberCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateMembership inserts a membership record linking a user to an org.
func (f *Fixtures) CreateMembership(ctx context.Context, userID, orgID primitive.ObjectID, role authz.Role) models.Membership {
	f.t.Helper()

	m := models.Membership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		OrgID:     orgID,
		Role:      string(role),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateLabel inserts an org-scoped label.
func (f *Fixtures) CreateLabel(ctx context.Context, orgID primitive.ObjectID, name string) models.Label {
	f.t.Helper()

	l := models.Label{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("labels").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test label: %v", err)
	}
	return l
}

// CreateChatroom inserts a chatroom in the given org.
func (f *Fixtures) CreateChatroom(ctx context.Context, orgID primitive.ObjectID, name string) models.Chatroom {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Chatroom{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("chatrooms").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test chatroom: %v", err)
	}
	return c
}

// CreateContact inserts a CRM contact in the given org.
func (f *Fixtures) CreateContact(ctx context.Context, orgID primitive.ObjectID, name string) models.Contact {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Contact{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "LEAD",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("contacts").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contact: %v", err)
	}
	return c
}

// CreateTask inserts a task in the given org.
func (f *Fixtures) CreateTask(ctx context.Context, orgID primitive.ObjectID, title string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Title:     title,
		Status:    "OPEN",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
