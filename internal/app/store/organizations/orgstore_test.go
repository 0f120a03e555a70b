package orgstore

import (
	"errors"
	"testing"

	"github.com/communehq/commune/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	org, err := store.Create(ctx, "  Analytical Engines  ", owner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if org.Name != "Analytical Engines" {
		t.Fatalf("name = %q, want trimmed", org.Name)
	}
	if org.MemberCount != 1 {
		t.Fatalf("member_count = %d, want 1", org.MemberCount)
	}

	got, err := store.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OwnerID != owner {
		t.Fatal("owner mismatch")
	}
}

func TestCreateEmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "   ", primitive.NewObjectID()); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	if _, err := store.Create(ctx, "One", owner); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, "Two", owner); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, "Theirs", other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	orgs, err := store.ListOwned(ctx, owner)
	if err != nil {
		t.Fatalf("ListOwned: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("ListOwned = %d orgs, want 2", len(orgs))
	}
}

func TestAdjustMemberCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, "Analytical Engines", primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.AdjustMemberCount(ctx, org.ID, 1); err != nil {
		t.Fatalf("AdjustMemberCount: %v", err)
	}
	if err := store.AdjustMemberCount(ctx, org.ID, -1); err != nil {
		t.Fatalf("AdjustMemberCount: %v", err)
	}

	got, err := store.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.MemberCount != 1 {
		t.Fatalf("member_count = %d, want 1", got.MemberCount)
	}

	if err := store.AdjustMemberCount(ctx, primitive.NewObjectID(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, "Analytical Engines", primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, org.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, org.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, org.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}
