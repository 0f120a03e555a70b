package taskstore

import (
	"errors"
	"testing"
	"time"

	"github.com/communehq/commune/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]string{
		"open":         StatusOpen,
		" in_progress": StatusInProgress,
		"Done":         StatusDone,
	} {
		got, err := ParseStatus(in)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseStatus("SOMEDAY"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestCreateDefaultsToOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task, err := store.Create(ctx, primitive.NewObjectID(), Fields{Title: "  Ship it "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Title != "Ship it" {
		t.Fatalf("title = %q, want trimmed", task.Title)
	}
	if task.Status != StatusOpen {
		t.Fatalf("status = %q, want OPEN default", task.Status)
	}
	if task.AssigneeID != nil || task.DueDate != nil {
		t.Fatal("assignee and due date must start unset")
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, primitive.NewObjectID(), Fields{Title: " "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestUpdateSetsAndClearsOptionalFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	task, err := store.Create(ctx, orgID, Fields{Title: "Ship it"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	assignee := primitive.NewObjectID()
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Millisecond)
	err = store.Update(ctx, task.ID, orgID, Fields{
		Title:      "Ship it",
		Status:     "in_progress",
		AssigneeID: &assignee,
		DueDate:    &due,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetInOrg(ctx, task.ID, orgID)
	if err != nil {
		t.Fatalf("GetInOrg: %v", err)
	}
	if got.Status != StatusInProgress {
		t.Fatalf("status = %q, want IN_PROGRESS", got.Status)
	}
	if got.AssigneeID == nil || *got.AssigneeID != assignee {
		t.Fatal("assignee not set")
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatal("due date not set")
	}

	err = store.Update(ctx, task.ID, orgID, Fields{Title: "Ship it", Status: "done"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = store.GetInOrg(ctx, task.ID, orgID)
	if err != nil {
		t.Fatalf("GetInOrg: %v", err)
	}
	if got.AssigneeID != nil || got.DueDate != nil {
		t.Fatal("omitting assignee and due date must clear them")
	}
}

func TestScopedToOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	task, err := store.Create(ctx, orgID, Fields{Title: "Ship it"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.GetInOrg(ctx, task.ID, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-org GetInOrg = %v, want ErrNotFound", err)
	}
	if err := store.Update(ctx, task.ID, other, Fields{Title: "X", Status: "OPEN"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-org Update = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, task.ID, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-org Delete = %v, want ErrNotFound", err)
	}
}

func TestListAndDeleteByOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	for _, title := range []string{"one", "two", "three"} {
		if _, err := store.Create(ctx, orgID, Fields{Title: title}); err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
	}

	tasks, err := store.ListByOrg(ctx, orgID)
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}

	deleted, err := store.DeleteByOrg(ctx, orgID)
	if err != nil {
		t.Fatalf("DeleteByOrg: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted = %d, want 3", deleted)
	}
}
