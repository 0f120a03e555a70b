package messagestore

import (
	"testing"
	"time"

	"github.com/communehq/commune/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAppendAndListAscending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	chatroomID := uuid.New().String()
	sender := primitive.NewObjectID()
	for _, body := range []string{"first", "second", "third"} {
		if _, err := store.Append(ctx, chatroomID, sender, body); err != nil {
			t.Fatalf("Append(%q): %v", body, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	msgs, err := store.ListByChatroom(ctx, chatroomID)
	if err != nil {
		t.Fatalf("ListByChatroom: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	want := []string{"first", "second", "third"}
	for i, msg := range msgs {
		if msg.Body != want[i] {
			t.Fatalf("msgs[%d] = %q, want %q (oldest first)", i, msg.Body, want[i])
		}
	}
}

func TestAppendEmptyBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Append(ctx, uuid.New().String(), primitive.NewObjectID(), "   "); err == nil {
		t.Fatal("expected error for blank body")
	}
}

func TestListScopedToChatroom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sender := primitive.NewObjectID()
	roomA := uuid.New().String()
	roomB := uuid.New().String()
	if _, err := store.Append(ctx, roomA, sender, "in A"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := store.Append(ctx, roomB, sender, "in B"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := store.ListByChatroom(ctx, roomA)
	if err != nil {
		t.Fatalf("ListByChatroom: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "in A" {
		t.Fatalf("msgs = %+v, want only room A's message", msgs)
	}
}

func TestDeleteByChatrooms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sender := primitive.NewObjectID()
	roomA := uuid.New().String()
	roomB := uuid.New().String()
	store.Append(ctx, roomA, sender, "one")
	store.Append(ctx, roomA, sender, "two")
	store.Append(ctx, roomB, sender, "keep")

	deleted, err := store.DeleteByChatrooms(ctx, []string{roomA})
	if err != nil {
		t.Fatalf("DeleteByChatrooms: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	kept, err := store.ListByChatroom(ctx, roomB)
	if err != nil {
		t.Fatalf("ListByChatroom: %v", err)
	}
	if len(kept) != 1 {
		t.Fatal("other chatroom's messages must survive")
	}

	if n, err := store.DeleteByChatrooms(ctx, nil); err != nil || n != 0 {
		t.Fatalf("DeleteByChatrooms(nil) = (%d, %v), want (0, nil)", n, err)
	}
}
