package messages_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/communehq/commune/internal/app/features/messages"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/token"
	chatroomstore "github.com/communehq/commune/internal/app/store/chatrooms"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	messagestore "github.com/communehq/commune/internal/app/store/messages"
	"github.com/communehq/commune/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*messages.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	tokens, err := token.New("test-secret-0123456789abcdefghij", time.Hour, logger)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	sm := auth.NewSessionManager(tokens, "commune_token", false, logger)
	memberships := membershipstore.New(db)
	gate := gates.New(sm, memberships, logger)

	handler := messages.NewHandler(chatroomstore.New(db), messagestore.New(db), gate, logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestPostAndListThroughChatroomOrg(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", member.ID)
	fixtures.CreateMembership(ctx, member.ID, org.ID, authz.RoleDefault)
	room := fixtures.CreateChatroom(ctx, org.ID, "General")

	req := testutil.NewJSONRequest("POST", "/", `{"body":"hello there"}`)
	req = testutil.WithUser(req, testutil.TestUser{ID: member.ID.Hex()})
	req = testutil.WithChiURLParam(req, "chatroomID", room.ID)
	rec := testutil.NewRecorder()
	handler.HandlePost(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	req = testutil.NewAuthenticatedRequest("GET", "/", testutil.TestUser{ID: member.ID.Hex()})
	req = testutil.WithChiURLParam(req, "chatroomID", room.ID)
	rec = testutil.NewRecorder()
	handler.HandleList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "hello there")
}

func TestNonMemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", owner.ID)
	room := fixtures.CreateChatroom(ctx, org.ID, "General")

	req := testutil.NewJSONRequest("POST", "/", `{"body":"intruder"}`)
	req = testutil.WithUser(req, testutil.NewTestUser())
	req = testutil.WithChiURLParam(req, "chatroomID", room.ID)
	rec := testutil.NewRecorder()
	handler.HandlePost(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestUnknownChatroomNotFound(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.TestUser{ID: member.ID.Hex()})
	req = testutil.WithChiURLParam(req, "chatroomID", uuid.New().String())
	rec := testutil.NewRecorder()
	handler.HandleList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestPostEmptyBody(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", member.ID)
	fixtures.CreateMembership(ctx, member.ID, org.ID, authz.RoleDefault)
	room := fixtures.CreateChatroom(ctx, org.ID, "General")

	req := testutil.NewJSONRequest("POST", "/", `{"body":"   "}`)
	req = testutil.WithUser(req, testutil.TestUser{ID: member.ID.Hex()})
	req = testutil.WithChiURLParam(req, "chatroomID", room.ID)
	rec := testutil.NewRecorder()
	handler.HandlePost(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
