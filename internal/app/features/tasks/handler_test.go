package tasks_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/communehq/commune/internal/app/features/tasks"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/token"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	taskstore "github.com/communehq/commune/internal/app/store/tasks"
	"github.com/communehq/commune/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tasks.Handler, *testutil.Fixtures) {
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

	handler := tasks.NewHandler(taskstore.New(db), memberships, gate, logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestCreateWithAssignee(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", owner.ID)
	membership := fixtures.CreateMembership(ctx, owner.ID, org.ID, authz.RoleCreator)

	body := fmt.Sprintf(`{"title":"Ship the release","status":"open","assignee_id":%q}`, membership.ID.Hex())
	req := testutil.NewJSONRequest("POST", "/", body)
	req = testutil.WithUser(req, testutil.TestUser{ID: owner.ID.Hex()})
	req = testutil.WithChiURLParam(req, "orgID", org.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Ship the release")
	rec.AssertContains(t, membership.ID.Hex())
}

func TestCreateWithForeignAssignee(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	other := fixtures.CreateUser(ctx, "Charles Babbage", "charles@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", owner.ID)
	otherOrg := fixtures.CreateOrganization(ctx, "Globex", other.ID)
	fixtures.CreateMembership(ctx, owner.ID, org.ID, authz.RoleCreator)
	foreign := fixtures.CreateMembership(ctx, other.ID, otherOrg.ID, authz.RoleCreator)

	body := fmt.Sprintf(`{"title":"Ship the release","assignee_id":%q}`, foreign.ID.Hex())
	req := testutil.NewJSONRequest("POST", "/", body)
	req = testutil.WithUser(req, testutil.TestUser{ID: owner.ID.Hex()})
	req = testutil.WithChiURLParam(req, "orgID", org.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "assignee is not a member")
}

func TestUpdateClearsOmittedAssignee(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", owner.ID)
	membership := fixtures.CreateMembership(ctx, owner.ID, org.ID, authz.RoleCreator)

	stores := taskstore.New(fixtures.DB())
	created, err := stores.Create(ctx, org.ID, taskstore.Fields{
		Title:      "Ship the release",
		Status:     taskstore.StatusOpen,
		AssigneeID: &membership.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := testutil.NewJSONRequest("PATCH", "/", `{"title":"Ship the release","status":"done"}`)
	req = testutil.WithUser(req, testutil.TestUser{ID: owner.ID.Hex()})
	req = testutil.WithChiURLParam(req, "orgID", org.ID.Hex())
	req = testutil.WithChiURLParam(req, "taskID", created.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleUpdate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := stores.GetInOrg(ctx, created.ID, org.ID)
	if err != nil {
		t.Fatalf("GetInOrg: %v", err)
	}
	if got.AssigneeID != nil {
		t.Fatalf("assignee not cleared: %v", got.AssigneeID.Hex())
	}
	if got.Status != taskstore.StatusDone {
		t.Fatalf("status = %q, want DONE", got.Status)
	}
}

func TestCrossOrgTaskIs404(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", owner.ID)
	otherOrg := fixtures.CreateOrganization(ctx, "Globex", owner.ID)
	fixtures.CreateMembership(ctx, owner.ID, org.ID, authz.RoleCreator)
	fixtures.CreateMembership(ctx, owner.ID, otherOrg.ID, authz.RoleCreator)
	foreignTask := fixtures.CreateTask(ctx, otherOrg.ID, "Audit the books")

	req := testutil.NewRequest("GET", "/")
	req = testutil.WithUser(req, testutil.TestUser{ID: owner.ID.Hex()})
	req = testutil.WithChiURLParam(req, "orgID", org.ID.Hex())
	req = testutil.WithChiURLParam(req, "taskID", foreignTask.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleGet(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestNonMemberCannotList(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	outsider := fixtures.CreateUser(ctx, "Charles Babbage", "charles@example.com")
	org := fixtures.CreateOrganization(ctx, "Acme", owner.ID)
	fixtures.CreateMembership(ctx, owner.ID, org.ID, authz.RoleCreator)

	req := testutil.NewRequest("GET", "/")
	req = testutil.WithUser(req, testutil.TestUser{ID: outsider.ID.Hex()})
	req = testutil.WithChiURLParam(req, "orgID", org.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)
}
