package gates_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/authz"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeResolver resolves roles from an in-memory map keyed by user+org.
type fakeResolver struct {
	roles map[string]authz.Role
	err   error
}

func (f *fakeResolver) RoleOf(_ context.Context, userID, orgID primitive.ObjectID) (authz.Role, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	role, ok := f.roles[userID.Hex()+"/"+orgID.Hex()]
	return role, ok, nil
}

func newTestGate(t *testing.T, resolver gates.RoleResolver) *gates.Gate {
	t.Helper()
	logger := zap.NewNop()
	tokens, err := token.New("test-auth-secret-must-be-32-chars-long", time.Hour, logger)
	if err != nil {
		t.Fatalf("token.New failed: %v", err)
	}
	sm := auth.NewSessionManager(tokens, "test_token", false, logger)
	return gates.New(sm, resolver, logger)
}

func TestAuthorize_NoUser_Unauthenticated(t *testing.T) {
	g := newTestGate(t, &fakeResolver{roles: map[string]authz.Role{}})

	req := httptest.NewRequest("GET", "/api/organizations/x", nil)
	_, err := g.Authorize(req, primitive.NewObjectID(), gates.CapMember)
	if !errors.Is(err, gates.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_NonMember_Forbidden(t *testing.T) {
	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	g := newTestGate(t, &fakeResolver{roles: map[string]authz.Role{}})

	req := httptest.NewRequest("GET", "/api/organizations/x", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID.Hex()})

	_, err := g.Authorize(req, orgID, gates.CapMember)
	if !errors.Is(err, gates.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestAuthorize_Member_OK(t *testing.T) {
	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	g := newTestGate(t, &fakeResolver{roles: map[string]authz.Role{
		userID.Hex() + "/" + orgID.Hex(): authz.RoleDefault,
	}})

	req := httptest.NewRequest("GET", "/api/organizations/x", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID.Hex()})

	res, err := g.Authorize(req, orgID, gates.CapMember)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if res.UserID != userID {
		t.Errorf("user id: got %s, want %s", res.UserID.Hex(), userID.Hex())
	}
	if res.Role != authz.RoleDefault {
		t.Errorf("role: got %q, want DEFAULT", res.Role)
	}
}

func TestAuthorize_DefaultRole_CannotAdminister(t *testing.T) {
	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	g := newTestGate(t, &fakeResolver{roles: map[string]authz.Role{
		userID.Hex() + "/" + orgID.Hex(): authz.RoleDefault,
	}})

	req := httptest.NewRequest("POST", "/api/organizations/x/chatrooms", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID.Hex()})

	_, err := g.Authorize(req, orgID, gates.CapAdminister)
	if !errors.Is(err, gates.ErrForbidden) {
		t.Errorf("expected ErrForbidden for DEFAULT administering, got %v", err)
	}
}

func TestAuthorize_ModeratorCanAdminister(t *testing.T) {
	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	g := newTestGate(t, &fakeResolver{roles: map[string]authz.Role{
		userID.Hex() + "/" + orgID.Hex(): authz.RoleModerator,
	}})

	req := httptest.NewRequest("POST", "/api/organizations/x/chatrooms", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID.Hex()})

	res, err := g.Authorize(req, orgID, gates.CapAdminister)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if res.Role != authz.RoleModerator {
		t.Errorf("role: got %q, want MODERATOR", res.Role)
	}
}

func TestAuthorize_ResolverFailure_FailsClosed(t *testing.T) {
	userID := primitive.NewObjectID()
	g := newTestGate(t, &fakeResolver{err: errors.New("connection reset")})

	req := httptest.NewRequest("GET", "/api/organizations/x", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID.Hex()})

	_, err := g.Authorize(req, primitive.NewObjectID(), gates.CapMember)
	if !errors.Is(err, gates.ErrForbidden) {
		t.Errorf("resolver failure must surface as ErrForbidden, got %v", err)
	}
}

func TestAuthorize_MalformedSubject_Unauthenticated(t *testing.T) {
	g := newTestGate(t, &fakeResolver{roles: map[string]authz.Role{}})

	req := httptest.NewRequest("GET", "/api/organizations/x", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-object-id"})

	_, err := g.Authorize(req, primitive.NewObjectID(), gates.CapMember)
	if !errors.Is(err, gates.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for malformed subject, got %v", err)
	}
}
