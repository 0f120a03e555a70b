package login_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/communehq/commune/internal/app/features/login"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/token"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"github.com/communehq/commune/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *userstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	tokens, err := token.New("test-secret-0123456789abcdefghij", time.Hour, logger)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	sm := auth.NewSessionManager(tokens, "commune_token", false, logger)
	users := userstore.New(db)
	return login.NewHandler(users, sm, logger), users
}

func seedUser(t *testing.T, users *userstore.Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := users.Create(ctx, "ada@example.com", "Ada Lovelace", "correct horse"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	handler, users := newTestHandler(t)
	seedUser(t, users)

	req := testutil.NewJSONRequest("POST", "/api/login",
		`{"email":"Ada@Example.com","password":"correct horse"}`)
	rec := testutil.NewRecorder()
	handler.HandleLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "" {
		t.Fatalf("expected a session cookie, got %+v", cookies)
	}
}

func TestLoginSameAnswerForUnknownEmailAndBadPassword(t *testing.T) {
	handler, users := newTestHandler(t)
	seedUser(t, users)

	unknown := testutil.NewRecorder()
	handler.HandleLogin(unknown.ResponseRecorder, testutil.NewJSONRequest("POST", "/api/login",
		`{"email":"nobody@example.com","password":"correct horse"}`))

	badpass := testutil.NewRecorder()
	handler.HandleLogin(badpass.ResponseRecorder, testutil.NewJSONRequest("POST", "/api/login",
		`{"email":"ada@example.com","password":"wrong"}`))

	unknown.AssertStatus(t, http.StatusBadRequest)
	badpass.AssertStatus(t, http.StatusBadRequest)
	if unknown.Body.String() != badpass.Body.String() {
		t.Fatalf("bodies differ: %q vs %q (must not reveal which emails exist)",
			unknown.Body.String(), badpass.Body.String())
	}
	if len(unknown.Result().Cookies()) != 0 || len(badpass.Result().Cookies()) != 0 {
		t.Fatal("failed logins must not set cookies")
	}
}

func TestLoginMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	handler.HandleLogin(rec.ResponseRecorder, testutil.NewJSONRequest("POST", "/api/login", `not json`))
	rec.AssertStatus(t, http.StatusBadRequest)
}
