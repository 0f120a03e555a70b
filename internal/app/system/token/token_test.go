package token_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/communehq/commune/internal/app/system/token"
	"go.uber.org/zap"
)

const testSecret = "test-auth-secret-must-be-32-chars-long"

func newTestService(t *testing.T, ttl time.Duration) *token.Service {
	t.Helper()
	svc, err := token.New(testSecret, ttl, zap.NewNop())
	if err != nil {
		t.Fatalf("token.New failed: %v", err)
	}
	return svc
}

func TestNew_EmptySecret_Fails(t *testing.T) {
	if _, err := token.New("", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != "user-123" {
		t.Errorf("subject: got %q, want %q", got, "user-123")
	}
}

func TestVerify_Expired(t *testing.T) {
	// Negative TTL is clamped, so issue with a tiny positive TTL and wait.
	svc, err := token.New(testSecret, time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("token.New failed: %v", err)
	}

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(tok)
	if !errors.Is(err, token.ErrExpired) {
		t.Errorf("expected ErrExpired for stale token, got %v", err)
	}
}

func TestVerify_TamperedSignature_IsInvalid(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a byte in the signature segment.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	if !errors.Is(err, token.ErrInvalid) {
		t.Errorf("expected ErrInvalid for tampered token, got %v", err)
	}
}

func TestVerify_Garbage_IsInvalid(t *testing.T) {
	svc := newTestService(t, time.Hour)

	for _, bad := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(bad); !errors.Is(err, token.ErrInvalid) {
			t.Errorf("Verify(%q): expected ErrInvalid, got %v", bad, err)
		}
	}
}

func TestVerify_WrongSecret_IsInvalid(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := token.New("another-secret-that-is-32-chars-long!!", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("token.New failed: %v", err)
	}

	tok, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(tok); !errors.Is(err, token.ErrInvalid) {
		t.Errorf("expected ErrInvalid for foreign signature, got %v", err)
	}
}

func TestVerify_ExpiredNeverReportedInvalid(t *testing.T) {
	svc, err := token.New(testSecret, time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("token.New failed: %v", err)
	}

	tok, _ := svc.Issue("user-456")
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(tok)
	if errors.Is(err, token.ErrInvalid) {
		t.Error("stale but authentic token must be Expired, not Invalid")
	}
}
