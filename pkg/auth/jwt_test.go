package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-care/platform/pkg/common/models"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	manager, err := NewSessionManager("unit-test-session-secret", "pawprint", "pawprint-app", time.Hour)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return manager
}

func TestSessionRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	user := models.User{ID: uuid.New(), Email: "owner@example.com"}

	token, expiresAt, err := manager.IssueSession(user)
	if err != nil {
		t.Fatalf("failed to issue session: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := manager.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("failed to validate session: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("claims do not match user: %+v", claims)
	}
}

func TestSessionExpiry(t *testing.T) {
	manager := newTestManager(t)
	user := models.User{ID: uuid.New(), Email: "owner@example.com"}

	token, _, err := manager.IssueSession(user)
	if err != nil {
		t.Fatalf("failed to issue session: %v", err)
	}

	manager.nowFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := manager.ValidateSession(context.Background(), token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionRejectsTampering(t *testing.T) {
	manager := newTestManager(t)
	user := models.User{ID: uuid.New(), Email: "owner@example.com"}

	token, _, err := manager.IssueSession(user)
	if err != nil {
		t.Fatalf("failed to issue session: %v", err)
	}

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	if _, err := manager.ValidateSession(context.Background(), tampered); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for tampered signature, got %v", err)
	}

	if _, err := manager.ValidateSession(context.Background(), "not-a-token"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for malformed token, got %v", err)
	}

	other, err := NewSessionManager("another-test-session-secret", "pawprint", "pawprint-app", time.Hour)
	if err != nil {
		t.Fatalf("failed to create second manager: %v", err)
	}
	if _, err := other.ValidateSession(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid across signing keys, got %v", err)
	}
}
