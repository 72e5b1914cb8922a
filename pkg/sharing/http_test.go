package sharing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func resolveShare(t *testing.T, handler *Handler, petID uuid.UUID, token string) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	handler.RegisterPublic(router)

	req := httptest.NewRequest(http.MethodGet, "/medical-history/"+petID.String()+"?token="+token, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestResolveShareLink(t *testing.T) {
	service, _, clock, ownerID, petID := newTestService()
	handler := NewHandler(service)

	share, err := service.IssueToken(context.Background(), petID, ownerID, 2*time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	recorder := resolveShare(t, handler, petID, share.Token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["access_count"].(float64) != 1 {
		t.Fatalf("expected access_count 1, got %v", resp["access_count"])
	}

	// Expired links answer differently from invalid ones so the app can
	// show "request a new link" instead of a dead end.
	clock.Advance(3 * time.Hour)
	recorder = resolveShare(t, handler, petID, share.Token)
	if recorder.Code != http.StatusGone {
		t.Fatalf("expected 410 for an expired link, got %d", recorder.Code)
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["expired"] != true {
		t.Fatalf("expected expired=true, got %v", resp)
	}

	recorder = resolveShare(t, handler, petID, "no-such-token")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown token, got %d", recorder.Code)
	}
}

func TestResolveShareLinkWrongPet(t *testing.T) {
	service, _, _, ownerID, petID := newTestService()
	handler := NewHandler(service)

	share, err := service.IssueToken(context.Background(), petID, ownerID, 2*time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	recorder := resolveShare(t, handler, uuid.New(), share.Token)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when the path pet does not match the token, got %d", recorder.Code)
	}
}
