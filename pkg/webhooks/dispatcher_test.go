package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDispatcherSignsDeliveries(t *testing.T) {
	type received struct {
		event     string
		signature string
		payload   map[string]interface{}
	}
	got := make(chan received, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read delivery body: %v", err)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("failed to decode delivery body: %v", err)
		}
		got <- received{
			event:     r.Header.Get(EventHeader),
			signature: r.Header.Get(SignatureHeader),
			payload:   payload,
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	subscribers := SubscribersConfig{Subscribers: []Subscriber{
		{Name: "partner", URL: server.URL, Secret: "partner-secret", Events: []string{"share.token.issued"}, Enabled: true},
	}}
	dispatcher := NewDispatcher(subscribers, nil, 5*time.Second)

	dispatcher.Dispatch(context.Background(), "share.token.issued", "pet-1", map[string]interface{}{"by": "owner-1"})

	select {
	case delivery := <-got:
		if delivery.event != "share.token.issued" {
			t.Fatalf("expected event header share.token.issued, got %s", delivery.event)
		}
		if delivery.payload["resource_id"] != "pet-1" {
			t.Fatalf("expected resource_id pet-1, got %v", delivery.payload["resource_id"])
		}
		// The receiving side must be able to verify what we signed.
		if !Verify(delivery.payload, delivery.signature, "partner-secret") {
			t.Fatal("delivered signature does not verify against the delivered payload")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber endpoint was never called")
	}
}

func TestDispatcherSkipsUnsubscribedEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("subscriber must not be called for unsubscribed events")
	}))
	defer server.Close()

	subscribers := SubscribersConfig{Subscribers: []Subscriber{
		{Name: "partner", URL: server.URL, Secret: "partner-secret", Events: []string{"share.token.revoked"}, Enabled: true},
	}}
	dispatcher := NewDispatcher(subscribers, nil, 5*time.Second)

	dispatcher.Dispatch(context.Background(), "share.token.issued", "pet-1", nil)
}
