package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
	"github.com/pawprint-care/platform/pkg/observability/metrics"
)

// InboundHandler processes an authenticated webhook after the sender has
// been acknowledged. Errors are logged, never re-signaled to the sender.
type InboundHandler func(ctx context.Context, payload models.WebhookPayload) error

// EventPublisher is satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// Receiver accepts partner webhook calls. A delivery walks
// received → signature checked → acknowledged → dispatched: the 200 response
// is written as soon as the signature passes so slow handler logic cannot
// trip sender-side timeouts and retries.
type Receiver struct {
	secret  string
	handler InboundHandler
	events  EventPublisher
	maxBody int64
}

// NewReceiver creates an inbound receiver. maxBody caps the accepted request
// body in bytes; values <= 0 fall back to 1 MiB.
func NewReceiver(secret string, maxBody int64, handler InboundHandler) *Receiver {
	if maxBody <= 0 {
		maxBody = 1 * 1024 * 1024
	}
	return &Receiver{
		secret:  secret,
		handler: handler,
		maxBody: maxBody,
	}
}

// SetEventPublisher wires post-ack event emission. Optional.
func (rc *Receiver) SetEventPublisher(events EventPublisher) {
	rc.events = events
}

func (rc *Receiver) Register(r *mux.Router) {
	r.HandleFunc("/webhooks/inbound", rc.handleInbound).Methods(http.MethodPost)
}

func (rc *Receiver) handleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, rc.maxBody))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.IncWebhooksRejected()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if !Verify(raw, signature, rc.secret) {
		metrics.IncWebhooksRejected()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.IncWebhooksRejected()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if payload.Event == "" {
		payload.Event = r.Header.Get(EventHeader)
	}

	// Ack before processing.
	metrics.IncWebhooksReceived()
	writeJSON(w, http.StatusOK, map[string]interface{}{"received": true})

	go rc.process(payload)
}

func (rc *Receiver) process(payload models.WebhookPayload) {
	ctx := context.Background()

	if rc.events != nil {
		err := rc.events.PublishEvent(ctx, "webhook.received", "webhook-service", map[string]interface{}{
			"event":       payload.Event,
			"resource_id": payload.ResourceID,
			"timestamp":   payload.Timestamp,
			"data":        payload.Data,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("failed to publish inbound webhook event")
		}
	}

	if rc.handler == nil {
		return
	}
	if err := rc.handler(ctx, payload); err != nil {
		// Already acknowledged; log only.
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event":       payload.Event,
			"resource_id": payload.ResourceID,
		}).Error("inbound webhook handler failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
