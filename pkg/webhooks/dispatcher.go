package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/observability/metrics"
)

const (
	SignatureHeader = "X-Pawprint-Signature"
	EventHeader     = "X-Pawprint-Event"
)

const (
	deliveryStatusDelivered = "delivered"
	deliveryStatusFailed    = "failed"
)

// Dispatcher fans platform events out to the configured partner endpoints,
// signing every payload with the subscriber's shared secret.
type Dispatcher struct {
	subscribers SubscribersConfig
	client      *http.Client
	repo        *Repository
}

// NewDispatcher builds a dispatcher. repo may be nil to disable the delivery
// log (used in tests).
func NewDispatcher(subscribers SubscribersConfig, repo *Repository, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		subscribers: subscribers,
		client:      &http.Client{Timeout: timeout},
		repo:        repo,
	}
}

// Dispatch delivers one event to every subscriber registered for it.
// Per-subscriber failures are logged and recorded; they do not stop delivery
// to the remaining subscribers.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType, resourceID string, data map[string]interface{}) {
	payload := map[string]interface{}{
		"event":       eventType,
		"resource_id": resourceID,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		payload["data"] = data
	}

	for _, sub := range d.subscribers.Subscribers {
		if !sub.Wants(eventType) {
			continue
		}
		d.deliver(ctx, sub, eventType, resourceID, payload)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sub Subscriber, eventType, resourceID string, payload map[string]interface{}) {
	metrics.IncWebhooksSent()

	statusCode, err := d.post(ctx, sub, eventType, payload)
	if err != nil {
		metrics.IncWebhookSendErrors()
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"subscriber": sub.Name,
			"event":      eventType,
		}).Error("webhook delivery failed")
		d.record(ctx, sub, eventType, resourceID, payload, deliveryStatusFailed, statusCode, err.Error())
		return
	}

	d.record(ctx, sub, eventType, resourceID, payload, deliveryStatusDelivered, statusCode, "")
}

func (d *Dispatcher) post(ctx context.Context, sub Subscriber, eventType string, payload map[string]interface{}) (int, error) {
	signature, err := Sign(payload, sub.Secret)
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)
	req.Header.Set(EventHeader, eventType)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("subscriber responded %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (d *Dispatcher) record(ctx context.Context, sub Subscriber, eventType, resourceID string, payload map[string]interface{}, status string, code int, errMsg string) {
	if d.repo == nil {
		return
	}
	err := d.repo.RecordDelivery(ctx, RecordDeliveryInput{
		Subscriber:   sub.Name,
		Event:        eventType,
		ResourceID:   resourceID,
		Payload:      payload,
		Status:       status,
		ResponseCode: code,
		Error:        errMsg,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("failed to record webhook delivery")
	}
}
