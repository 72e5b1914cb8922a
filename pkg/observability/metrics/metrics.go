package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	tokensIssued      atomic.Int64
	tokensVerified    atomic.Int64
	tokensExpired     atomic.Int64
	tokensRejected    atomic.Int64
	tokensRevoked     atomic.Int64
	tokensCleaned     atomic.Int64
	webhooksReceived  atomic.Int64
	webhooksRejected  atomic.Int64
	webhooksSent      atomic.Int64
	webhookSendErrors atomic.Int64
)

func IncTokensIssued()   { tokensIssued.Add(1) }
func IncTokensVerified() { tokensVerified.Add(1) }
func IncTokensExpired()  { tokensExpired.Add(1) }
func IncTokensRejected() { tokensRejected.Add(1) }
func IncTokensRevoked()  { tokensRevoked.Add(1) }

func AddTokensCleaned(n int64) { tokensCleaned.Add(n) }

func IncWebhooksReceived()  { webhooksReceived.Add(1) }
func IncWebhooksRejected()  { webhooksRejected.Add(1) }
func IncWebhooksSent()      { webhooksSent.Add(1) }
func IncWebhookSendErrors() { webhookSendErrors.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP pawprint_share_tokens_issued_total Share tokens issued since process start.\n")
	fmt.Fprintf(w, "# TYPE pawprint_share_tokens_issued_total counter\n")
	fmt.Fprintf(w, "pawprint_share_tokens_issued_total %d\n", tokensIssued.Load())

	fmt.Fprintf(w, "# HELP pawprint_share_tokens_verified_total Successful share token verifications.\n")
	fmt.Fprintf(w, "# TYPE pawprint_share_tokens_verified_total counter\n")
	fmt.Fprintf(w, "pawprint_share_tokens_verified_total %d\n", tokensVerified.Load())

	fmt.Fprintf(w, "# HELP pawprint_share_tokens_expired_total Verifications that hit an expired token.\n")
	fmt.Fprintf(w, "# TYPE pawprint_share_tokens_expired_total counter\n")
	fmt.Fprintf(w, "pawprint_share_tokens_expired_total %d\n", tokensExpired.Load())

	fmt.Fprintf(w, "# HELP pawprint_share_tokens_rejected_total Verifications that presented an unknown token.\n")
	fmt.Fprintf(w, "# TYPE pawprint_share_tokens_rejected_total counter\n")
	fmt.Fprintf(w, "pawprint_share_tokens_rejected_total %d\n", tokensRejected.Load())

	fmt.Fprintf(w, "# HELP pawprint_share_tokens_revoked_total Share tokens revoked by their owner.\n")
	fmt.Fprintf(w, "# TYPE pawprint_share_tokens_revoked_total counter\n")
	fmt.Fprintf(w, "pawprint_share_tokens_revoked_total %d\n", tokensRevoked.Load())

	fmt.Fprintf(w, "# HELP pawprint_share_tokens_cleaned_total Expired share tokens removed by the sweeper.\n")
	fmt.Fprintf(w, "# TYPE pawprint_share_tokens_cleaned_total counter\n")
	fmt.Fprintf(w, "pawprint_share_tokens_cleaned_total %d\n", tokensCleaned.Load())

	fmt.Fprintf(w, "# HELP pawprint_webhooks_received_total Inbound webhook deliveries accepted.\n")
	fmt.Fprintf(w, "# TYPE pawprint_webhooks_received_total counter\n")
	fmt.Fprintf(w, "pawprint_webhooks_received_total %d\n", webhooksReceived.Load())

	fmt.Fprintf(w, "# HELP pawprint_webhooks_rejected_total Inbound webhook deliveries rejected for a bad signature.\n")
	fmt.Fprintf(w, "# TYPE pawprint_webhooks_rejected_total counter\n")
	fmt.Fprintf(w, "pawprint_webhooks_rejected_total %d\n", webhooksRejected.Load())

	fmt.Fprintf(w, "# HELP pawprint_webhooks_sent_total Outbound webhook deliveries attempted.\n")
	fmt.Fprintf(w, "# TYPE pawprint_webhooks_sent_total counter\n")
	fmt.Fprintf(w, "pawprint_webhooks_sent_total %d\n", webhooksSent.Load())

	fmt.Fprintf(w, "# HELP pawprint_webhook_send_errors_total Outbound webhook deliveries that failed.\n")
	fmt.Fprintf(w, "# TYPE pawprint_webhook_send_errors_total counter\n")
	fmt.Fprintf(w, "pawprint_webhook_send_errors_total %d\n", webhookSendErrors.Load())
}
