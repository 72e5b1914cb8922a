package webhooks

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pawprint-care/platform/pkg/common/logger"
)

// DeliveryLister reads recorded outbound delivery attempts.
type DeliveryLister interface {
	ListDeliveries(ctx context.Context, subscriber string, limit int) ([]DeliveryModel, error)
}

type AuditHandler struct {
	deliveries DeliveryLister
}

func NewAuditHandler(deliveries DeliveryLister) *AuditHandler {
	return &AuditHandler{deliveries: deliveries}
}

// Register mounts the delivery audit route used to inspect outbound
// webhook attempts per subscriber.
func (h *AuditHandler) Register(r *mux.Router) {
	r.HandleFunc("/webhooks/deliveries", h.handleListDeliveries).Methods(http.MethodGet)
}

func (h *AuditHandler) handleListDeliveries(w http.ResponseWriter, r *http.Request) {
	subscriber := r.URL.Query().Get("subscriber")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	rows, err := h.deliveries.ListDeliveries(r.Context(), subscriber, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list webhook deliveries")
		http.Error(w, "failed to list deliveries", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows})
}
