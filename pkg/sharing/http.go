package sharing

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
	"github.com/pawprint-care/platform/pkg/middleware"
	"github.com/pawprint-care/platform/pkg/observability/metrics"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the owner-facing share management routes. The router is
// expected to carry the authentication middleware.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/pets/{id}/shares", h.handleIssue).Methods(http.MethodPost)
	r.HandleFunc("/pets/{id}/shares", h.handleListActive).Methods(http.MethodGet)
	r.HandleFunc("/shares/{id}", h.handleRevoke).Methods(http.MethodDelete)
}

// RegisterPublic mounts the anonymous share-link resolution route.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/medical-history/{id}", h.handleResolve).Methods(http.MethodGet)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	petID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	var req models.CreateShareRequest
	if r.Body != nil {
		// Body is optional; the default window applies when absent.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	window := time.Duration(req.ExpirationHours) * time.Hour

	share, err := h.service.IssueToken(r.Context(), petID, requesterID, window)
	if err != nil {
		if errors.Is(err, ErrNotFoundOrUnauthorized) {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to issue share token")
		http.Error(w, "failed to issue share", http.StatusInternalServerError)
		return
	}

	metrics.IncTokensIssued()
	writeJSON(w, http.StatusCreated, map[string]interface{}{"share": share})
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	petID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	tokens, err := h.service.ListActive(r.Context(), petID, requesterID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list active shares")
		http.Error(w, "failed to list shares", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": tokens})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	tokenID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid share id", http.StatusBadRequest)
		return
	}

	if err := h.service.Revoke(r.Context(), tokenID, requesterID); err != nil {
		if errors.Is(err, ErrNotFoundOrUnauthorized) {
			http.Error(w, "share not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to revoke share token")
		http.Error(w, "failed to revoke share", http.StatusInternalServerError)
		return
	}

	metrics.IncTokensRevoked()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	petID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid link", http.StatusNotFound)
		return
	}
	token := r.URL.Query().Get("token")

	result, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			metrics.IncTokensRejected()
			http.Error(w, "invalid link", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to verify share token")
		http.Error(w, "failed to verify share", http.StatusInternalServerError)
		return
	}
	if result.Expired {
		metrics.IncTokensExpired()
		writeJSON(w, http.StatusGone, map[string]interface{}{
			"expired": true,
			"message": "this link has expired, request a new one",
		})
		return
	}
	if result.PetID != petID {
		// Token exists but belongs to a different pet's link.
		metrics.IncTokensRejected()
		http.Error(w, "invalid link", http.StatusNotFound)
		return
	}

	metrics.IncTokensVerified()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pet_id":       result.PetID,
		"access_count": result.AccessCount,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
