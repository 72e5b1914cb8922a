package pets

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
	"github.com/pawprint-care/platform/pkg/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/pets", h.handleRegisterPet).Methods(http.MethodPost)
	r.HandleFunc("/pets", h.handleListPets).Methods(http.MethodGet)
	r.HandleFunc("/pets/{id}", h.handleGetPet).Methods(http.MethodGet)
}

func (h *Handler) handleRegisterPet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	pet, err := h.service.RegisterPet(r.Context(), ownerID, req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to register pet")
		http.Error(w, "failed to register pet", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"pet": pet})
}

func (h *Handler) handleListPets(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	petList, err := h.service.ListPets(r.Context(), ownerID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list pets")
		http.Error(w, "failed to list pets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": petList})
}

func (h *Handler) handleGetPet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}
	pet, err := h.service.GetPet(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPetNotFound) {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get pet")
		http.Error(w, "failed to get pet", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pet": pet})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
