package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pawprint-care/platform/pkg/auth"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
)

type Handler struct {
	service  *Service
	sessions *auth.SessionManager
	oidc     *auth.OIDCAuthenticator
}

// NewHandler builds the identity routes. oidc may be nil when SSO is not
// configured; the /oidc routes are only mounted when it is present.
func NewHandler(service *Service, sessions *auth.SessionManager, oidc *auth.OIDCAuthenticator) *Handler {
	return &Handler{service: service, sessions: sessions, oidc: oidc}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	if h.oidc != nil {
		r.HandleFunc("/oidc/login", h.handleOIDCLogin).Methods(http.MethodGet)
		r.HandleFunc("/oidc/callback", h.handleOIDCCallback).Methods(http.MethodGet)
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("failed to register user")
		http.Error(w, "failed to register", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Log.WithError(err).Error("failed to authenticate user")
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.sessions.IssueSession(user)
	if err != nil {
		logger.Log.WithError(err).Error("failed to issue session")
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

const oidcStateCookie = "oidc_state"

func (h *Handler) handleOIDCLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oidcStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) handleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oidcStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	token, err := h.oidc.Exchange(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).Error("oidc code exchange failed")
		http.Error(w, "failed to authenticate", http.StatusUnauthorized)
		return
	}
	identity, err := h.oidc.Identity(token)
	if err != nil {
		logger.Log.WithError(err).Error("oidc identity rejected")
		http.Error(w, "failed to authenticate", http.StatusUnauthorized)
		return
	}

	user, err := h.service.EnsureSSOUser(r.Context(), identity.Email, identity.Name)
	if err != nil {
		logger.Log.WithError(err).Error("failed to provision sso user")
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	sessionToken, expiresAt, err := h.sessions.IssueSession(user)
	if err != nil {
		logger.Log.WithError(err).Error("failed to issue session")
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     sessionToken,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
