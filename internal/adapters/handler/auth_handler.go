package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/metrics"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/adapters/middleware"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	metrics     *metrics.Metrics
	log         logrus.FieldLogger
}

func NewAuthHandler(auth ports.AuthService, m *metrics.Metrics, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: auth,
		metrics:     m,
		log:         log,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type IdentityTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type AuthResponse struct {
	Tokens domain.TokenPair `json:"tokens"`
	User   domain.User      `json:"user"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	res, err := h.authService.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.log.WithField("user_id", res.User.ID).Info("student registered")
	writeJSON(w, http.StatusCreated, AuthResponse{Tokens: res.Tokens, User: res.User})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	h.metrics.AuthAttempt("password", err)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Tokens: res.Tokens, User: res.User})
}

// GoogleLogin signs a student in with a Google ID token.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req IdentityTokenRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	res, err := h.authService.LoginWithIdentityToken(r.Context(), req.IDToken)
	h.metrics.AuthAttempt("google", err)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Tokens: res.Tokens, User: res.User})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	access, err := h.authService.Refresh(r.Context(), req.Refresh)
	h.metrics.AuthAttempt("refresh", err)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, AccessResponse{Access: access})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.authService.Logout(r.Context(), req.Refresh); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	user, err := h.authService.Me(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
