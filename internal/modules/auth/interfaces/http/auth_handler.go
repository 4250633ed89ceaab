package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/echoplay/echoplay-backend/internal/gateway/middleware"
	"github.com/echoplay/echoplay-backend/internal/modules/auth/application"
	"github.com/echoplay/echoplay-backend/internal/modules/auth/domain"
	"github.com/echoplay/echoplay-backend/internal/shared/utils"
)

// AuthService defines the interface for auth operations
type AuthService interface {
	Register(ctx context.Context, req application.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req application.LoginRequest) (string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if err == domain.ErrUserAlreadyExists {
			utils.WriteError(w, http.StatusConflict, "user already exists", nil)
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			utils.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "login failed", nil)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			utils.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to load user", nil)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}
