package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/internal/server/storage"
	"github.com/iudanet/syncbox/internal/validation"
	"github.com/iudanet/syncbox/pkg/api"
)

// AuthHandler обрабатывает запросы регистрации и аутентификации клиентов
type AuthHandler struct {
	logger        *slog.Logger
	clientStorage storage.ClientStorage
	jwtConfig     JWTConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, clientStorage storage.ClientStorage, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:        logger,
		clientStorage: clientStorage,
		jwtConfig:     jwtConfig,
	}
}

// Register обрабатывает POST /api/v1/auth/register
// Регистрация нового клиента
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateClientName(req.ClientName); err != nil {
		h.logger.WarnContext(ctx, "invalid client name", slog.String("client_name", req.ClientName), slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateSecret(req.Secret); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	secretHash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash secret", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	clientID := uuid.New().String()
	client := &models.ClientAccount{
		CreatedAt:  time.Now().UTC(),
		ID:         clientID,
		Name:       req.ClientName,
		SecretHash: string(secretHash),
	}

	if err := h.clientStorage.CreateClient(ctx, client); err != nil {
		if errors.Is(err, storage.ErrClientAlreadyExists) {
			h.logger.WarnContext(ctx, "client already exists", slog.String("client_name", req.ClientName))
			h.sendError(w, "client name already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create client", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "client registered successfully",
		slog.String("client_name", req.ClientName),
		slog.String("client_id", clientID))

	resp := api.RegisterResponse{
		ClientID: clientID,
		Message:  "Client registered successfully",
	}

	h.sendJSON(w, resp, http.StatusCreated)
}

// Login обрабатывает POST /api/v1/auth/login
// Аутентификация клиента, выдача access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateClientName(req.ClientName); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	client, err := h.clientStorage.GetClientByName(ctx, req.ClientName)
	if err != nil {
		if errors.Is(err, storage.ErrClientNotFound) {
			h.logger.WarnContext(ctx, "login failed: client not found", slog.String("client_name", req.ClientName))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get client", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(req.Secret)); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid secret", slog.String("client_name", req.ClientName))
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	accessToken, expiresIn, err := GenerateAccessToken(h.jwtConfig, client.ID, client.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "client logged in successfully",
		slog.String("client_name", req.ClientName),
		slog.String("client_id", client.ID))

	resp := api.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
