package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/syncbox/internal/client/api"
	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/validation"
	pkgapi "github.com/iudanet/syncbox/pkg/api"
)

// ErrTokenExpired signals that the cached access token is no longer valid
// and the client has to log in again.
var ErrTokenExpired = errors.New("access token expired, please login again")

// Service предоставляет функции регистрации и аутентификации клиента.
// Выданный сервером access token кешируется в локальном хранилище и
// прикладывается к каждому push/pull запросу.
type Service struct {
	apiClient api.ClientAPI
	authStore storage.AuthStorage
}

// NewService создает новый сервис авторизации
func NewService(apiClient api.ClientAPI, authStore storage.AuthStorage) *Service {
	return &Service{
		apiClient: apiClient,
		authStore: authStore,
	}
}

// Register регистрирует нового клиента на сервере.
// Возвращает выданный сервером client ID.
func (s *Service) Register(ctx context.Context, clientName, secret string) (string, error) {
	if err := validation.ValidateClientName(clientName); err != nil {
		return "", fmt.Errorf("invalid client name: %w", err)
	}
	if err := validation.ValidateSecret(secret); err != nil {
		return "", fmt.Errorf("invalid secret: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		ClientName: clientName,
		Secret:     secret,
	})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}

	return resp.ClientID, nil
}

// Login аутентифицирует клиента и сохраняет access token локально.
func (s *Service) Login(ctx context.Context, clientName, secret string) error {
	if err := validation.ValidateClientName(clientName); err != nil {
		return fmt.Errorf("invalid client name: %w", err)
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		ClientName: clientName,
		Secret:     secret,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	authData := &storage.AuthData{
		ClientName:  clientName,
		ClientID:    clientIDFromToken(resp.AccessToken),
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}

	if err := s.authStore.SaveAuth(ctx, authData); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	return nil
}

// AccessToken возвращает сохраненный access token.
// Returns storage.ErrAuthNotFound when never logged in and ErrTokenExpired
// when the cached token has run out.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	authData, err := s.authStore.GetAuth(ctx)
	if err != nil {
		return "", err
	}

	if time.Now().Unix() >= authData.ExpiresAt {
		return "", ErrTokenExpired
	}

	return authData.AccessToken, nil
}

// Status возвращает сохраненные данные авторизации.
func (s *Service) Status(ctx context.Context) (*storage.AuthData, error) {
	return s.authStore.GetAuth(ctx)
}

// Logout удаляет локальные данные авторизации.
// Сервер не хранит сессий, поэтому уведомлять его не нужно.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.authStore.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete auth data: %w", err)
	}
	return nil
}

// clientIDFromToken извлекает client_id из access token без проверки
// подписи. Подпись проверяет сервер; клиенту claim нужен только для
// отображения в status.
func clientIDFromToken(tokenString string) string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	if clientID, ok := claims["client_id"].(string); ok {
		return clientID
	}
	return ""
}
