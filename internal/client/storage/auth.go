package storage

import "context"

// AuthStorage defines interface for storing client credentials locally.
type AuthStorage interface {
	// SaveAuth stores authentication data
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if valid authentication exists (not expired)
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the cached credential for the sync endpoints.
// AccessToken is the opaque bearer credential attached to every push/pull
// request; ExpiresAt is a unix timestamp.
type AuthData struct {
	ClientName  string `json:"client_name"`
	ClientID    string `json:"client_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}
