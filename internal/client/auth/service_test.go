package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/syncbox/internal/client/api"
	"github.com/iudanet/syncbox/internal/client/storage"
	"github.com/iudanet/syncbox/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/syncbox/pkg/api"
)

func newTestService(t *testing.T, apiMock *clientapi.ClientAPIMock) *Service {
	t.Helper()

	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return NewService(apiMock, store)
}

func signedToken(t *testing.T, clientID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"client_id":   clientID,
		"client_name": "laptop",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestRegister_Success(t *testing.T) {
	apiMock := &clientapi.ClientAPIMock{
		RegisterFunc: func(_ context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error) {
			return &pkgapi.RegisterResponse{ClientID: "id-123"}, nil
		},
	}
	svc := newTestService(t, apiMock)

	clientID, err := svc.Register(context.Background(), "laptop", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "id-123", clientID)

	calls := apiMock.RegisterCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "laptop", calls[0].Req.ClientName)
}

func TestRegister_InvalidName(t *testing.T) {
	apiMock := &clientapi.ClientAPIMock{}
	svc := newTestService(t, apiMock)

	_, err := svc.Register(context.Background(), "bad name", "correct-horse")
	assert.Error(t, err)
	assert.Empty(t, apiMock.RegisterCalls(), "invalid input must not reach the server")
}

func TestLogin_SavesToken(t *testing.T) {
	token := ""
	apiMock := &clientapi.ClientAPIMock{
		LoginFunc: func(_ context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{
				AccessToken: token,
				TokenType:   "Bearer",
				ExpiresIn:   3600,
			}, nil
		},
	}
	svc := newTestService(t, apiMock)
	token = signedToken(t, "id-123")

	require.NoError(t, svc.Login(context.Background(), "laptop", "correct-horse"))

	got, err := svc.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, got)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "laptop", status.ClientName)
	assert.Equal(t, "id-123", status.ClientID)
}

func TestAccessToken_NotLoggedIn(t *testing.T) {
	svc := newTestService(t, &clientapi.ClientAPIMock{})

	_, err := svc.AccessToken(context.Background())
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestAccessToken_Expired(t *testing.T) {
	apiMock := &clientapi.ClientAPIMock{
		LoginFunc: func(_ context.Context, _ pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{
				AccessToken: "stale-token",
				TokenType:   "Bearer",
				ExpiresIn:   -60,
			}, nil
		},
	}
	svc := newTestService(t, apiMock)

	require.NoError(t, svc.Login(context.Background(), "laptop", "correct-horse"))

	_, err := svc.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestLogin_ServerError(t *testing.T) {
	apiMock := &clientapi.ClientAPIMock{
		LoginFunc: func(_ context.Context, _ pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return nil, errors.New("invalid credentials")
		},
	}
	svc := newTestService(t, apiMock)

	err := svc.Login(context.Background(), "laptop", "wrong-secret")
	assert.Error(t, err)
}

func TestLogout_RemovesAuth(t *testing.T) {
	apiMock := &clientapi.ClientAPIMock{
		LoginFunc: func(_ context.Context, _ pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{AccessToken: "token", TokenType: "Bearer", ExpiresIn: 3600}, nil
		},
	}
	svc := newTestService(t, apiMock)

	require.NoError(t, svc.Login(context.Background(), "laptop", "correct-horse"))
	require.NoError(t, svc.Logout(context.Background()))

	_, err := svc.AccessToken(context.Background())
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}
