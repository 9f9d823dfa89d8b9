package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/syncbox/internal/models"
	"github.com/iudanet/syncbox/internal/server/storage"
)

// CreateClient регистрирует новый клиентский аккаунт.
func (s *Storage) CreateClient(ctx context.Context, client *models.ClientAccount) error {
	query := `INSERT INTO clients (id, name, secret_hash, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		client.ID, client.Name, client.SecretHash, client.CreatedAt.UTC().UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrClientAlreadyExists
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetClientByName возвращает аккаунт по имени клиента.
func (s *Storage) GetClientByName(ctx context.Context, name string) (*models.ClientAccount, error) {
	query := `SELECT id, name, secret_hash, created_at FROM clients WHERE name = ?`

	var (
		client    models.ClientAccount
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&client.ID, &client.Name, &client.SecretHash, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	client.CreatedAt = time.Unix(0, createdAt).UTC()
	return &client, nil
}
