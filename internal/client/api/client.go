package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/syncbox/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет интерфейс HTTP клиента сервера синхронизации.
type ClientAPI interface {
	// Register регистрирует нового клиента
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)

	// Login выполняет аутентификацию клиента
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)

	// Push отправляет batch локальных мутаций на сервер
	Push(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error)

	// Pull запрашивает записи, измененные после since
	Pull(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error)

	// Conflicts запрашивает последние зафиксированные конфликты
	Conflicts(ctx context.Context, accessToken string, limit int) (*api.ConflictsResponse, error)
}

// NetworkError marks a transport failure or a 5xx response as transient.
// The sync coordinator retries these with backoff and never surfaces them
// to the caller.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client представляет HTTP клиент для взаимодействия с сервером.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Сохраняем Authorization заголовок при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового клиента
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию клиента
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Push отправляет batch локальных мутаций на сервер
func (c *Client) Push(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
	var resp api.PushResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/push", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	return &resp, nil
}

// Pull запрашивает записи, измененные после since
func (c *Client) Pull(ctx context.Context, accessToken string, since time.Time) (*api.PullResponse, error) {
	path := "/api/v1/sync/pull?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))

	var resp api.PullResponse
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	return &resp, nil
}

// Conflicts запрашивает последние зафиксированные конфликты
func (c *Client) Conflicts(ctx context.Context, accessToken string, limit int) (*api.ConflictsResponse, error) {
	path := fmt.Sprintf("/api/v1/sync/conflicts?limit=%d", limit)

	var resp api.ConflictsResponse
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("conflicts request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос.
// Transport failures and 5xx responses come back wrapped in *NetworkError;
// everything else is a permanent failure of the request itself.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= 500 {
		return &NetworkError{
			Op:  method + " " + path,
			Err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody)),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
