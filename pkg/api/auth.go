package api

// RegisterRequest представляет запрос на регистрацию клиента.
type RegisterRequest struct {
	ClientName string `json:"client_name"`
	Secret     string `json:"secret"`
}

// RegisterResponse представляет ответ на регистрацию.
type RegisterResponse struct {
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}

// LoginRequest представляет запрос на аутентификацию клиента.
type LoginRequest struct {
	ClientName string `json:"client_name"`
	Secret     string `json:"secret"`
}

// TokenResponse представляет выданный access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
