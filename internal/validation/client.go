package validation

import (
	"fmt"
	"regexp"
)

// ClientNamePattern определяет допустимый формат имени клиента
var ClientNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// MinSecretLen минимальная длина секрета клиента
const MinSecretLen = 8

// ValidateClientName проверяет имя клиента при регистрации и входе.
func ValidateClientName(name string) error {
	if name == "" {
		return &ValidationError{Field: "client_name", Reason: "cannot be empty"}
	}
	if !ClientNamePattern.MatchString(name) {
		return &ValidationError{
			Field:  "client_name",
			Reason: fmt.Sprintf("must match %s", ClientNamePattern.String()),
		}
	}
	return nil
}

// ValidateSecret проверяет секрет клиента.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLen {
		return &ValidationError{
			Field:  "secret",
			Reason: fmt.Sprintf("must be at least %d characters", MinSecretLen),
		}
	}
	return nil
}
