// Package services определяет доменные типы и ошибки сервисного уровня.
package services

import (
	"errors"
	"time"

	"campushub/internal/community/domain/entities"
)

// Ошибки домена аутентификации. Неверный идентификатор и неверный пароль
// намеренно неразличимы для вызывающей стороны.
var (
	ErrInvalidCredentials    = errors.New("invalid identifier or password")
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrEmailTaken            = errors.New("email is already taken")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication token")
)

// Session представляет результат успешного входа: подписанный токен
// и пользователя без хэша пароля на выходе.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entities.User
}
