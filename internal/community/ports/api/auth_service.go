// Package api определяет основные порты прикладного уровня.
package api

import (
	"context"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
)

// AuthUseCase определяет основной порт для операций аутентификации.
type AuthUseCase interface {
	// Register создает пользователя; уникальность username проверяется
	// раньше уникальности email.
	Register(ctx context.Context, username, email, password string) (*entities.User, error)

	// Login принимает email либо username в качестве идентификатора.
	Login(ctx context.Context, identifier, password string) (*services.Session, error)
}
