package services

import (
	"context"
	"time"

	"campushub/internal/community/domain/services"
)

// TokenService определяет интерфейс для операций с токенами JWT.
type TokenService interface {
	Generate(ctx context.Context, userID, username string) (string, time.Time, error)

	Validate(ctx context.Context, token string) (*services.TokenClaims, error)
}

// Authorizer решает, разрешена ли мутация ресурса предъявителю токена.
// Предусловие: вызывающая сторона уже убедилась, что ресурс существует.
type Authorizer interface {
	// Authorize возвращает идентификатор субъекта токена, если он совпадает
	// с владельцем ресурса; любая ошибка проверки схлопывается в единый
	// отказ авторизации.
	Authorize(ctx context.Context, token, ownerID string) (string, error)
}
