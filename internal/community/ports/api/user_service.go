package api

import (
	"context"

	"campushub/internal/community/domain/entities"
)

// UserUseCase определяет основной порт для пользовательских операций.
type UserUseCase interface {
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// ListByPopularity возвращает всех пользователей с их постами и
	// комментариями, упорядоченных по максимальным очкам среди постов.
	ListByPopularity(ctx context.Context) ([]*entities.User, error)

	// Update применяет частичное обновление профиля после авторизации
	// предъявителя токена как владельца профиля.
	Update(ctx context.Context, userID, token string, patch *entities.UserPatch) (*entities.User, error)

	// Delete удаляет пользователя вместе со всеми его постами и возвращает
	// удаленную запись как подтверждение.
	Delete(ctx context.Context, userID, token string) (*entities.User, error)
}
