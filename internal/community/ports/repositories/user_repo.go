// Package repositories определяет интерфейсы хранилищ сервиса сообщества.
package repositories

import (
	"context"

	"campushub/internal/community/domain/entities"
)

// UserRepository определяет интерфейс для операций над записями пользователей.
// Каждый метод, возвращающий одного пользователя, загружает и список
// идентификаторов сохраненных постов.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByUsername(ctx context.Context, username string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// FindByIdentifier находит пользователя, у которого email ЛИБО username
	// совпадает с идентификатором (одним запросом).
	FindByIdentifier(ctx context.Context, identifier string) (*entities.User, error)

	// ListByPostPoints возвращает всех пользователей, упорядоченных по
	// MAX(points) их постов по убыванию, пустые - в конце, ничьи решает id.
	ListByPostPoints(ctx context.Context) ([]*entities.User, error)

	IsUsernameTaken(ctx context.Context, username, excludeID string) (bool, error)

	IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error)

	// UpdateProfile перечитывает строку пользователя под блокировкой,
	// применяет к свежему снимку патч и сохраняет результат вместе со
	// связью saved_posts в одной транзакции: конкурентное обновление не
	// может затереть чужие поля устаревшим снимком.
	UpdateProfile(ctx context.Context, id string, change *entities.ProfileChange) (*entities.User, error)

	// DeleteCascade в одной транзакции удаляет сначала все посты
	// пользователя, затем самого пользователя.
	DeleteCascade(ctx context.Context, id string) error
}
