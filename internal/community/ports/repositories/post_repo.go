package repositories

import (
	"context"

	"campushub/internal/community/domain/entities"
)

// PostRepository определяет интерфейс для операций над постами.
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) (*entities.Post, error)

	FindByID(ctx context.Context, id string) (*entities.Post, error)

	// FindByIDs возвращает существующие посты из списка идентификаторов;
	// отсутствующие идентификаторы молча опускаются.
	FindByIDs(ctx context.Context, ids []string) ([]*entities.Post, error)

	ListByUserID(ctx context.Context, userID string) ([]*entities.Post, error)
}
