package repositories

import (
	"context"

	"campushub/internal/community/domain/entities"
)

// CommentRepository определяет интерфейс для операций над комментариями.
type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error)

	FindByID(ctx context.Context, id string) (*entities.Comment, error)

	ListByPostID(ctx context.Context, postID string) ([]*entities.Comment, error)

	ListByUserID(ctx context.Context, userID string) ([]*entities.Comment, error)
}
