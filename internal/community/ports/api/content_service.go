package api

import (
	"context"

	"campushub/internal/community/domain/entities"
)

// ContentUseCase определяет основной порт для операций с контентом.
type ContentUseCase interface {
	// CreatePost создает пост от имени субъекта токена.
	CreatePost(ctx context.Context, token, title, content string) (*entities.Post, error)

	GetPost(ctx context.Context, postID string) (*entities.Post, error)

	// CreateComment проверяет существование поста, затем пользователя,
	// и только после этого сохраняет комментарий.
	CreateComment(ctx context.Context, postID, userID, content string) (*entities.Comment, error)

	GetComment(ctx context.Context, commentID string) (*entities.Comment, error)
}
