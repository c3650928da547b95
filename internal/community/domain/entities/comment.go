package entities

import (
	"errors"
	"time"
)

// Ошибки домена комментариев.
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment content cannot be empty")
)

// Comment представляет собой ответ на пост, написанный ровно одним пользователем.
// Ссылочная целостность PostID и UserID проверяется при создании.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
