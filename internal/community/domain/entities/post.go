package entities

import (
	"errors"
	"time"
)

// MaxTitleLength - максимальная длина заголовка поста.
const MaxTitleLength = 100

// Ошибки домена постов.
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrEmptyTitle    = errors.New("post title cannot be empty")
	ErrTitleTooLong  = errors.New("post title must contain at most 100 characters")
	ErrEmptyPostBody = errors.New("post content cannot be empty")
)

// Post представляет собой публикацию, принадлежащую ровно одному пользователю.
// UserID неизменяем после создания.
type Post struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Points    int        `json:"points"`
	Comments  []*Comment `json:"comments,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewPost создает новый пост, принадлежащий указанному пользователю.
func NewPost(userID, title, content string) *Post {
	now := time.Now()
	return &Post{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Points:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
