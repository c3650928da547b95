// Package dto содержит объекты передачи данных HTTP-слоя.
package dto

import (
	"time"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"

	"github.com/go-playground/validator/v10"
)

// Validator проверяет структуры запросов по validate-тегам.
var Validator = validator.New(validator.WithRequiredStructEnabled())

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=4,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest содержит данные для входа. Identifier принимает email либо
// username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateProfileRequest содержит частичное обновление профиля: отсутствующие
// поля не изменяются.
type UpdateProfileRequest struct {
	Username            *string  `json:"username,omitempty" validate:"omitempty,min=4,max=20"`
	Email               *string  `json:"email,omitempty" validate:"omitempty,email"`
	Password            *string  `json:"password,omitempty" validate:"omitempty,min=8"`
	About               *string  `json:"about,omitempty"`
	EducationalPlace    *string  `json:"educational_place,omitempty"`
	EducationalPlaceURL *string  `json:"educational_place_url,omitempty" validate:"omitempty,url"`
	AvatarURL           *string  `json:"avatar_url,omitempty" validate:"omitempty,url"`
	BannerURL           *string  `json:"banner_url,omitempty" validate:"omitempty,url"`
	SavedPostIDs        []string `json:"saved_post_ids,omitempty"`
}

// ToPatch преобразует запрос в доменный патч.
func (r *UpdateProfileRequest) ToPatch() *entities.UserPatch {
	return &entities.UserPatch{
		Username:            r.Username,
		Email:               r.Email,
		Password:            r.Password,
		About:               r.About,
		EducationalPlace:    r.EducationalPlace,
		EducationalPlaceURL: r.EducationalPlaceURL,
		AvatarURL:           r.AvatarURL,
		BannerURL:           r.BannerURL,
		SavedPostIDs:        r.SavedPostIDs,
	}
}

// CreatePostRequest содержит данные для создания поста.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

// CreateCommentRequest содержит данные для создания комментария.
type CreateCommentRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid4"`
	Content string `json:"content" validate:"required"`
}

// SessionResponse содержит выданный токен и профиль вошедшего пользователя.
type SessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *entities.User `json:"user"`
}

// NewSessionResponse собирает ответ входа из доменной сессии.
func NewSessionResponse(session *services.Session) *SessionResponse {
	return &SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	}
}

// ErrorResponse содержит тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}
