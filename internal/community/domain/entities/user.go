// Package entities определяет доменные сущности сервиса сообщества.
package entities

import (
	"errors"
	"time"
)

// Ограничения на поля пользователя.
const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooShort = errors.New("username must contain at least 4 characters")
	ErrUsernameTooLong  = errors.New("username must contain at most 20 characters")
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter and one digit")
	ErrUserNotFound     = errors.New("user not found")
)

// User представляет основную сущность домена пользователя.
// PasswordHash никогда не сериализуется наружу.
type User struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	About               string     `json:"about"`
	EducationalPlace    string     `json:"educational_place"`
	EducationalPlaceURL string     `json:"educational_place_url"`
	AvatarURL           string     `json:"avatar_url"`
	BannerURL           string     `json:"banner_url"`
	SavedPostIDs        []string   `json:"saved_post_ids"`
	Posts               []*Post    `json:"posts,omitempty"`
	Comments            []*Comment `json:"comments,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// UserPatch описывает частичное обновление профиля: nil-поле означает
// "оставить прежнее значение". Слияние производится функционально,
// порождая новый снимок сущности вместо мутации загруженной.
type UserPatch struct {
	Username            *string
	Email               *string
	Password            *string
	About               *string
	EducationalPlace    *string
	EducationalPlaceURL *string
	AvatarURL           *string
	BannerURL           *string
	SavedPostIDs        []string
}

// ProfileChange описывает подготовленное изменение профиля: проверенный
// патч, заранее вычисленный хеш нового пароля и разрешенный список закладок.
// Пустой PasswordHash означает "пароль не меняется". Патч применяется к
// строке, перечитанной хранилищем под блокировкой, а не к снимку вызывающей
// стороны.
type ProfileChange struct {
	Patch             *UserPatch
	PasswordHash      string
	SavedPostIDs      []string
	ReplaceSavedPosts bool
}

// Merge применяет патч к снимку пользователя и возвращает новый снимок.
// Пароль и сохраненные посты патч не трогает: их согласование выполняет
// вызывающая сторона (хэширование и проверка существования постов).
func (p *UserPatch) Merge(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.EducationalPlace != nil {
		u.EducationalPlace = *p.EducationalPlace
	}
	if p.EducationalPlaceURL != nil {
		u.EducationalPlaceURL = *p.EducationalPlaceURL
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.BannerURL != nil {
		u.BannerURL = *p.BannerURL
	}
	return u
}
