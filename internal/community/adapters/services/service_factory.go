package services

import (
	"errors"
	"time"

	svc "campushub/internal/community/ports/services"
)

// ErrEmptySecretKey возвращается при попытке собрать сервисы без ключа подписи.
// Отсутствие ключа фатально на старте процесса, а не при первом запросе.
var ErrEmptySecretKey = errors.New("JWT secret key is not configured")

// ServiceFactory создает и хранит сервисы паролей и токенов.
type ServiceFactory struct {
	passwordService svc.PasswordService
	tokenService    svc.TokenService
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(secretKey string, tokenTTL time.Duration, bcryptCost int) (*ServiceFactory, error) {
	if secretKey == "" {
		return nil, ErrEmptySecretKey
	}

	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(secretKey, tokenTTL),
	}, nil
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис токенов.
func (f *ServiceFactory) TokenService() svc.TokenService {
	return f.tokenService
}
