// Package app реализует бизнес-логику сервиса сообщества.
package app

import (
	"context"
	"errors"
	"fmt"

	svc "campushub/internal/community/ports/services"
	"campushub/pkg/logger"

	"go.uber.org/zap"
)

// ErrUnauthorized возвращается при любом отказе авторизации: отсутствующий,
// испорченный или просроченный токен и чужой субъект неразличимы для
// вызывающей стороны.
var ErrUnauthorized = errors.New("unauthorized access")

const (
	methodAuthorize = "Authorize"

	msgAuthorizing         = "authorizing resource mutation"
	msgTokenRejected       = "token rejected"
	msgSubjectMismatch     = "token subject does not own the resource"
	msgAuthorizationPassed = "authorization passed"

	errCtxValidatingBearer = "validating bearer token"
	errCtxMatchingSubject  = "matching token subject"
)

// OwnershipAuthorizer сверяет субъект токена с владельцем ресурса.
// Проверка существования ресурса - обязанность вызывающей стороны.
type OwnershipAuthorizer struct {
	tokenSvc svc.TokenService
}

// NewOwnershipAuthorizer создает новый экземпляр авторизатора.
func NewOwnershipAuthorizer(tokenSvc svc.TokenService) svc.Authorizer {
	return &OwnershipAuthorizer{tokenSvc: tokenSvc}
}

// Authorize возвращает идентификатор субъекта, если токен действителен и
// субъект совпадает с владельцем ресурса.
func (a *OwnershipAuthorizer) Authorize(ctx context.Context, token, ownerID string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthorize))
	log.Debug(ctx, msgAuthorizing)

	claims, err := a.tokenSvc.Validate(ctx, token)
	if err != nil {
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxValidatingBearer, ErrUnauthorized)
	}

	if claims.UserID != ownerID {
		log.Debug(ctx, msgSubjectMismatch, zap.String("subject", claims.UserID))
		return "", fmt.Errorf("%s: %w", errCtxMatchingSubject, ErrUnauthorized)
	}

	log.Debug(ctx, msgAuthorizationPassed, zap.String("subject", claims.UserID))
	return claims.UserID, nil
}
