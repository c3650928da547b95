// Package handlers содержит HTTP обработчики сервиса сообщества.
package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"campushub/internal/community/adapters/http/dto"
	"campushub/internal/community/app"
	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
)

// Сообщения об ошибках уровня HTTP.
const (
	ErrorInvalidRequest = "invalid request"
)

// statusFromError отображает доменную ошибку в HTTP статус.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrPostNotFound),
		errors.Is(err, entities.ErrCommentNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, app.ErrUnauthorized):
		return fiber.StatusUnauthorized

	case errors.Is(err, entities.ErrEmptyUsername),
		errors.Is(err, entities.ErrUsernameTooShort),
		errors.Is(err, entities.ErrUsernameTooLong),
		errors.Is(err, entities.ErrInvalidEmail),
		errors.Is(err, entities.ErrPasswordTooShort),
		errors.Is(err, entities.ErrPasswordTooWeak),
		errors.Is(err, entities.ErrEmptyTitle),
		errors.Is(err, entities.ErrTitleTooLong),
		errors.Is(err, entities.ErrEmptyPostBody),
		errors.Is(err, entities.ErrEmptyComment):
		return fiber.StatusBadRequest

	default:
		return fiber.StatusInternalServerError
	}
}

// respondError отправляет тело ошибки с указанным статусом.
func respondError(ctx fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(dto.ErrorResponse{Error: message})
}

// respondDomainError отображает ошибку приложения в HTTP ответ, скрывая
// внутренние детали при статусе 500.
func respondDomainError(ctx fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		return respondError(ctx, status, "internal server error")
	}
	return respondError(ctx, status, err.Error())
}

// validateRequest проверяет структуру запроса и возвращает текст первого
// нарушенного правила.
func validateRequest(req any) error {
	if err := dto.Validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return verrs[0]
		}
		return err
	}
	return nil
}
