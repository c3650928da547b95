package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"campushub/internal/community/adapters/http/dto"
	"campushub/internal/community/ports/api"
	"campushub/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister    = "user handler: register"
	LogHandlerLogin       = "user handler: login"
	LogHandlerListUsers   = "user handler: list users"
	LogHandlerGetProfile  = "user handler: get profile"
	LogHandlerUpdate      = "user handler: update profile"
	LogHandlerDeleteUser  = "user handler: delete user"
	ErrorFailedToServe    = "failed to serve request"
	ErrorValidationFailed = "request validation failed"
)

// UserHandler содержит HTTP обработчики пользовательских операций.
type UserHandler struct {
	authUseCase api.AuthUseCase
	userUseCase api.UserUseCase
}

// NewUserHandler создает новый экземпляр обработчика пользователей.
func NewUserHandler(authUseCase api.AuthUseCase, userUseCase api.UserUseCase) *UserHandler {
	return &UserHandler{
		authUseCase: authUseCase,
		userUseCase: userUseCase,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *UserHandler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := validateRequest(&req); err != nil {
		log.Debug(requestCtx, ErrorValidationFailed, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.authUseCase.Register(requestCtx, req.Username, req.Email, req.Password)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(user)
}

// Login обрабатывает запрос на вход по email либо username.
func (h *UserHandler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := validateRequest(&req); err != nil {
		log.Debug(requestCtx, ErrorValidationFailed, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.authUseCase.Login(requestCtx, req.Identifier, req.Password)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.NewSessionResponse(session))
}

// ListUsers возвращает пользователей по популярности либо, при наличии
// параметра email, одного пользователя по email.
func (h *UserHandler) ListUsers(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListUsers)

	if email := ctx.Query("email"); email != "" {
		user, err := h.userUseCase.FindByEmail(requestCtx, email)
		if err != nil {
			log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
			return respondDomainError(ctx, err)
		}
		return ctx.Status(fiber.StatusOK).JSON(user)
	}

	users, err := h.userUseCase.ListByPopularity(requestCtx)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(users)
}

// GetProfile возвращает профиль пользователя по username вместе с его
// постами и комментариями.
func (h *UserHandler) GetProfile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetProfile)

	user, err := h.userUseCase.GetByUsername(requestCtx, ctx.Params("username"))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(user)
}

// Update обрабатывает частичное обновление профиля.
func (h *UserHandler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdate)

	var req dto.UpdateProfileRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := validateRequest(&req); err != nil {
		log.Debug(requestCtx, ErrorValidationFailed, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.userUseCase.Update(requestCtx, ctx.Params("user_id"), bearerToken(ctx), req.ToPatch())
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(user)
}

// Delete удаляет пользователя вместе со всеми его постами и возвращает
// удаленную запись.
func (h *UserHandler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteUser)

	user, err := h.userUseCase.Delete(requestCtx, ctx.Params("user_id"), bearerToken(ctx))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(user)
}

// bearerToken извлекает токен из заголовка Authorization. Отсутствующий
// заголовок дает пустую строку: отказ выражает слой приложения.
func bearerToken(ctx fiber.Ctx) string {
	header := ctx.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
