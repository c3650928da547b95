package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"campushub/internal/community/adapters/http/dto"
	"campushub/internal/community/ports/api"
	"campushub/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerCreatePost    = "content handler: create post"
	LogHandlerGetPost       = "content handler: get post"
	LogHandlerCreateComment = "content handler: create comment"
	LogHandlerGetComment    = "content handler: get comment"
)

// ContentHandler содержит HTTP обработчики для постов и комментариев.
type ContentHandler struct {
	contentUseCase api.ContentUseCase
}

// NewContentHandler создает новый экземпляр обработчика контента.
func NewContentHandler(contentUseCase api.ContentUseCase) *ContentHandler {
	return &ContentHandler{contentUseCase: contentUseCase}
}

// CreatePost создает пост от имени субъекта токена.
func (h *ContentHandler) CreatePost(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreatePost)

	var req dto.CreatePostRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := validateRequest(&req); err != nil {
		log.Debug(requestCtx, ErrorValidationFailed, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, err.Error())
	}

	post, err := h.contentUseCase.CreatePost(requestCtx, bearerToken(ctx), req.Title, req.Content)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(post)
}

// GetPost возвращает пост по идентификатору.
func (h *ContentHandler) GetPost(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetPost)

	post, err := h.contentUseCase.GetPost(requestCtx, ctx.Params("post_id"))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(post)
}

// CreateComment создает комментарий к посту.
func (h *ContentHandler) CreateComment(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateComment)

	var req dto.CreateCommentRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := validateRequest(&req); err != nil {
		log.Debug(requestCtx, ErrorValidationFailed, zap.Error(err))
		return respondError(ctx, fiber.StatusBadRequest, err.Error())
	}

	comment, err := h.contentUseCase.CreateComment(requestCtx, ctx.Params("post_id"), req.UserID, req.Content)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment возвращает комментарий по идентификатору.
func (h *ContentHandler) GetComment(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetComment)

	comment, err := h.contentUseCase.GetComment(requestCtx, ctx.Params("comment_id"))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServe, zap.Error(err))
		return respondDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(comment)
}
