package app

import (
	"context"
	"fmt"
	"strings"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/ports/api"
	"campushub/internal/community/ports/cache"
	"campushub/internal/community/ports/repositories"
	svc "campushub/internal/community/ports/services"
	"campushub/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodCreatePost    = "CreatePost"
	methodGetPost       = "GetPost"
	methodCreateComment = "CreateComment"
	methodGetComment    = "GetComment"

	msgStartCreatePost    = "creating post"
	msgPostCreated        = "post created"
	msgFetchingPost       = "fetching post"
	msgStartCreateComment = "creating comment"
	msgCommentCreated     = "comment created"
	msgFetchingComment    = "fetching comment"

	msgErrAuthorToken   = "post author token rejected"
	msgErrAuthorLookup  = "failed to find post author"
	msgErrCreatePost    = "failed to create post"
	msgErrFindPost      = "failed to find post"
	msgErrCreateComment = "failed to create comment"
	msgErrFindComment   = "failed to find comment"
	msgErrLoadReplies   = "failed to load post comments"

	errCtxValidatingAuthor  = "validating author token"
	errCtxFindingAuthor     = "finding post author"
	errCtxValidatingTitle   = "validating post title"
	errCtxValidatingBody    = "validating post content"
	errCtxCreatingPost      = "creating post"
	errCtxFindingPost       = "finding post"
	errCtxLoadingReplies    = "loading post comments"
	errCtxValidatingComment = "validating comment content"
	errCtxFindingCommenter  = "finding comment author"
	errCtxCreatingComment   = "creating comment"
	errCtxFindingComment    = "finding comment"
)

// ContentUseCaseImpl реализует интерфейс ContentUseCase.
type ContentUseCaseImpl struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	tokenSvc    svc.TokenService
	cache       cache.Cache
}

// NewContentUseCase создает новый экземпляр сервиса контента.
func NewContentUseCase(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	tokenSvc svc.TokenService,
	contentCache cache.Cache,
) api.ContentUseCase {
	return &ContentUseCaseImpl{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		tokenSvc:    tokenSvc,
		cache:       contentCache,
	}
}

// CreatePost создает пост от имени субъекта токена. Любой дефект токена
// дает ErrUnauthorized; субъект обязан существовать в хранилище.
func (c *ContentUseCaseImpl) CreatePost(ctx context.Context, token, title, content string) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreatePost))
	log.Debug(ctx, msgStartCreatePost)

	claims, err := c.tokenSvc.Validate(ctx, token)
	if err != nil {
		log.Debug(ctx, msgErrAuthorToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingAuthor, ErrUnauthorized)
	}

	if err := validateTitle(title); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingTitle, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingBody, entities.ErrEmptyPostBody)
	}

	author, err := c.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		log.Debug(ctx, msgErrAuthorLookup, zap.Error(err), zap.String("userID", claims.UserID))
		return nil, fmt.Errorf("%s: %w", errCtxFindingAuthor, err)
	}

	post, err := c.postRepo.Create(ctx, entities.NewPost(author.ID, title, content))
	if err != nil {
		log.Error(ctx, msgErrCreatePost, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingPost, err)
	}

	c.invalidatePopularity(ctx, log)

	log.Info(ctx, msgPostCreated, zap.String("postID", post.ID), zap.String("userID", author.ID))
	return post, nil
}

// GetPost возвращает пост вместе с его комментариями.
func (c *ContentUseCaseImpl) GetPost(ctx context.Context, postID string) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetPost), zap.String("postID", postID))
	log.Debug(ctx, msgFetchingPost)

	post, err := c.postRepo.FindByID(ctx, postID)
	if err != nil {
		log.Debug(ctx, msgErrFindPost, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingPost, err)
	}

	comments, err := c.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		log.Error(ctx, msgErrLoadReplies, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxLoadingReplies, err)
	}
	post.Comments = comments

	return post, nil
}

// CreateComment сохраняет комментарий. Сначала проверяется существование
// поста, затем пользователя: при отсутствии обоих наружу уходит ошибка поста.
func (c *ContentUseCaseImpl) CreateComment(ctx context.Context, postID, userID, content string) (*entities.Comment, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodCreateComment),
		zap.String("postID", postID),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgStartCreateComment)

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingComment, entities.ErrEmptyComment)
	}

	if _, err := c.postRepo.FindByID(ctx, postID); err != nil {
		log.Debug(ctx, msgErrFindPost, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingPost, err)
	}

	if _, err := c.userRepo.FindByID(ctx, userID); err != nil {
		log.Debug(ctx, msgErrAuthorLookup, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingCommenter, err)
	}

	comment, err := c.commentRepo.Create(ctx, &entities.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateComment, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingComment, err)
	}

	c.invalidatePopularity(ctx, log)

	log.Info(ctx, msgCommentCreated, zap.String("commentID", comment.ID))
	return comment, nil
}

// GetComment возвращает комментарий по идентификатору.
func (c *ContentUseCaseImpl) GetComment(ctx context.Context, commentID string) (*entities.Comment, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetComment), zap.String("commentID", commentID))
	log.Debug(ctx, msgFetchingComment)

	comment, err := c.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		log.Debug(ctx, msgErrFindComment, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingComment, err)
	}

	return comment, nil
}

func (c *ContentUseCaseImpl) invalidatePopularity(ctx context.Context, log *logger.Logger) {
	if err := c.cache.Delete(ctx, popularityCacheKey); err != nil {
		log.Warn(ctx, msgErrCacheInvalidate, zap.Error(err))
	}
}

// Валидация заголовка поста: непустой, не длиннее 100 символов.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return entities.ErrEmptyTitle
	}
	if len(title) > entities.MaxTitleLength {
		return entities.ErrTitleTooLong
	}
	return nil
}
