package app

import (
	"context"
	"encoding/json"
	"fmt"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
	"campushub/internal/community/ports/api"
	"campushub/internal/community/ports/cache"
	"campushub/internal/community/ports/repositories"
	svc "campushub/internal/community/ports/services"
	"campushub/pkg/logger"

	"go.uber.org/zap"
)

// Ключ кэша списка пользователей по популярности. Сбрасывается при любой
// мутации, влияющей на состав списка.
const popularityCacheKey = "community:users:by_popularity"

const (
	methodGetByUsername    = "GetByUsername"
	methodFindByEmail      = "FindByEmail"
	methodListByPopularity = "ListByPopularity"
	methodUpdate           = "Update"
	methodDelete           = "Delete"

	msgFetchingProfile    = "fetching user profile"
	msgProfileFetched     = "user profile fetched"
	msgPopularityCacheHit = "popularity listing served from cache"
	msgPopularityFetched  = "popularity listing fetched from storage"
	msgStartUpdate        = "starting profile update"
	msgProfileUpdated     = "profile updated"
	msgSavedPostsKept     = "no resolvable saved posts in patch, keeping previous selection"
	msgStartDelete        = "starting user deletion"
	msgUserDeleted        = "user deleted with all posts"

	msgErrFindingByID      = "failed to find user by id"
	msgErrLoadingPosts     = "failed to load user posts"
	msgErrLoadingComments  = "failed to load user comments"
	msgErrListingUsers     = "failed to list users by popularity"
	msgErrResolvingSaved   = "failed to resolve saved posts"
	msgErrPersistingUpdate = "failed to persist profile update"
	msgErrDeletingUser     = "failed to delete user"
	msgErrCacheRead        = "popularity cache read failed"
	msgErrCacheWrite       = "popularity cache write failed"
	msgErrCacheInvalidate  = "popularity cache invalidation failed"
	msgErrCacheDecode      = "popularity cache entry is not decodable"

	errCtxFindingByID       = "finding user by id"
	errCtxFindingByUsername = "finding user by username"
	errCtxFindingByEmail    = "finding user by email"
	errCtxLoadingPosts      = "loading user posts"
	errCtxLoadingComments   = "loading user comments"
	errCtxListingUsers      = "listing users by popularity"
	errCtxAuthorizing       = "authorizing profile mutation"
	errCtxResolvingSaved    = "resolving saved posts"
	errCtxPersistingUpdate  = "persisting profile update"
	errCtxDeletingUser      = "deleting user"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	passwordSvc svc.PasswordService
	authorizer  svc.Authorizer
	cache       cache.Cache
}

// NewUserUseCase создает новый экземпляр сервиса пользователей.
func NewUserUseCase(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	passwordSvc svc.PasswordService,
	authorizer svc.Authorizer,
	userCache cache.Cache,
) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		passwordSvc: passwordSvc,
		authorizer:  authorizer,
		cache:       userCache,
	}
}

// GetByUsername возвращает профиль вместе с постами и комментариями автора.
func (u *UserUseCaseImpl) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetByUsername), zap.String("username", username))
	log.Debug(ctx, msgFetchingProfile)

	user, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingByUsername, err)
	}

	if err := u.attachContent(ctx, user); err != nil {
		return nil, err
	}

	log.Debug(ctx, msgProfileFetched, zap.String("userID", user.ID))
	return user, nil
}

// FindByEmail возвращает профиль по email без загрузки контента.
func (u *UserUseCaseImpl) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodFindByEmail))
	log.Debug(ctx, msgFetchingProfile)

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingByEmail, err)
	}

	return user, nil
}

// ListByPopularity возвращает всех пользователей с контентом, упорядоченных
// по максимальным очкам среди их постов. Результат кэшируется; промах или
// нечитаемая запись кэша не считаются ошибкой операции.
func (u *UserUseCaseImpl) ListByPopularity(ctx context.Context) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListByPopularity))

	if cached, err := u.cache.Get(ctx, popularityCacheKey); err != nil {
		log.Warn(ctx, msgErrCacheRead, zap.Error(err))
	} else if cached != "" {
		var users []*entities.User
		if err := json.Unmarshal([]byte(cached), &users); err != nil {
			log.Warn(ctx, msgErrCacheDecode, zap.Error(err))
		} else {
			log.Debug(ctx, msgPopularityCacheHit, zap.Int("count", len(users)))
			return users, nil
		}
	}

	users, err := u.userRepo.ListByPostPoints(ctx)
	if err != nil {
		log.Error(ctx, msgErrListingUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}

	for _, user := range users {
		if err := u.attachContent(ctx, user); err != nil {
			return nil, err
		}
	}

	if encoded, err := json.Marshal(users); err == nil {
		if err := u.cache.Set(ctx, popularityCacheKey, string(encoded), 0); err != nil {
			log.Warn(ctx, msgErrCacheWrite, zap.Error(err))
		}
	}

	log.Debug(ctx, msgPopularityFetched, zap.Int("count", len(users)))
	return users, nil
}

// Update применяет частичное обновление профиля. Предъявитель токена обязан
// совпадать с владельцем профиля. Поля уникальности проверяются только при
// изменении; сохраненные посты либо целиком заменяются разрешимым списком из
// патча, либо остаются прежними. Слияние патча со строкой выполняет
// хранилище под блокировкой, одной транзакцией с записью.
func (u *UserUseCaseImpl) Update(ctx context.Context, userID, token string, patch *entities.UserPatch) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdate), zap.String("userID", userID))
	log.Debug(ctx, msgStartUpdate)

	current, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Debug(ctx, msgErrFindingByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingByID, err)
	}

	if _, err := u.authorizer.Authorize(ctx, token, current.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxAuthorizing, err)
	}

	if patch.Username != nil {
		if err := validateUsername(*patch.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, err)
		}
		taken, err := u.userRepo.IsUsernameTaken(ctx, *patch.Username, current.ID)
		if err != nil {
			log.Error(ctx, msgErrCheckUsername, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxCheckingUsername, err)
		}
		if taken {
			log.Debug(ctx, msgUsernameExists)
			return nil, fmt.Errorf("%s: %w", errCtxUsernameTaken, services.ErrUsernameTaken)
		}
	}

	if patch.Email != nil {
		if err := validateEmail(*patch.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
		}
		taken, err := u.userRepo.IsEmailTaken(ctx, *patch.Email, current.ID)
		if err != nil {
			log.Error(ctx, msgErrCheckEmail, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxCheckingEmail, err)
		}
		if taken {
			log.Debug(ctx, msgEmailExists)
			return nil, fmt.Errorf("%s: %w", errCtxEmailTaken, services.ErrEmailTaken)
		}
	}

	change := &entities.ProfileChange{Patch: patch}

	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
		}
		hashed, err := u.passwordSvc.Hash(ctx, *patch.Password)
		if err != nil {
			log.Error(ctx, msgErrHashPassword, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
		}
		change.PasswordHash = hashed
	}

	if len(patch.SavedPostIDs) > 0 {
		resolved, err := u.resolveSavedPosts(ctx, patch.SavedPostIDs)
		if err != nil {
			log.Error(ctx, msgErrResolvingSaved, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxResolvingSaved, err)
		}
		if len(resolved) > 0 {
			change.SavedPostIDs = resolved
			change.ReplaceSavedPosts = true
		} else {
			log.Debug(ctx, msgSavedPostsKept)
		}
	}

	result, err := u.userRepo.UpdateProfile(ctx, current.ID, change)
	if err != nil {
		log.Error(ctx, msgErrPersistingUpdate, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxPersistingUpdate, err)
	}

	u.invalidatePopularity(ctx, log)

	log.Info(ctx, msgProfileUpdated)
	return result, nil
}

// Delete удаляет пользователя вместе со всеми его постами и возвращает
// удаленную запись как подтверждение.
func (u *UserUseCaseImpl) Delete(ctx context.Context, userID, token string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("userID", userID))
	log.Debug(ctx, msgStartDelete)

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Debug(ctx, msgErrFindingByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingByID, err)
	}

	if _, err := u.authorizer.Authorize(ctx, token, user.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxAuthorizing, err)
	}

	if err := u.attachContent(ctx, user); err != nil {
		return nil, err
	}

	if err := u.userRepo.DeleteCascade(ctx, user.ID); err != nil {
		log.Error(ctx, msgErrDeletingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	u.invalidatePopularity(ctx, log)

	log.Info(ctx, msgUserDeleted, zap.Int("posts", len(user.Posts)))
	return user, nil
}

// attachContent загружает посты и комментарии пользователя в сущность.
func (u *UserUseCaseImpl) attachContent(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx)

	posts, err := u.postRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrLoadingPosts, zap.Error(err), zap.String("userID", user.ID))
		return fmt.Errorf("%s: %w", errCtxLoadingPosts, err)
	}
	user.Posts = posts

	comments, err := u.commentRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrLoadingComments, zap.Error(err), zap.String("userID", user.ID))
		return fmt.Errorf("%s: %w", errCtxLoadingComments, err)
	}
	user.Comments = comments

	return nil
}

// resolveSavedPosts возвращает идентификаторы из запрошенного списка,
// существующие в хранилище, сохраняя порядок запроса.
func (u *UserUseCaseImpl) resolveSavedPosts(ctx context.Context, ids []string) ([]string, error) {
	posts, err := u.postRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(posts))
	for _, post := range posts {
		existing[post.ID] = struct{}{}
	}

	resolved := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		resolved = append(resolved, id)
	}

	return resolved, nil
}

func (u *UserUseCaseImpl) invalidatePopularity(ctx context.Context, log *logger.Logger) {
	if err := u.cache.Delete(ctx, popularityCacheKey); err != nil {
		log.Warn(ctx, msgErrCacheInvalidate, zap.Error(err))
	}
}
