package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/ports/repositories"
	"campushub/pkg/logger"
)

const postColumns = `id, user_id, title, content, points, created_at, updated_at`

// PostRepository реализует интерфейс repositories.PostRepository.
type PostRepository struct {
	pool PgxPoolInterface
}

// NewPostRepository создает новый репозиторий постов.
func NewPostRepository(pool PgxPoolInterface) repositories.PostRepository {
	return &PostRepository{pool: pool}
}

// scanPost читает строку поста из результата запроса.
func scanPost(row pgx.Row) (*entities.Post, error) {
	var post entities.Post
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.Points,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create сохраняет новый пост.
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", "post"), zap.String("method", "Create"))

	query := `
        INSERT INTO posts (user_id, title, content)
        VALUES ($1, $2, $3)
        RETURNING ` + postColumns

	createdPost, err := scanPost(r.pool.QueryRow(ctx, query, post.UserID, post.Title, post.Content))
	if err != nil {
		log.Error(ctx, "error creating post", zap.Error(err))
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	log.Debug(ctx, "post created", zap.String("postID", createdPost.ID))
	return createdPost, nil
}

// FindByID находит пост по ID.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", "post"), zap.String("method", "FindByID"))

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "post not found", zap.String("id", id))
			return nil, entities.ErrPostNotFound
		}
		log.Error(ctx, "error finding post", zap.Error(err))
		return nil, fmt.Errorf("error querying post: %w", err)
	}

	return post, nil
}

// FindByIDs возвращает существующие посты из списка идентификаторов;
// отсутствующие идентификаторы молча опускаются.
func (r *PostRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", "post"), zap.String("method", "FindByIDs"))

	if len(ids) == 0 {
		return []*entities.Post{}, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		log.Error(ctx, "error finding posts by ids", zap.Error(err))
		return nil, fmt.Errorf("error querying posts by ids: %w", err)
	}
	defer rows.Close()

	return collectPosts(log, ctx, rows)
}

// ListByUserID возвращает посты, принадлежащие пользователю.
func (r *PostRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", "post"), zap.String("method", "ListByUserID"))

	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		log.Error(ctx, "error listing posts", zap.Error(err))
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(log, ctx, rows)
}

// collectPosts вычитывает все посты из результата запроса.
func collectPosts(log *logger.Logger, ctx context.Context, rows pgx.Rows) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			log.Error(ctx, "error scanning post", zap.Error(err))
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating posts", zap.Error(err))
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}
