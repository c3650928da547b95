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

const commentColumns = `id, post_id, user_id, content, created_at`

// CommentRepository реализует интерфейс repositories.CommentRepository.
type CommentRepository struct {
	pool PgxPoolInterface
}

// NewCommentRepository создает новый репозиторий комментариев.
func NewCommentRepository(pool PgxPoolInterface) repositories.CommentRepository {
	return &CommentRepository{pool: pool}
}

// scanComment читает строку комментария из результата запроса.
func scanComment(row pgx.Row) (*entities.Comment, error) {
	var comment entities.Comment
	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create сохраняет новый комментарий.
func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "comment"), zap.String("method", "Create"))

	query := `
        INSERT INTO comments (post_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING ` + commentColumns

	createdComment, err := scanComment(r.pool.QueryRow(ctx, query, comment.PostID, comment.UserID, comment.Content))
	if err != nil {
		log.Error(ctx, "error creating comment", zap.Error(err))
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	log.Debug(ctx, "comment created", zap.String("commentID", createdComment.ID))
	return createdComment, nil
}

// FindByID находит комментарий по ID.
func (r *CommentRepository) FindByID(ctx context.Context, id string) (*entities.Comment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "comment"), zap.String("method", "FindByID"))

	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "comment not found", zap.String("id", id))
			return nil, entities.ErrCommentNotFound
		}
		log.Error(ctx, "error finding comment", zap.Error(err))
		return nil, fmt.Errorf("error querying comment: %w", err)
	}

	return comment, nil
}

// ListByPostID возвращает комментарии к посту.
func (r *CommentRepository) ListByPostID(ctx context.Context, postID string) ([]*entities.Comment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "comment"), zap.String("method", "ListByPostID"))

	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, log, query, postID)
}

// ListByUserID возвращает комментарии, написанные пользователем.
func (r *CommentRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Comment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "comment"), zap.String("method", "ListByUserID"))

	query := `SELECT ` + commentColumns + ` FROM comments WHERE user_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, log, query, userID)
}

func (r *CommentRepository) list(ctx context.Context, log *logger.Logger, query, arg string) ([]*entities.Comment, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		log.Error(ctx, "error listing comments", zap.Error(err))
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*entities.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			log.Error(ctx, "error scanning comment", zap.Error(err))
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating comments", zap.Error(err))
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
