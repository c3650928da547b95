// Package postgres содержит реализации репозиториев поверх PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
	"campushub/internal/community/ports/repositories"
	"campushub/pkg/logger"
)

// PgxPoolInterface описывает используемое подмножество pgxpool.Pool,
// чтобы репозитории можно было тестировать через pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

const userColumns = `id, username, email, password_hash, about, educational_place, educational_place_url, avatar_url, banner_url, created_at, updated_at`

// Код ошибки PostgreSQL для нарушения уникального ограничения.
const uniqueViolationCode = "23505"

// Имена уникальных ограничений таблицы users.
const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
)

// mapUniqueViolation переводит нарушение уникального ограничения в доменную
// ошибку. Ограничения БД - последний рубеж против гонки "проверил-записал"
// при конкурентной регистрации.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		switch pgErr.ConstraintName {
		case constraintUsername:
			return services.ErrUsernameTaken
		case constraintEmail:
			return services.ErrEmailTaken
		}
	}
	return nil
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// scanUser читает строку пользователя из результата запроса.
func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.About,
		&user.EducationalPlace,
		&user.EducationalPlaceURL,
		&user.AvatarURL,
		&user.BannerURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// rowQuerier покрывает и пул соединений, и открытую транзакцию.
type rowQuerier interface {
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

// loadSavedPostIDs загружает упорядоченный список закладок пользователя.
func loadSavedPostIDs(ctx context.Context, q rowQuerier, userID string) ([]string, error) {
	rows, err := q.Query(ctx,
		`SELECT post_id FROM saved_posts WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying saved posts: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning saved post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved posts: %w", err)
	}
	return ids, nil
}

// findOne выполняет запрос одного пользователя и дозагружает его закладки.
func (r *UserRepository) findOne(ctx context.Context, log *logger.Logger, query string, arg string) (*entities.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("arg", arg))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user", zap.Error(err))
		return nil, fmt.Errorf("error querying user: %w", err)
	}

	savedIDs, err := loadSavedPostIDs(ctx, r.pool, user.ID)
	if err != nil {
		log.Error(ctx, "error loading saved posts", zap.Error(err))
		return nil, err
	}
	user.SavedPostIDs = savedIDs

	return user, nil
}

// Create создает нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	createdUser, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
	))
	if err != nil {
		if domainErr := mapUniqueViolation(err); domainErr != nil {
			log.Debug(ctx, "unique constraint violated on insert", zap.Error(err))
			return nil, domainErr
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	createdUser.SavedPostIDs = make([]string, 0)
	return createdUser, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, log, query, id)
}

// FindByUsername находит пользователя по username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByUsername"))

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.findOne(ctx, log, query, username)
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, log, query, email)
}

// FindByIdentifier находит пользователя, у которого email либо username
// совпадает с идентификатором.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByIdentifier"))

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1`
	return r.findOne(ctx, log, query, identifier)
}

// ListByPostPoints возвращает всех пользователей, упорядоченных по убыванию
// максимума очков среди их постов; пользователи без постов идут последними,
// ничьи детерминированно решает id.
func (r *UserRepository) ListByPostPoints(ctx context.Context) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "ListByPostPoints"))

	query := `
        SELECT u.id, u.username, u.email, u.password_hash, u.about, u.educational_place, u.educational_place_url, u.avatar_url, u.banner_url, u.created_at, u.updated_at
        FROM users u
        LEFT JOIN posts p ON p.user_id = u.id
        GROUP BY u.id
        ORDER BY MAX(p.points) DESC NULLS LAST, u.id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		log.Error(ctx, "error listing users", zap.Error(err))
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error(ctx, "error scanning user", zap.Error(err))
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating users", zap.Error(err))
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// IsUsernameTaken проверяет, занят ли username другим пользователем.
// Пустой excludeID означает проверку среди всех пользователей.
func (r *UserRepository) IsUsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "IsUsernameTaken"))

	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id::text <> $2)`,
		username, excludeID,
	).Scan(&taken)
	if err != nil {
		log.Error(ctx, "error checking username", zap.Error(err))
		return false, fmt.Errorf("error checking username: %w", err)
	}

	return taken, nil
}

// IsEmailTaken проверяет, занят ли email другим пользователем.
func (r *UserRepository) IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "IsEmailTaken"))

	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id::text <> $2)`,
		email, excludeID,
	).Scan(&taken)
	if err != nil {
		log.Error(ctx, "error checking email", zap.Error(err))
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return taken, nil
}

// UpdateProfile перечитывает строку пользователя под FOR UPDATE, применяет
// патч к свежему снимку и сохраняет результат вместе со связью saved_posts
// в той же транзакции. Слияние со строкой под блокировкой не дает второму
// конкурентному обновлению затереть уже закоммиченные поля устаревшим
// снимком вызывающей стороны.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, change *entities.ProfileChange) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "UpdateProfile"))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanUser(tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found for update", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error locking user row", zap.Error(err))
		return nil, fmt.Errorf("error locking user row: %w", err)
	}

	merged := *current
	if change.Patch != nil {
		merged = change.Patch.Merge(*current)
	}
	if change.PasswordHash != "" {
		merged.PasswordHash = change.PasswordHash
	}

	query := `
        UPDATE users
        SET username = $2, email = $3, password_hash = $4, about = $5, educational_place = $6, educational_place_url = $7, avatar_url = $8, banner_url = $9, updated_at = $10
        WHERE id = $1
        RETURNING ` + userColumns

	updatedUser, err := scanUser(tx.QueryRow(ctx, query,
		id,
		merged.Username,
		merged.Email,
		merged.PasswordHash,
		merged.About,
		merged.EducationalPlace,
		merged.EducationalPlaceURL,
		merged.AvatarURL,
		merged.BannerURL,
		time.Now().UTC(),
	))
	if err != nil {
		if domainErr := mapUniqueViolation(err); domainErr != nil {
			log.Debug(ctx, "unique constraint violated on update", zap.Error(err))
			return nil, domainErr
		}
		log.Error(ctx, "error updating user", zap.Error(err))
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	if change.ReplaceSavedPosts {
		if _, err := tx.Exec(ctx, `DELETE FROM saved_posts WHERE user_id = $1`, id); err != nil {
			log.Error(ctx, "error clearing saved posts", zap.Error(err))
			return nil, fmt.Errorf("error clearing saved posts: %w", err)
		}
		for position, postID := range change.SavedPostIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO saved_posts (user_id, post_id, position) VALUES ($1, $2, $3)`,
				id, postID, position,
			); err != nil {
				log.Error(ctx, "error saving bookmark", zap.Error(err), zap.String("postID", postID))
				return nil, fmt.Errorf("error saving bookmark: %w", err)
			}
		}
		updatedUser.SavedPostIDs = change.SavedPostIDs
	} else {
		savedIDs, err := loadSavedPostIDs(ctx, tx, id)
		if err != nil {
			log.Error(ctx, "error loading saved posts", zap.Error(err))
			return nil, err
		}
		updatedUser.SavedPostIDs = savedIDs
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing update", zap.Error(err))
		return nil, fmt.Errorf("error committing update: %w", err)
	}

	return updatedUser, nil
}

// DeleteCascade удаляет в одной транзакции сначала все посты пользователя,
// затем самого пользователя. Порядок значим: посты не должны пережить
// владельца. Комментарии снимаются внешними ключами ON DELETE CASCADE.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "DeleteCascade"))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, id); err != nil {
		log.Error(ctx, "error deleting user posts", zap.Error(err))
		return fmt.Errorf("error deleting user posts: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user not found for deletion", zap.String("id", id))
		return entities.ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing deletion", zap.Error(err))
		return fmt.Errorf("error committing deletion: %w", err)
	}

	return nil
}
