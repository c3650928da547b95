package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushub/internal/community/adapters/postgres"
	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
	"campushub/pkg/logger"
)

var errDatabaseConnection = errors.New("database connection error")

var userColumns = []string{
	"id", "username", "email", "password_hash", "about",
	"educational_place", "educational_place_url", "avatar_url", "banner_url",
	"created_at", "updated_at",
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func userRow(user entities.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).AddRow(
		user.ID, user.Username, user.Email, user.PasswordHash, user.About,
		user.EducationalPlace, user.EducationalPlaceURL, user.AvatarURL, user.BannerURL,
		user.CreatedAt, user.UpdatedAt,
	)
}

func expectSavedPosts(mock pgxmock.PgxPoolIface, userID string, postIDs ...string) {
	rows := pgxmock.NewRows([]string{"post_id"})
	for _, id := range postIDs {
		rows.AddRow(id)
	}
	mock.ExpectQuery("SELECT post_id FROM saved_posts").
		WithArgs(userID).
		WillReturnRows(rows)
}

func testUser() entities.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return entities.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)
	user := testUser()

	t.Run("успешное создание", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.Username, user.Email, user.PasswordHash).
			WillReturnRows(userRow(user))

		repo := postgres.NewUserRepository(mock)

		created, err := repo.Create(ctx, &entities.User{
			Username:     user.Username,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
		})

		require.NoError(t, err)
		assert.Equal(t, user.ID, created.ID)
		assert.NotNil(t, created.SavedPostIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("гонка по username отдает доменную ошибку", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.Username, user.Email, user.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		repo := postgres.NewUserRepository(mock)

		created, err := repo.Create(ctx, &user)

		require.ErrorIs(t, err, services.ErrUsernameTaken)
		assert.Nil(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("гонка по email отдает доменную ошибку", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.Username, user.Email, user.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		repo := postgres.NewUserRepository(mock)

		_, err = repo.Create(ctx, &user)

		require.ErrorIs(t, err, services.ErrEmailTaken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка базы данных", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.Username, user.Email, user.PasswordHash).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewUserRepository(mock)

		created, err := repo.Create(ctx, &user)

		require.Error(t, err)
		assert.Nil(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	ctx := testContext(t)
	user := testUser()

	t.Run("пользователь найден вместе с закладками", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, username, email, password_hash").
			WithArgs(user.ID).
			WillReturnRows(userRow(user))
		expectSavedPosts(mock, user.ID, "post-1", "post-2")

		repo := postgres.NewUserRepository(mock)

		found, err := repo.FindByID(ctx, user.ID)

		require.NoError(t, err)
		assert.Equal(t, user.Username, found.Username)
		assert.Equal(t, []string{"post-1", "post-2"}, found.SavedPostIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, username, email, password_hash").
			WithArgs("missing-id").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)

		found, err := repo.FindByID(ctx, "missing-id")

		require.ErrorIs(t, err, entities.ErrUserNotFound)
		assert.Nil(t, found)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByIdentifier(t *testing.T) {
	ctx := testContext(t)
	user := testUser()

	t.Run("один запрос покрывает email и username", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE email = \$1 OR username = \$1`).
			WithArgs(user.Username).
			WillReturnRows(userRow(user))
		expectSavedPosts(mock, user.ID)

		repo := postgres.NewUserRepository(mock)

		found, err := repo.FindByIdentifier(ctx, user.Username)

		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("неизвестный идентификатор", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE email = \$1 OR username = \$1`).
			WithArgs("nobody").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)

		found, err := repo.FindByIdentifier(ctx, "nobody")

		require.ErrorIs(t, err, entities.ErrUserNotFound)
		assert.Nil(t, found)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_ListByPostPoints(t *testing.T) {
	ctx := testContext(t)

	t.Run("порядок строк хранилища сохраняется", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		first := testUser()
		second := testUser()
		second.ID = "22222222-2222-2222-2222-222222222222"
		second.Username = "seconduser"
		second.Email = "second@example.com"

		rows := pgxmock.NewRows(userColumns).
			AddRow(first.ID, first.Username, first.Email, first.PasswordHash, first.About,
				first.EducationalPlace, first.EducationalPlaceURL, first.AvatarURL, first.BannerURL,
				first.CreatedAt, first.UpdatedAt).
			AddRow(second.ID, second.Username, second.Email, second.PasswordHash, second.About,
				second.EducationalPlace, second.EducationalPlaceURL, second.AvatarURL, second.BannerURL,
				second.CreatedAt, second.UpdatedAt)

		mock.ExpectQuery("ORDER BY MAX").WillReturnRows(rows)

		repo := postgres.NewUserRepository(mock)

		users, err := repo.ListByPostPoints(ctx)

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, first.ID, users[0].ID)
		assert.Equal(t, second.ID, users[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("пустое хранилище дает пустой список", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("ORDER BY MAX").WillReturnRows(pgxmock.NewRows(userColumns))

		repo := postgres.NewUserRepository(mock)

		users, err := repo.ListByPostPoints(ctx)

		require.NoError(t, err)
		assert.Empty(t, users)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_IsUsernameTaken(t *testing.T) {
	ctx := testContext(t)

	t.Run("пустой excludeID проверяет всех пользователей", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("testuser", "").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		repo := postgres.NewUserRepository(mock)

		taken, err := repo.IsUsernameTaken(ctx, "testuser", "")

		require.NoError(t, err)
		assert.True(t, taken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("собственная запись исключается из проверки", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("testuser", "11111111-1111-1111-1111-111111111111").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		repo := postgres.NewUserRepository(mock)

		taken, err := repo.IsUsernameTaken(ctx, "testuser", "11111111-1111-1111-1111-111111111111")

		require.NoError(t, err)
		assert.False(t, taken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func strPtr(s string) *string {
	return &s
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	ctx := testContext(t)
	user := testUser()

	t.Run("обновление с заменой закладок в одной транзакции", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		change := &entities.ProfileChange{
			Patch:             &entities.UserPatch{Username: strPtr("newname")},
			SavedPostIDs:      []string{"post-1", "post-2"},
			ReplaceSavedPosts: true,
		}

		renamed := user
		renamed.Username = "newname"

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(user.ID).
			WillReturnRows(userRow(user))
		mock.ExpectQuery("UPDATE users").
			WithArgs(user.ID, "newname", user.Email, user.PasswordHash, user.About,
				user.EducationalPlace, user.EducationalPlaceURL, user.AvatarURL, user.BannerURL,
				pgxmock.AnyArg()).
			WillReturnRows(userRow(renamed))
		mock.ExpectExec("DELETE FROM saved_posts").
			WithArgs(user.ID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec("INSERT INTO saved_posts").
			WithArgs(user.ID, "post-1", 0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO saved_posts").
			WithArgs(user.ID, "post-2", 1).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		updated, err := repo.UpdateProfile(ctx, user.ID, change)

		require.NoError(t, err)
		assert.Equal(t, "newname", updated.Username)
		assert.Equal(t, []string{"post-1", "post-2"}, updated.SavedPostIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("без замены закладок прежний список перечитывается", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		change := &entities.ProfileChange{Patch: &entities.UserPatch{About: strPtr("new about")}}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(user.ID).
			WillReturnRows(userRow(user))
		mock.ExpectQuery("UPDATE users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, "new about",
				user.EducationalPlace, user.EducationalPlaceURL, user.AvatarURL, user.BannerURL,
				pgxmock.AnyArg()).
			WillReturnRows(userRow(user))
		expectSavedPosts(mock, user.ID, "post-old")
		mock.ExpectCommit()
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		updated, err := repo.UpdateProfile(ctx, user.ID, change)

		require.NoError(t, err)
		assert.Equal(t, []string{"post-old"}, updated.SavedPostIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("чужие поля из параллельного коммита не затираются", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		// Пока обновление ждало блокировку, другая сессия закоммитила
		// новый about. Патч меняет только username, поэтому в записи
		// обязан уйти about из строки под блокировкой.
		fresh := user
		fresh.About = "committed by another session"

		change := &entities.ProfileChange{Patch: &entities.UserPatch{Username: strPtr("newname")}}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(user.ID).
			WillReturnRows(userRow(fresh))
		mock.ExpectQuery("UPDATE users").
			WithArgs(user.ID, "newname", user.Email, user.PasswordHash, "committed by another session",
				user.EducationalPlace, user.EducationalPlaceURL, user.AvatarURL, user.BannerURL,
				pgxmock.AnyArg()).
			WillReturnRows(userRow(fresh))
		expectSavedPosts(mock, user.ID)
		mock.ExpectCommit()
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		_, err = repo.UpdateProfile(ctx, user.ID, change)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs("missing-id").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		updated, err := repo.UpdateProfile(ctx, "missing-id", &entities.ProfileChange{Patch: &entities.UserPatch{}})

		require.ErrorIs(t, err, entities.ErrUserNotFound)
		assert.Nil(t, updated)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("смена username на занятый", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		change := &entities.ProfileChange{Patch: &entities.UserPatch{Username: strPtr("occupied")}}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(user.ID).
			WillReturnRows(userRow(user))
		mock.ExpectQuery("UPDATE users").
			WithArgs(user.ID, "occupied", user.Email, user.PasswordHash, user.About,
				user.EducationalPlace, user.EducationalPlaceURL, user.AvatarURL, user.BannerURL,
				pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		_, err = repo.UpdateProfile(ctx, user.ID, change)

		require.ErrorIs(t, err, services.ErrUsernameTaken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	ctx := testContext(t)
	userID := "11111111-1111-1111-1111-111111111111"

	t.Run("посты удаляются раньше пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM posts").
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec("DELETE FROM users").
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		require.NoError(t, repo.DeleteCascade(ctx, userID))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM posts").
			WithArgs("missing-id").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("DELETE FROM users").
			WithArgs("missing-id").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		err = repo.DeleteCascade(ctx, "missing-id")

		require.ErrorIs(t, err, entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("сбой удаления постов откатывает транзакцию", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM posts").
			WithArgs(userID).
			WillReturnError(errDatabaseConnection)
		mock.ExpectRollback()

		repo := postgres.NewUserRepository(mock)

		err = repo.DeleteCascade(ctx, userID)

		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
