package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campushub/internal/community/adapters/services"
	domainsvc "campushub/internal/community/domain/services"
)

func TestBcryptHash(t *testing.T) {
	ctx := context.Background()
	svc := services.NewBcrypt(bcrypt.MinCost)

	t.Run("хэш проверяется исходным паролем", func(t *testing.T) {
		hash, err := svc.Hash(ctx, "password123")
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "password123", hash)

		valid, err := svc.Verify(ctx, "password123", hash)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("одинаковые пароли дают разные хэши", func(t *testing.T) {
		first, err := svc.Hash(ctx, "password123")
		require.NoError(t, err)
		second, err := svc.Hash(ctx, "password123")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("пустой пароль не хэшируется", func(t *testing.T) {
		hash, err := svc.Hash(ctx, "")
		require.ErrorIs(t, err, domainsvc.ErrInvalidPassword)
		assert.Empty(t, hash)
	})
}

func TestBcryptVerify(t *testing.T) {
	ctx := context.Background()
	svc := services.NewBcrypt(bcrypt.MinCost)

	hash, err := svc.Hash(ctx, "password123")
	require.NoError(t, err)

	t.Run("несовпадение пароля не является ошибкой", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "wrong-password", hash)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("пустой пароль отклоняется", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "", hash)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("пустой хэш отклоняется", func(t *testing.T) {
		valid, err := svc.Verify(ctx, "password123", "")
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestNewBcryptCostFallback(t *testing.T) {
	// Недопустимая стоимость заменяется стоимостью по умолчанию, сервис
	// остается работоспособным.
	svc := services.NewBcrypt(-1)

	hash, err := svc.Hash(context.Background(), "password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
