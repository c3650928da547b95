// Package services определяет интерфейсы сервисов сообщества.
package services

import "context"

// PasswordService определяет операции для манипулирования паролем.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	// Verify возвращает (false, nil) при несовпадении пароля: несовпадение
	// не является ошибкой.
	Verify(ctx context.Context, password, hash string) (bool, error)
}
