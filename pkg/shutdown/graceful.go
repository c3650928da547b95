// Package shutdown координирует остановку сервиса по сигналам SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"campushub/pkg/logger"
)

// MsgHookFailed - сообщение о сбое шага остановки.
const MsgHookFailed = "shutdown hook failed"

// Hook - один шаг остановки: закрытие сервера, пула соединений, кэша.
type Hook func(context.Context) error

// Wait блокирует выполнение до получения SIGINT или SIGTERM, затем выполняет
// хуки последовательно в порядке регистрации в пределах общего дедлайна.
// Порядок значим: HTTP-сервер останавливается раньше хранилищ, от которых
// зависят еще не завершенные запросы. Сбой одного хука логируется и не
// останавливает остальные.
func Wait(timeout time.Duration, hooks ...Hook) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	signal.Stop(sigCh)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	RunHooks(ctx, hooks...)
}

// RunHooks выполняет хуки последовательно, пока не истек дедлайн контекста.
func RunHooks(ctx context.Context, hooks ...Hook) {
	log := logger.Log(ctx)

	for _, hook := range hooks {
		if ctx.Err() != nil {
			return
		}
		if err := hook(ctx); err != nil {
			log.Error(ctx, MsgHookFailed, zap.Error(err))
		}
	}
}
