// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"campushub/pkg/logger"
)

// HeaderRequestID - имя заголовка с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware прокидывает идентификатор запроса в контекст и в
// ответ. Клиентский идентификатор переиспользуется, иначе генерируется новый.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		ctx.SetContext(logger.NewRequestIDContext(ctx.Context(), requestID))
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}
