// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"campushub/internal/community/adapters/http/handlers"
	"campushub/internal/community/adapters/http/middleware"
	"campushub/internal/community/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(
	app *fiber.App,
	authUseCase api.AuthUseCase,
	userUseCase api.UserUseCase,
	contentUseCase api.ContentUseCase,
) {
	userHandler := handlers.NewUserHandler(authUseCase, userUseCase)
	contentHandler := handlers.NewContentHandler(contentUseCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Пользователи и аутентификация.
	apiV1.Post("/users", userHandler.Register)
	apiV1.Post("/login", userHandler.Login)
	apiV1.Get("/users", userHandler.ListUsers)
	apiV1.Get("/users/:username", userHandler.GetProfile)
	apiV1.Put("/users/:user_id", userHandler.Update)
	apiV1.Delete("/users/:user_id", userHandler.Delete)

	// Контент.
	apiV1.Post("/posts", contentHandler.CreatePost)
	apiV1.Get("/posts/:post_id", contentHandler.GetPost)
	apiV1.Post("/posts/:post_id/comments", contentHandler.CreateComment)
	apiV1.Get("/comments/:comment_id", contentHandler.GetComment)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
