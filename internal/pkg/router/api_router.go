package router

import (
	apiv1 "github.com/ManuelReschke/BlockHolder/internal/api/v1"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
	feedbackLimit fiber.Handler
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer, apiv1.Options{
		SessionAuth: middleware.RequireAPISessionAuth,
		RateLimit:   h.feedbackLimit,
	})
}

func NewApiRouter(feedbackLimit fiber.Handler) *ApiRouter {
	return &ApiRouter{feedbackLimit: feedbackLimit}
}
