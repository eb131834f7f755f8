package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/middleware"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	// One limiter for both feedback endpoints so the HTML form and the API
	// share a budget per client.
	feedbackLimit := middleware.NewIPRateLimiter(5, 3).Handler()

	// Install HttpRouter first to initialize session store, oauth providers,
	// and the global UserContext middleware. Then register API routes which
	// depend on that middleware.
	setup(app, NewHttpRouter(feedbackLimit), NewApiRouter(feedbackLimit))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
