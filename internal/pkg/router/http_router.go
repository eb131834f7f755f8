package router

import (
	"github.com/ManuelReschke/BlockHolder/internal/pkg/middleware"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/oauth"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
	feedbackLimit fiber.Handler
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter(feedbackLimit fiber.Handler) *HttpRouter {
	return &HttpRouter{feedbackLimit: feedbackLimit}
}
