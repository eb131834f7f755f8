package router

import (
	"strings"
	"time"

	"github.com/ManuelReschke/BlockHolder/app/controllers"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func csrfConfig() csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	group := app.Group("", cors.New(), csrf.New(csrfConfig()))
	group.Get("/", controllers.HandleStart)
	group.Get("/pricing", controllers.HandlePricing)
	group.Get("/pricing/calculator", controllers.HandleCalculator)
	group.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)

	feedbackLimit := h.feedbackLimit
	if feedbackLimit == nil {
		feedbackLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	group.Get("/feedback", controllers.HandleFeedbackForm)
	group.Post("/feedback", feedbackLimit, controllers.HandleFeedbackSubmit)

	// Billing dashboard actions
	dash := group.Group("/pricing")
	dash.Post("/annual", middleware.RequireAuth, controllers.HandleDashboardAnnual)

	dash.Post("/upgrade/open", middleware.RequireAuth, controllers.HandleUpgradeOpen)
	dash.Post("/upgrade/close", middleware.RequireAuth, controllers.HandleUpgradeClose)
	dash.Post("/upgrade/select", middleware.RequireAuth, controllers.HandleUpgradeSelect)
	dash.Post("/upgrade/confirm", middleware.RequireAuth, controllers.HandleUpgradeConfirm)

	dash.Post("/payment/open", middleware.RequireAuth, controllers.HandlePaymentOpen)
	dash.Post("/payment/close", middleware.RequireAuth, controllers.HandlePaymentClose)
	dash.Post("/payment/kind", middleware.RequireAuth, controllers.HandlePaymentKind)
	dash.Post("/payment/submit", middleware.RequireAuth, controllers.HandlePaymentSubmit)

	dash.Post("/referral/open", middleware.RequireAuth, controllers.HandleReferralOpen)
	dash.Post("/referral/close", middleware.RequireAuth, controllers.HandleReferralClose)
	dash.Post("/referral/copy", middleware.RequireAuth, controllers.HandleReferralCopy)
	dash.Post("/referral/share/:platform", middleware.RequireAuth, controllers.HandleReferralShare)

	dash.Post("/calculator/open", middleware.RequireAuth, controllers.HandleCalculatorOpen)
	dash.Post("/calculator/close", middleware.RequireAuth, controllers.HandleCalculatorClose)
}
