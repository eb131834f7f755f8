package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/billingview"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/feedback"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/oauth"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/viewmodel"
	"github.com/ManuelReschke/BlockHolder/views"
)

// BillingReader loads snapshots for the JSON API.
type BillingReader interface {
	Snapshot(ctx context.Context, userID uint) (billing.Snapshot, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}

// ReferralTracker counts visits of referral links.
type ReferralTracker interface {
	AddReferralVisit(ctx context.Context, referrerPublicID string) error
}

// Dependencies are the services the handlers need. Captcha and Referrals
// are optional.
type Dependencies struct {
	Dashboards *billingview.Registry
	Billing    BillingReader
	Feedback   feedback.SubmissionGateway
	Captcha    CaptchaVerifier
	Referrals  ReferralTracker
	BaseURL    string
	Log        zerolog.Logger
}

var deps Dependencies

// Setup installs the handler dependencies. It must run before the router.
func Setup(d Dependencies) {
	deps = d
}

// csrfContextKey matches the ContextKey of the csrf middleware config.
const csrfContextKey = "csrf"

func layoutFor(c *fiber.Ctx, page, title string) viewmodel.Layout {
	uc := usercontext.GetUserContext(c)
	msg := flash.Get(c)
	token, _ := c.Locals(csrfContextKey).(string)

	return viewmodel.Layout{
		Page:          page,
		Title:         title,
		FromProtected: uc.IsLoggedIn,
		Msg:           msg,
		Toast:         views.ToastHTML(c.UserContext(), msg),
		FirstName:     uc.FirstName,
		Plan:          uc.Plan,
		CSRF:          token,
		Providers:     oauth.ProviderNames(),
	}
}

func flashError(c *fiber.Ctx, message string) *fiber.Ctx {
	return flash.WithError(c, fiber.Map{"type": "error", "message": message})
}

func flashSuccess(c *fiber.Ctx, message string) *fiber.Ctx {
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": message})
}

func flashInfo(c *fiber.Ctx, message string) *fiber.Ctx {
	return flash.WithInfo(c, fiber.Map{"type": "info", "message": message})
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
