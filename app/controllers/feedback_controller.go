package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/feedback"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/usercontext"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/viewmodel"
)

const (
	msgFeedbackThanks = "Thank you for your feedback!"
	msgFeedbackFailed = "Failed to submit feedback. Please try again."
	msgCaptchaFailed  = "Captcha verification failed. Please try again."
)

func HandleFeedbackForm(c *fiber.Ctx) error {
	return renderFeedback(c, viewmodel.Feedback{})
}

// HandleFeedbackSubmit validates and submits the form. Entered values are
// kept whenever the submission does not go through.
func HandleFeedbackSubmit(c *fiber.Ctx) error {
	ctrl := newFeedbackController(c)
	if err := c.BodyParser(&ctrl.Form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid form")
	}

	if deps.Captcha != nil {
		if err := deps.Captcha.Verify(c.UserContext(), c.FormValue("h-captcha-response")); err != nil {
			deps.Log.Info().Err(err).Msg("feedback captcha rejected")
			c.Status(fiber.StatusUnprocessableEntity)
			return renderFeedback(c, viewmodel.Feedback{Form: ctrl.Form, Error: msgCaptchaFailed})
		}
	}

	err := ctrl.Submit(c.UserContext())
	var verr *feedback.ValidationError
	switch {
	case err == nil:
		return flashSuccess(c, msgFeedbackThanks).Redirect("/feedback", fiber.StatusSeeOther)
	case errors.As(err, &verr):
		c.Status(fiber.StatusUnprocessableEntity)
		return renderFeedback(c, viewmodel.Feedback{Form: ctrl.Form, MissingFields: verr.Fields})
	default:
		c.Status(fiber.StatusBadGateway)
		return renderFeedback(c, viewmodel.Feedback{Form: ctrl.Form, Error: msgFeedbackFailed})
	}
}

func newFeedbackController(c *fiber.Ctx) *feedback.Controller {
	ctrl := feedback.NewController(deps.Feedback, deps.Log)
	if uc := usercontext.GetUserContext(c); uc.IsLoggedIn {
		id := uc.UserID
		ctrl.UserID = &id
	}
	return ctrl
}

func renderFeedback(c *fiber.Ctx, vm viewmodel.Feedback) error {
	vm.Layout = layoutFor(c, "feedback", "Feedback")
	if deps.Captcha != nil {
		vm.HCaptchaSiteKey = hcaptcha.SiteKey()
	}
	return c.Render("feedback", vm, "layouts/main")
}
